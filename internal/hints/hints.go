// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mdreader/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mdreader") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForMalformedFrontMatter returns hints for unterminated or invalid front matter.
func ForMalformedFrontMatter(delimiter string, closers []string) string {
	if delimiter == "" || len(closers) == 0 {
		return ""
	}
	return formatHints([]string{
		"front matter opened with " + delimiter + " must close with " + strings.Join(closers, " or "),
		"the block must contain a YAML mapping",
	})
}

// ForUnreadableSource returns hints for files that are not valid UTF-8.
func ForUnreadableSource() string {
	return format("convert the file to UTF-8 (e.g. iconv -t UTF-8)")
}

// ForUnknownExtension returns hints listing the accepted markdown extensions.
func ForUnknownExtension(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForHighlightStyle returns hints for unknown chroma styles.
func ForHighlightStyle() string {
	return format("run 'mdreader help styles' to list the available styles")
}

// ForPageStyle returns hints for page styles missing from both the custom
// asset directory and the built-in set. customDir is the configured asset
// directory, or "" when none is set.
func ForPageStyle(builtin []string, customDir string) string {
	hint := "add styles/<name>.css under --asset-path"
	if customDir != "" {
		hint = "add styles/<name>.css under " + customDir
	}
	if len(builtin) > 0 {
		hint = "built-in: " + strings.Join(builtin, ", ") + "; or " + hint
	}
	return format(hint)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
