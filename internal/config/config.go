package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tailscale/hujson"

	"github.com/alnah/go-mdreader/internal/dateutil"
	"github.com/alnah/go-mdreader/internal/fileutil"
	"github.com/alnah/go-mdreader/internal/yamlutil"
	"github.com/alnah/go-mdreader/metadata"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxDelimiterLength = 10   // front matter fence
	MaxMarkerLength    = 4    // directive marker
	MaxPrefixLength    = 256  // link/image prefix
	MaxURLLength       = 2048 // site URL
	MaxStyleLength     = 50   // chroma style name
	MaxExtensionLength = 16   // file extension
)

// Title match modes for duplicate heading detection.
const (
	MatchExact = "exact"
	MatchFold  = "fold"
)

// appDirName is the directory under the user config dir searched by name.
const appDirName = "go-mdreader"

// Config holds the reader configuration. It is loaded once and treated as
// read-only afterwards.
type Config struct {
	FileExtensions []string          `yaml:"fileExtensions"`
	FrontMatter    FrontMatterConfig `yaml:"frontMatter"`
	Metadata       MetadataConfig    `yaml:"metadata"`
	Directives     DirectivesConfig  `yaml:"directives"`
	Markdown       MarkdownConfig    `yaml:"markdown"`
	Links          LinksConfig       `yaml:"links"`
	Images         ImagesConfig      `yaml:"images"`
	Highlight      HighlightConfig   `yaml:"highlight"`
	Title          TitleConfig       `yaml:"title"`
	Output         OutputConfig      `yaml:"output"`
}

// FrontMatterConfig defines the front matter fence syntax.
type FrontMatterConfig struct {
	Delimiter       string   `yaml:"delimiter"`       // opening line, must be the first line
	CloseDelimiters []string `yaml:"closeDelimiters"` // any of these closes the block
}

// MetadataConfig drives the metadata normalizers.
type MetadataConfig struct {
	DateFormats       []string        `yaml:"dateFormats"`       // tokens or presets, tried in order
	Timezone          string          `yaml:"timezone"`          // IANA name for zoneless dates
	TagDelimiters     string          `yaml:"tagDelimiters"`     // each rune splits
	AuthorDelimiters  string          `yaml:"authorDelimiters"`  // each rune splits
	LowercaseTags     bool            `yaml:"lowercaseTags"`     // Unicode case folding
	DuplicatesAllowed map[string]bool `yaml:"duplicatesAllowed"` // per key, e.g. tags: true
}

// DirectivesConfig controls removal of directive-only lines.
type DirectivesConfig struct {
	Enabled bool   `yaml:"enabled"`
	Marker  string `yaml:"marker"` // "#" for #tag lines
}

// MarkdownConfig configures the CommonMark engine.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"` // named goldmark extensions
	HardWraps  bool     `yaml:"hardWraps"`
	XHTML      bool     `yaml:"xhtml"`
	Unsafe     bool     `yaml:"unsafe"`     // pass raw HTML and dangerous URLs through
	HeadingIDs bool     `yaml:"headingIDs"` // generate id attributes on headings
}

// SuffixReplacement rewrites the extension of relative link targets.
type SuffixReplacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LinksConfig drives the link_open override.
type LinksConfig struct {
	Prefix          string            `yaml:"prefix"`          // prepended to relative targets, e.g. "{filename}"
	ReplaceSuffix   SuffixReplacement `yaml:"replaceSuffix"`   // e.g. .md -> .html
	ResolveRelative bool              `yaml:"resolveRelative"` // join with the source directory
	ExternalNewTab  bool              `yaml:"externalNewTab"`  // target=_blank rel=noopener
	SiteURL         string            `yaml:"siteURL"`         // links under it are not external
}

// ImagesConfig drives the image override.
type ImagesConfig struct {
	Prefix          string `yaml:"prefix"`
	ResolveRelative bool   `yaml:"resolveRelative"`
	Lazy            bool   `yaml:"lazy"` // loading="lazy"
}

// HighlightConfig drives the fence override.
type HighlightConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Style       string `yaml:"style"`   // chroma style name
	Classes     bool   `yaml:"classes"` // CSS classes instead of inline styles
	LineNumbers bool   `yaml:"lineNumbers"`
}

// TitleConfig drives the HTML post-processor.
type TitleConfig struct {
	FromHeading     bool   `yaml:"fromHeading"`     // h1_as_title
	RemoveDuplicate bool   `yaml:"removeDuplicate"` // remove_duplicate_h1
	Match           string `yaml:"match"`           // "exact" or "fold"
}

// OutputConfig defines CLI output options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = stream records to stdout
	Format     string `yaml:"format"`     // "yaml" or "json" for streamed records
	PageStyle  string `yaml:"pageStyle"`  // stylesheet for standalone pages, empty = none
	AssetPath  string `yaml:"assetPath"`  // directory holding styles/{name}.css overrides
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		FileExtensions: []string{"md", "markdown", "mkd", "mdown"},
		FrontMatter: FrontMatterConfig{
			Delimiter:       "---",
			CloseDelimiters: []string{"---", "..."},
		},
		Metadata: MetadataConfig{
			DateFormats:      append([]string(nil), dateutil.DefaultDateFormats...),
			Timezone:         "UTC",
			TagDelimiters:    metadata.DefaultTagDelimiters,
			AuthorDelimiters: metadata.DefaultAuthorDelimiters,
		},
		Directives: DirectivesConfig{Enabled: true, Marker: "#"},
		Markdown: MarkdownConfig{
			Extensions: []string{"table", "strikethrough", "footnote"},
			HeadingIDs: true,
		},
		Highlight: HighlightConfig{Enabled: true, Style: "github", Classes: true},
		Title: TitleConfig{
			FromHeading:     true,
			RemoveDuplicate: true,
			Match:           MatchExact,
		},
		Output: OutputConfig{Format: "yaml", PageStyle: "default"},
	}
}

// Validate checks field lengths and value domains.
func (c *Config) Validate() error {
	if len(c.FileExtensions) == 0 {
		return fmt.Errorf("%w: fileExtensions: at least one extension required", ErrInvalidValue)
	}
	for i, ext := range c.FileExtensions {
		if err := validateFieldLength(fmt.Sprintf("fileExtensions[%d]", i), ext, MaxExtensionLength); err != nil {
			return err
		}
		if err := fileutil.ValidateExtension(strings.TrimPrefix(ext, ".")); err != nil {
			return fmt.Errorf("%w: fileExtensions[%d]: %v", ErrInvalidValue, i, err)
		}
	}

	// Front matter
	if strings.TrimSpace(c.FrontMatter.Delimiter) == "" {
		return fmt.Errorf("%w: frontMatter.delimiter: cannot be empty", ErrInvalidValue)
	}
	if err := validateFieldLength("frontMatter.delimiter", c.FrontMatter.Delimiter, MaxDelimiterLength); err != nil {
		return err
	}
	if len(c.FrontMatter.CloseDelimiters) == 0 {
		return fmt.Errorf("%w: frontMatter.closeDelimiters: at least one delimiter required", ErrInvalidValue)
	}
	for i, d := range c.FrontMatter.CloseDelimiters {
		name := fmt.Sprintf("frontMatter.closeDelimiters[%d]", i)
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("%w: %s: cannot be empty", ErrInvalidValue, name)
		}
		if err := validateFieldLength(name, d, MaxDelimiterLength); err != nil {
			return err
		}
	}

	// Metadata
	if _, err := dateutil.Layouts(c.Metadata.DateFormats); err != nil {
		return fmt.Errorf("%w: metadata.dateFormats: %v", ErrInvalidValue, err)
	}
	if _, err := c.location(); err != nil {
		return fmt.Errorf("%w: metadata.timezone: %v", ErrInvalidValue, err)
	}
	if c.Metadata.TagDelimiters == "" {
		return fmt.Errorf("%w: metadata.tagDelimiters: cannot be empty", ErrInvalidValue)
	}
	if c.Metadata.AuthorDelimiters == "" {
		return fmt.Errorf("%w: metadata.authorDelimiters: cannot be empty", ErrInvalidValue)
	}

	// Directives
	if c.Directives.Enabled {
		if strings.TrimSpace(c.Directives.Marker) == "" || strings.ContainsAny(c.Directives.Marker, " \t") {
			return fmt.Errorf("%w: directives.marker: must be non-empty without whitespace", ErrInvalidValue)
		}
		if err := validateFieldLength("directives.marker", c.Directives.Marker, MaxMarkerLength); err != nil {
			return err
		}
	}

	// Links and images
	if err := validateFieldLength("links.prefix", c.Links.Prefix, MaxPrefixLength); err != nil {
		return err
	}
	if err := validateFieldLength("links.siteURL", c.Links.SiteURL, MaxURLLength); err != nil {
		return err
	}
	if (c.Links.ReplaceSuffix.From == "") != (c.Links.ReplaceSuffix.To == "") {
		return fmt.Errorf("%w: links.replaceSuffix: from and to must be set together", ErrInvalidValue)
	}
	if err := validateFieldLength("images.prefix", c.Images.Prefix, MaxPrefixLength); err != nil {
		return err
	}

	// Highlight
	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}

	// Title
	switch strings.ToLower(c.Title.Match) {
	case "", MatchExact, MatchFold:
	default:
		return fmt.Errorf("%w: title.match: %q (must be exact or fold)", ErrInvalidValue, c.Title.Match)
	}

	// Output
	switch strings.ToLower(c.Output.Format) {
	case "", "yaml", "json":
	default:
		return fmt.Errorf("%w: output.format: %q (must be yaml or json)", ErrInvalidValue, c.Output.Format)
	}
	if err := validateFieldLength("output.pageStyle", c.Output.PageStyle, MaxStyleLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func (c *Config) location() (*time.Location, error) {
	if c.Metadata.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Metadata.Timezone)
}

// MetadataSettings converts the metadata section for the normalizers.
func (c *Config) MetadataSettings() (*metadata.Settings, error) {
	layouts, err := dateutil.Layouts(c.Metadata.DateFormats)
	if err != nil {
		return nil, err
	}
	loc, err := c.location()
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(c.Metadata.DuplicatesAllowed))
	for k, v := range c.Metadata.DuplicatesAllowed {
		allowed[strings.ToLower(k)] = v
	}

	return &metadata.Settings{
		DateLayouts:       layouts,
		Location:          loc,
		TagDelimiters:     c.Metadata.TagDelimiters,
		AuthorDelimiters:  c.Metadata.AuthorDelimiters,
		LowercaseTags:     c.Metadata.LowercaseTags,
		DuplicatesAllowed: allowed,
	}, nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return ParseConfig(data, filepath.Ext(configPath))
}

// ParseConfig decodes config bytes. JSON-family extensions (.json, .jsonc,
// .hujson) are standardized first so comments and trailing commas are allowed.
func ParseConfig(data []byte, ext string) (*Config, error) {
	switch strings.ToLower(ext) {
	case ".json", ".jsonc", ".hujson":
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		data = std
	}

	cfg := DefaultConfig()
	if strings.TrimSpace(string(data)) != "" {
		if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .jsonc
// Tries locations in order: current directory, ~/.config/go-mdreader/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml", ".jsonc"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
