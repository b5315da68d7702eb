package hints

import (
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		searched []string
		want     []string
	}{
		{
			name:     "suggests user config path",
			searched: []string{"blog.yaml", "/home/u/.config/go-mdreader/blog.yaml"},
			want:     []string{"--config", "or create /home/u/.config/go-mdreader/blog.yaml"},
		},
		{
			name:     "no user path",
			searched: []string{"blog.yaml"},
			want:     []string{"--config"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.searched)
			if !strings.HasPrefix(hint, "\n  hint: ") {
				t.Errorf("hint %q missing prefix", hint)
			}
			for _, w := range tt.want {
				if !strings.Contains(hint, w) {
					t.Errorf("hint %q missing %q", hint, w)
				}
			}
		})
	}
}

func TestForMalformedFrontMatter(t *testing.T) {
	t.Parallel()

	hint := ForMalformedFrontMatter("---", []string{"---", "..."})
	if !strings.Contains(hint, "--- or ...") {
		t.Errorf("hint %q missing closers", hint)
	}
	if !strings.Contains(hint, "; the block must contain a YAML mapping") {
		t.Errorf("hint %q missing mapping note", hint)
	}

	if got := ForMalformedFrontMatter("", nil); got != "" {
		t.Errorf("empty delimiter hint = %q, want empty", got)
	}
}

func TestForUnknownExtension(t *testing.T) {
	t.Parallel()

	if got := ForUnknownExtension(nil); got != "" {
		t.Errorf("ForUnknownExtension(nil) = %q, want empty", got)
	}
	got := ForUnknownExtension([]string{"md", "markdown"})
	if !strings.Contains(got, "available: md, markdown") {
		t.Errorf("ForUnknownExtension = %q", got)
	}
}

func TestForPageStyle(t *testing.T) {
	t.Parallel()

	got := ForPageStyle([]string{"default", "minimal"}, "")
	if !strings.Contains(got, "built-in: default, minimal") || !strings.Contains(got, "--asset-path") {
		t.Errorf("ForPageStyle = %q", got)
	}
	if got := ForPageStyle(nil, ""); strings.Contains(got, "built-in") {
		t.Errorf("ForPageStyle(nil) = %q, want no built-in list", got)
	}
	if got := ForPageStyle(nil, "theme"); !strings.Contains(got, "under theme") {
		t.Errorf("ForPageStyle(custom) = %q, want the configured directory", got)
	}
}

func TestSimpleHints(t *testing.T) {
	t.Parallel()

	for name, hint := range map[string]string{
		"output":     ForOutputDirectory(),
		"unreadable": ForUnreadableSource(),
		"style":      ForHighlightStyle(),
	} {
		if !strings.HasPrefix(hint, "\n  hint: ") {
			t.Errorf("%s hint = %q, missing prefix", name, hint)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
	if got := formatHints([]string{"a", "b"}); got != "\n  hint: a; b" {
		t.Errorf("formatHints = %q", got)
	}
}
