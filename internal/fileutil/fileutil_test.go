package fileutil_test

// Notes:
// - WriteFileAtomic write and close error branches are not tested because
//   triggering disk write failures is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/alnah/go-mdreader/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{
			name:      "valid extension md",
			extension: "md",
			wantErr:   nil,
		},
		{
			name:      "valid extension markdown",
			extension: "markdown",
			wantErr:   nil,
		},
		{
			name:      "empty extension",
			extension: "",
			wantErr:   fileutil.ErrExtensionEmpty,
		},
		{
			name:      "forward slash path traversal",
			extension: "../etc/passwd",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "backslash path traversal",
			extension: "..\\windows\\system32",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "null byte injection",
			extension: "md\x00exe",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic output writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fs := osfs.New("")
	path := filepath.Join(dir, "post.html")

	if err := fileutil.WriteFileAtomic(fs, path, []byte("<p>one</p>"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fileutil.WriteFileAtomic(fs, path, []byte("<p>two</p>"), 0o644); err != nil {
		t.Fatalf("unexpected error on overwrite: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != "<p>two</p>" {
		t.Errorf("content = %q, want %q", got, "<p>two</p>")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (temp file leaked)", len(entries))
	}
}

func TestWriteFileAtomic_MemFS(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	if err := fs.MkdirAll("out", 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := fileutil.WriteFileAtomic(fs, "out/post.yaml", []byte("title: x\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := util.ReadFile(fs, "out/post.yaml")
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != "title: x\n" {
		t.Errorf("content = %q", got)
	}

	entries, err := fs.ReadDir("out")
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "post.yaml" {
		t.Errorf("out holds %d entries, want only post.yaml", len(entries))
	}
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fs   billy.Filesystem
		path string
	}{
		{name: "os", fs: osfs.New(""), path: filepath.Join(t.TempDir(), "missing", "post.html")},
		{name: "memory", fs: memfs.New(), path: "missing/post.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := fileutil.WriteFileAtomic(tt.fs, tt.path, []byte("x"), 0o644); err == nil {
				t.Error("expected error for missing directory")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - Regular file detection
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "nope.md"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath / TestIsURL / TestTrimExtension
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"blog", false},
		{"my-site", false},
		{"./site.yaml", true},
		{"../shared/site.yaml", true},
		{"/abs/site.yaml", true},
		{"C:\\config\\site.yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com", true},
		{"HTTP://EXAMPLE.COM", true},
		{"ftp://example.com", false},
		{"/local/path", false},
		{"example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsURL(tt.input); got != tt.want {
				t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"post.md", "post"},
		{"dir/post.markdown", "dir/post"},
		{"noext", "noext"},
		{"archive.tar.gz", "archive.tar"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.TrimExtension(tt.input); got != tt.want {
				t.Errorf("TrimExtension(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
