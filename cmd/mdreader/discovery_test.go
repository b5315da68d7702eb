package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	mdreader "github.com/alnah/go-mdreader"
)

func newMemFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()

	fs := memfs.New()
	for name, content := range files {
		if err := util.WriteFile(fs, name, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return fs
}

func newCommonMarkRegistry(t *testing.T) *mdreader.Registry {
	t.Helper()

	reg := mdreader.NewRegistry()
	if _, err := mdreader.RegisterCommonMark(reg); err != nil {
		t.Fatalf("registering reader: %v", err)
	}
	return reg
}

// ---------------------------------------------------------------------------
// TestDiscoverSources - Input expansion
// ---------------------------------------------------------------------------

func TestDiscoverSources(t *testing.T) {
	t.Parallel()

	fs := newMemFS(t, map[string]string{
		"content/a.md":             "a",
		"content/b.markdown":       "b",
		"content/notes.txt":        "skip",
		"content/sub/c.mkd":        "c",
		"content/sub/deep/e.mdown": "e",
		"content/.drafts/d.md":     "hidden dir",
		"single/post.MD":           "upper-case extension",
	})

	got, err := discoverSources(fs, []string{"content", "single/post.MD", "content/a.md"}, newCommonMarkRegistry(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []source{
		{Path: "content/a.md", Rel: "a.md"},
		{Path: "content/b.markdown", Rel: "b.markdown"},
		{Path: "content/sub/c.mkd", Rel: "sub/c.mkd"},
		{Path: "content/sub/deep/e.mdown", Rel: "sub/deep/e.mdown"},
		{Path: "single/post.MD", Rel: "post.MD"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sources %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sources[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDiscoverSources_Errors(t *testing.T) {
	t.Parallel()

	fs := newMemFS(t, map[string]string{"notes.txt": "x", "empty/readme.txt": "x"})
	reg := newCommonMarkRegistry(t)

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverSources(fs, []string{"missing.md"}, reg)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("unregistered extension", func(t *testing.T) {
		t.Parallel()

		_, err := discoverSources(fs, []string{"notes.txt"}, reg)
		if !errors.Is(err, mdreader.ErrNoReader) {
			t.Fatalf("error = %v, want ErrNoReader", err)
		}
		if !strings.Contains(err.Error(), "available: markdown, md, mdown, mkd") {
			t.Errorf("error lacks extension hint: %v", err)
		}
	})

	t.Run("remote source", func(t *testing.T) {
		t.Parallel()

		_, err := discoverSources(fs, []string{"https://example.com/post.md"}, reg)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("directory without sources", func(t *testing.T) {
		t.Parallel()

		got, err := discoverSources(fs, []string{"empty"}, reg)
		if err != nil || len(got) != 0 {
			t.Errorf("discoverSources(empty) = %v, %v; want none", got, err)
		}
	})
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, maxWorkers} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) = %v", n, err)
		}
	}
	for _, n := range []int{-1, maxWorkers + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}
