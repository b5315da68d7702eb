package mdreader

import (
	"errors"
	"strings"
	"testing"
)

// stubReader echoes its name and the path it was asked to read.
type stubReader struct {
	exts []string
	name string
}

func (s *stubReader) FileExtensions() []string { return s.exts }

func (s *stubReader) Read(path string) (*Document, error) {
	return &Document{HTML: s.name + ":" + path}, nil
}

func TestRegistry_ReaderFor(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	md := &stubReader{exts: []string{"md", ".Markdown"}, name: "md"}
	txt := &stubReader{exts: []string{"txt", ""}, name: "txt"}
	reg.Register(md)
	reg.Register(txt)

	tests := []struct {
		path   string
		want   DocumentReader
		wantOK bool
	}{
		{path: "post.md", want: md, wantOK: true},
		{path: "dir/POST.MD", want: md, wantOK: true},
		{path: "a.markdown", want: md, wantOK: true},
		{path: "notes.txt", want: txt, wantOK: true},
		{path: "image.png"},
		{path: "README"},
		{path: "dir.md/file"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, ok := reg.ReaderFor(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("reader = %v, want %v", got, tt.want)
			}
		})
	}

	if got := strings.Join(reg.Extensions(), ","); got != "markdown,md,txt" {
		t.Errorf("Extensions() = %s, want markdown,md,txt", got)
	}
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubReader{exts: []string{"md"}, name: "first"})
	reg.Register(&stubReader{exts: []string{"MD"}, name: "second"})

	doc, err := reg.Read("x.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.HTML != "second:x.md" {
		t.Errorf("Read() dispatched to %q, want second", doc.HTML)
	}
}

func TestRegistry_ReadUnknownExtension(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().Read("x.rst")
	if !errors.Is(err, ErrNoReader) {
		t.Errorf("error = %v, want ErrNoReader", err)
	}
}

func TestRegisterCommonMark(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	r, err := RegisterCommonMark(reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Join(reg.Extensions(), ","); got != "markdown,md,mdown,mkd" {
		t.Errorf("Extensions() = %s", got)
	}
	for _, p := range []string{"a.md", "b.markdown", "c.mkd", "d.mdown"} {
		if got, ok := reg.ReaderFor(p); !ok || got != DocumentReader(r) {
			t.Errorf("ReaderFor(%q) = %v, %v; want the CommonMark reader", p, got, ok)
		}
	}

	noExts := DefaultConfig()
	noExts.FileExtensions = nil
	if _, err := RegisterCommonMark(NewRegistry(), WithConfig(noExts)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}
