package mdreader

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
)

// DocumentReader reads one source into a Document.
type DocumentReader interface {
	// FileExtensions lists the dot-less extensions the reader handles.
	FileExtensions() []string
	Read(path string) (*Document, error)
}

// Registry maps file extensions to readers. Extensions are matched
// case-insensitively without the leading dot.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]DocumentReader
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]DocumentReader)}
}

// Register maps every extension of dr to it. A later registration for the
// same extension replaces the earlier one.
func (g *Registry) Register(dr DocumentReader) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, ext := range dr.FileExtensions() {
		if ext = normalizeExtension(ext); ext != "" {
			g.readers[ext] = dr
		}
	}
}

// ReaderFor returns the reader registered for the extension of path.
func (g *Registry) ReaderFor(path string) (DocumentReader, bool) {
	ext := normalizeExtension(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	dr, ok := g.readers[ext]
	return dr, ok
}

// Read dispatches path to its registered reader.
func (g *Registry) Read(path string) (*Document, error) {
	dr, ok := g.ReaderFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoReader, filepath.Ext(path))
	}
	return dr.Read(path)
}

// Extensions returns the registered extensions, sorted.
func (g *Registry) Extensions() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	exts := make([]string, 0, len(g.readers))
	for ext := range g.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// RegisterCommonMark creates a Reader with opts and registers it for its
// configured extensions (md, markdown, mkd and mdown by default).
func RegisterCommonMark(reg *Registry, opts ...Option) (*Reader, error) {
	r, err := NewReader(opts...)
	if err != nil {
		return nil, err
	}
	reg.Register(r)
	return r, nil
}
