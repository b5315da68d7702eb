package mdreader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/alnah/go-mdreader/internal/config"
	"github.com/alnah/go-mdreader/internal/pipeline"
	"github.com/alnah/go-mdreader/metadata"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.LinkHook  = (*pipeline.RewriteLinkHook)(nil)
	_ pipeline.ImageHook = (*pipeline.RewriteImageHook)(nil)
	_ pipeline.FenceHook = (*pipeline.ChromaFenceHook)(nil)
	_ DocumentReader     = (*Reader)(nil)
)

var errInvalidUTF8 = errors.New("invalid UTF-8")

// Byte order marks that switch decoding to UTF-16.
var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Reader runs the reading pipeline for CommonMark sources.
// Create with NewReader. A Reader is immutable and safe for concurrent use.
type Reader struct {
	cfg        *config.Config
	fs         billy.Filesystem
	logger     zerolog.Logger
	directives *pipeline.DirectivePreprocessor // nil when directives are disabled
	extractor  *pipeline.FrontMatterExtractor
	engine     *pipeline.Engine
	highlight  *pipeline.ChromaFenceHook
	matchMode  pipeline.MatchMode
}

// NewReader creates a Reader with the default configuration.
// Use options to customize behavior (e.g., WithConfig, WithFilesystem).
// Returns ErrInvalidConfig if the configuration does not validate.
func NewReader(opts ...Option) (*Reader, error) {
	o := &readerOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.cfg == nil {
		o.cfg = config.DefaultConfig()
	}
	if o.fs == nil {
		o.fs = osfs.New("")
	}

	cfg := o.cfg
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	settings, err := cfg.MetadataSettings()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	r := &Reader{
		cfg:       cfg,
		fs:        o.fs,
		logger:    o.logger,
		matchMode: pipeline.ParseMatchMode(cfg.Title.Match),
	}

	if cfg.Directives.Enabled {
		r.directives, err = pipeline.NewDirectivePreprocessor(
			cfg.Directives.Marker,
			cfg.FrontMatter.Delimiter,
			cfg.FrontMatter.CloseDelimiters,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	r.extractor = pipeline.NewFrontMatterExtractor(
		cfg.FrontMatter.Delimiter,
		cfg.FrontMatter.CloseDelimiters,
		settings,
		o.logger,
	)

	r.highlight = pipeline.NewChromaFenceHook(pipeline.HighlightOptions{
		Enabled:     cfg.Highlight.Enabled,
		Style:       cfg.Highlight.Style,
		Classes:     cfg.Highlight.Classes,
		LineNumbers: cfg.Highlight.LineNumbers,
	}, o.logger)

	r.engine, err = pipeline.NewEngine(pipeline.EngineOptions{
		Extensions: cfg.Markdown.Extensions,
		HardWraps:  cfg.Markdown.HardWraps,
		XHTML:      cfg.Markdown.XHTML,
		Unsafe:     cfg.Markdown.Unsafe,
		HeadingIDs: cfg.Markdown.HeadingIDs,
		Hooks:      r.buildHooks(o.hooks),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return r, nil
}

// buildHooks returns the configured hooks with the non-nil overrides
// applied.
func (r *Reader) buildHooks(overrides pipeline.Hooks) pipeline.Hooks {
	cfg := r.cfg
	hooks := pipeline.Hooks{
		Link: pipeline.NewRewriteLinkHook(pipeline.LinkOptions{
			Prefix:          cfg.Links.Prefix,
			SuffixFrom:      cfg.Links.ReplaceSuffix.From,
			SuffixTo:        cfg.Links.ReplaceSuffix.To,
			ResolveRelative: cfg.Links.ResolveRelative,
			ExternalNewTab:  cfg.Links.ExternalNewTab,
			SiteURL:         cfg.Links.SiteURL,
		}),
		Image: pipeline.NewRewriteImageHook(pipeline.ImageOptions{
			Prefix:          cfg.Images.Prefix,
			ResolveRelative: cfg.Images.ResolveRelative,
			Lazy:            cfg.Images.Lazy,
		}),
		Fence: r.highlight,
	}

	if overrides.Link != nil {
		hooks.Link = overrides.Link
	}
	if overrides.Image != nil {
		hooks.Image = overrides.Image
	}
	if overrides.Fence != nil {
		hooks.Fence = overrides.Fence
	}
	return hooks
}

// Read reads and renders the document at path.
func (r *Reader) Read(path string) (*Document, error) {
	return r.ReadContext(context.Background(), path)
}

// ReadContext is Read with a context for cancellation of the render stage.
func (r *Reader) ReadContext(ctx context.Context, path string) (*Document, error) {
	data, err := util.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, path, err)
	}
	return r.ReadSource(ctx, path, data)
}

// ReadSource renders src as if it had been read from path. The path is only
// used as the document identifier.
func (r *Reader) ReadSource(ctx context.Context, path string, src []byte) (*Document, error) {
	text, err := decodeSource(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, path, err)
	}
	return r.render(ctx, path, text)
}

// render runs the pipeline stages on decoded text. Either a complete
// Document or an error is returned.
func (r *Reader) render(ctx context.Context, path, text string) (*Document, error) {
	start := time.Now()
	log := r.logger.With().Str("path", path).Logger()

	text = pipeline.NormalizeLineEndings(text)

	var tags []string
	if r.directives != nil {
		text, tags = r.directives.Process(text)
		log.Debug().Strs("tags", tags).Msg("directive lines removed")
	}

	body, md, err := r.extractor.Extract(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Strs("keys", md.Keys()).Msg("front matter extracted")

	md.AppendTags(tags...)
	md.Set(metadata.KeyPath, path)

	html, err := r.engine.ToHTML(ctx, body, pipeline.RenderContext{SourcePath: filepath.ToSlash(path)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if r.cfg.Title.FromHeading {
		html = pipeline.H1AsTitle(html, md)
	}
	if r.cfg.Title.RemoveDuplicate {
		html = pipeline.RemoveDuplicateH1(html, md, r.matchMode)
	}

	md.Finalize()

	log.Debug().Dur("duration", time.Since(start)).Msg("document rendered")
	return &Document{HTML: html, Metadata: md}, nil
}

// FileExtensions returns the dot-less, lowercase extensions this reader
// handles.
func (r *Reader) FileExtensions() []string {
	exts := make([]string, 0, len(r.cfg.FileExtensions))
	for _, ext := range r.cfg.FileExtensions {
		exts = append(exts, normalizeExtension(ext))
	}
	return exts
}

// CSS writes the stylesheet for class-based highlighting.
func (r *Reader) CSS(w io.Writer) error {
	return r.highlight.WriteCSS(w)
}

// decodeSource converts raw bytes to text. A UTF-8 byte order mark is
// dropped; a UTF-16 one switches decoding to UTF-16. Otherwise the input
// must be valid UTF-8.
func decodeSource(data []byte) (string, error) {
	utf16 := bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE)
	if !utf16 && !utf8.Valid(data) {
		return "", errInvalidUTF8
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
