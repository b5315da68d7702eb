package pipeline

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rs/zerolog"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// HighlightOptions configures ChromaFenceHook.
type HighlightOptions struct {
	Enabled     bool
	Style       string // chroma style name
	Classes     bool   // CSS classes instead of inline styles
	LineNumbers bool
}

// ChromaFenceHook highlights fenced code with chroma. Unknown or empty
// languages, disabled highlighting and chroma errors fall back to a plain
// <pre><code> block.
type ChromaFenceHook struct {
	enabled   bool
	style     *chroma.Style
	formatter *chromahtml.Formatter
	logger    zerolog.Logger
}

// NewChromaFenceHook returns a fence hook for opts. An unknown style name
// resolves to chroma's fallback style.
func NewChromaFenceHook(opts HighlightOptions, logger zerolog.Logger) *ChromaFenceHook {
	name := opts.Style
	if name == "" {
		name = DefaultHighlightStyle
	}
	h := &ChromaFenceHook{
		enabled: opts.Enabled,
		style:   styles.Get(name),
		formatter: chromahtml.New(
			chromahtml.WithClasses(opts.Classes),
			chromahtml.WithLineNumbers(opts.LineNumbers),
		),
		logger: logger,
	}
	if h.StyleName() != name {
		logger.Warn().Str("style", name).Str("fallback", h.StyleName()).Msg("unknown highlight style")
	}
	return h
}

// RenderFence renders fence, highlighted when its language is known.
func (h *ChromaFenceHook) RenderFence(_ *RenderContext, fence Fence) string {
	if !h.enabled || fence.Language == "" {
		return plainFence(fence)
	}

	lexer := lexers.Get(fence.Language)
	if lexer == nil {
		return plainFence(fence)
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, fence.Code)
	if err != nil {
		h.logger.Debug().Err(err).Str("language", fence.Language).Msg("tokenise failed, using plain fence")
		return plainFence(fence)
	}

	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		h.logger.Debug().Err(err).Str("language", fence.Language).Msg("format failed, using plain fence")
		return plainFence(fence)
	}
	return b.String()
}

// WriteCSS writes the stylesheet matching class-based output.
func (h *ChromaFenceHook) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

// StyleName returns the resolved chroma style name.
func (h *ChromaFenceHook) StyleName() string {
	return h.style.Name
}
