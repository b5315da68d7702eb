package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Sentinel errors for the CommonMark engine.
var (
	ErrRender           = errors.New("markdown render failed")
	ErrUnknownExtension = errors.New("unknown markdown extension")
)

// hookPriority places the hook renderer ahead of the stock HTML renderer
// (1000) and the footnote renderer (500). Lower values win.
const hookPriority = 100

// renderContextKey stores the per-document RenderContext in the document
// meta so hooks can reach it without shared state.
const renderContextKey = "mdreader.renderContext"

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// ExtensionNames returns the accepted extension names, sorted.
func ExtensionNames() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// collectExtensions resolves names to extenders, skipping blanks and
// repeats. Unknown names are an error.
func collectExtensions(names []string) ([]goldmark.Extender, error) {
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders, nil
}

// EngineOptions configures the CommonMark engine.
type EngineOptions struct {
	Extensions []string
	HardWraps  bool // treat newlines as <br>
	XHTML      bool // self-closing tags
	Unsafe     bool // keep raw HTML and dangerous URLs
	HeadingIDs bool // generate id attributes on headings
	Hooks      Hooks
}

// Engine renders Markdown to an HTML fragment with the link, image and fence
// hooks installed. It holds no per-document state and is safe for
// concurrent use.
type Engine struct {
	md     goldmark.Markdown
	xhtml  bool
	unsafe bool
}

// NewEngine builds a goldmark engine for opts.
func NewEngine(opts EngineOptions) (*Engine, error) {
	exts, err := collectExtensions(opts.Extensions)
	if err != nil {
		return nil, err
	}

	var parserOptions []parser.Option
	if opts.HeadingIDs {
		parserOptions = append(parserOptions, parser.WithAutoHeadingID())
	}

	rendererOptions := []renderer.Option{
		renderer.WithNodeRenderers(util.Prioritized(newHookRenderer(opts.Hooks.withDefaults()), hookPriority)),
	}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.XHTML {
		rendererOptions = append(rendererOptions, html.WithXHTML())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	)

	return &Engine{md: md, xhtml: opts.XHTML, unsafe: opts.Unsafe}, nil
}

// ToHTML renders content as an HTML fragment, passing rc to the hooks.
// Rendering runs on its own goroutine so that ctx cancellation returns
// ctx.Err() without waiting for it. A panic while parsing or rendering,
// including one raised by a hook, is reported as ErrRender.
func (e *Engine) ToHTML(ctx context.Context, content string, rc RenderContext) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rc.XHTML = e.xhtml
	rc.Unsafe = e.unsafe

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: internal error: %v", ErrRender, r)}
			}
		}()

		src := []byte(content)
		doc := e.md.Parser().Parse(text.NewReader(src))
		if d, ok := doc.(*ast.Document); ok {
			d.AddMeta(renderContextKey, &rc)
		}

		var buf bytes.Buffer
		if err := e.md.Renderer().Render(&buf, src, doc); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRender, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// hookRenderer adapts Hooks to goldmark's NodeRenderer.
type hookRenderer struct {
	hooks Hooks
}

func newHookRenderer(hooks Hooks) renderer.NodeRenderer {
	return &hookRenderer{hooks: hooks}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *hookRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindFencedCodeBlock, r.renderFence)
}

func (r *hookRenderer) renderLink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(r.hooks.Link.RenderLinkOpen(renderContextOf(node), Link{
		Destination: string(n.Destination),
		Title:       string(n.Title),
	}))
	return ast.WalkContinue, nil
}

func (r *hookRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.AutoLink)
	if !entering {
		return ast.WalkContinue, nil
	}

	dest := string(n.URL(source))
	if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(dest), "mailto:") {
		dest = "mailto:" + dest
	}

	_, _ = w.WriteString(r.hooks.Link.RenderLinkOpen(renderContextOf(node), Link{
		Destination: dest,
		Autolink:    true,
	}))
	_, _ = w.Write(util.EscapeHTML(n.Label(source)))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

func (r *hookRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)

	var alt strings.Builder
	writePlainText(&alt, n, source)

	_, _ = w.WriteString(r.hooks.Image.RenderImage(renderContextOf(node), Image{
		Destination: string(n.Destination),
		Title:       string(n.Title),
		Alt:         alt.String(),
	}))
	return ast.WalkSkipChildren, nil
}

func (r *hookRenderer) renderFence(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	fence := Fence{Language: string(n.Language(source))}
	if n.Info != nil {
		fence.Info = string(n.Info.Segment.Value(source))
	}

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}
	fence.Code = code.String()

	_, _ = w.WriteString(r.hooks.Fence.RenderFence(renderContextOf(node), fence))
	return ast.WalkSkipChildren, nil
}

// writePlainText writes the text content of n's descendants.
func writePlainText(b *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			writePlainText(b, c, source)
		}
	}
}

// renderContextOf returns the RenderContext stored on the owning document.
func renderContextOf(n ast.Node) *RenderContext {
	for p := n; p != nil; p = p.Parent() {
		if d, ok := p.(*ast.Document); ok {
			if rc, ok := d.Meta()[renderContextKey].(*RenderContext); ok {
				return rc
			}
			break
		}
	}
	return &RenderContext{}
}
