package pipeline

import (
	"strings"

	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// RenderContext is the per-document input shared by all hooks.
type RenderContext struct {
	SourcePath string // slash-separated source identifier
	XHTML      bool   // self-closing void elements
	Unsafe     bool   // keep dangerous URLs
}

// Link is an inline link or autolink about to be opened.
type Link struct {
	Destination string
	Title       string
	Autolink    bool
}

// Image is an inline image. Alt is the plain text of the image description.
type Image struct {
	Destination string
	Title       string
	Alt         string
}

// Fence is a fenced code block.
type Fence struct {
	Language string // first word of the info string, may be empty
	Info     string // full info string
	Code     string
}

// LinkHook renders the opening tag of a link. The link text and the closing
// tag are rendered by the engine.
type LinkHook interface {
	RenderLinkOpen(rc *RenderContext, link Link) string
}

// ImageHook renders an image element.
type ImageHook interface {
	RenderImage(rc *RenderContext, img Image) string
}

// FenceHook renders a fenced code block. It must not fail; implementations
// fall back to plain output.
type FenceHook interface {
	RenderFence(rc *RenderContext, fence Fence) string
}

// Hooks groups the render overrides. Nil fields use the plain renderers.
type Hooks struct {
	Link  LinkHook
	Image ImageHook
	Fence FenceHook
}

func (h Hooks) withDefaults() Hooks {
	if h.Link == nil {
		h.Link = PlainLinkHook{}
	}
	if h.Image == nil {
		h.Image = PlainImageHook{}
	}
	if h.Fence == nil {
		h.Fence = PlainFenceHook{}
	}
	return h
}

// PlainLinkHook renders links like the stock CommonMark renderer.
type PlainLinkHook struct{}

// RenderLinkOpen renders <a href="..." title="...">.
func (PlainLinkHook) RenderLinkOpen(rc *RenderContext, link Link) string {
	return openLinkTag(escapeURL(rc, link.Destination), link.Title, nil)
}

// PlainImageHook renders images like the stock CommonMark renderer.
type PlainImageHook struct{}

// RenderImage renders <img src="..." alt="...">.
func (PlainImageHook) RenderImage(rc *RenderContext, img Image) string {
	return imageTag(rc, escapeURL(rc, img.Destination), img.Title, img.Alt, nil)
}

// PlainFenceHook renders code without highlighting.
type PlainFenceHook struct{}

// RenderFence renders <pre><code class="language-x">.
func (PlainFenceHook) RenderFence(_ *RenderContext, fence Fence) string {
	return plainFence(fence)
}

// attr is one extra attribute appended to a rendered tag.
type attr struct {
	name, value string
}

// escapeURL percent-encodes and HTML-escapes a destination, dropping it when
// it is dangerous and unsafe output is off.
func escapeURL(rc *RenderContext, dest string) string {
	b := []byte(dest)
	if !rc.Unsafe && html.IsDangerousURL(b) {
		return ""
	}
	return string(util.EscapeHTML(util.URLEscape(b, true)))
}

func escapeText(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

// openLinkTag renders <a> with an already escaped href.
func openLinkTag(href, title string, extra []attr) string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(href)
	b.WriteByte('"')
	if title != "" {
		b.WriteString(` title="`)
		b.WriteString(escapeText(title))
		b.WriteByte('"')
	}
	writeAttrs(&b, extra)
	b.WriteByte('>')
	return b.String()
}

// imageTag renders <img> with an already escaped src.
func imageTag(rc *RenderContext, src, title, alt string, extra []attr) string {
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(src)
	b.WriteString(`" alt="`)
	b.WriteString(escapeText(alt))
	b.WriteByte('"')
	if title != "" {
		b.WriteString(` title="`)
		b.WriteString(escapeText(title))
		b.WriteByte('"')
	}
	writeAttrs(&b, extra)
	if rc.XHTML {
		b.WriteString(" />")
	} else {
		b.WriteByte('>')
	}
	return b.String()
}

func writeAttrs(b *strings.Builder, attrs []attr) {
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(escapeText(a.value))
		b.WriteByte('"')
	}
}

func plainFence(fence Fence) string {
	var b strings.Builder
	b.WriteString("<pre><code")
	if fence.Language != "" {
		b.WriteString(` class="language-`)
		b.WriteString(escapeText(fence.Language))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(escapeText(fence.Code))
	b.WriteString("</code></pre>\n")
	return b.String()
}
