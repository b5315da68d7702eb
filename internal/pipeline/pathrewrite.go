package pipeline

import (
	"net/url"
	"path"
	"strings"
)

// LinkOptions configures RewriteLinkHook.
type LinkOptions struct {
	Prefix          string // prepended to relative targets, e.g. "{filename}"
	SuffixFrom      string // relative targets ending with it ...
	SuffixTo        string // ... get it replaced with this
	ResolveRelative bool   // join relative targets with the source directory
	ExternalNewTab  bool   // add target/rel to external links
	SiteURL         string // links under this URL are internal
}

// ImageOptions configures RewriteImageHook.
type ImageOptions struct {
	Prefix          string
	ResolveRelative bool
	Lazy            bool // add loading="lazy"
}

// RewriteLinkHook rewrites relative link targets and marks external links.
// Link text is never touched.
type RewriteLinkHook struct {
	opts     LinkOptions
	siteHost string
}

// NewRewriteLinkHook returns a link hook for opts.
func NewRewriteLinkHook(opts LinkOptions) *RewriteLinkHook {
	h := &RewriteLinkHook{opts: opts}
	if u, err := url.Parse(opts.SiteURL); err == nil {
		h.siteHost = strings.ToLower(u.Host)
	}
	return h
}

// RenderLinkOpen renders the rewritten <a> opening tag.
func (h *RewriteLinkHook) RenderLinkOpen(rc *RenderContext, link Link) string {
	dest := link.Destination
	var href string

	// Autolinks are always absolute.
	if !link.Autolink && isRelativePath(dest) {
		dest = rewriteTarget(dest, rc.SourcePath, h.opts.ResolveRelative, func(p string) string {
			return replaceSuffix(p, h.opts.SuffixFrom, h.opts.SuffixTo)
		})
		href = escapeText(h.opts.Prefix) + escapeURL(rc, dest)
	} else {
		href = escapeURL(rc, dest)
	}

	var extra []attr
	if h.opts.ExternalNewTab && h.isExternal(dest) {
		extra = append(extra,
			attr{name: "target", value: "_blank"},
			attr{name: "rel", value: "noopener noreferrer"},
		)
	}

	return openLinkTag(href, link.Title, extra)
}

// isExternal reports whether dest points to another site.
func (h *RewriteLinkHook) isExternal(dest string) bool {
	lower := strings.ToLower(dest)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "//") {
		return false
	}
	if h.siteHost == "" {
		return true
	}
	u, err := url.Parse(dest)
	if err != nil {
		return true
	}
	return strings.ToLower(u.Host) != h.siteHost
}

// RewriteImageHook rewrites relative image sources. Alt text is kept as is.
type RewriteImageHook struct {
	opts ImageOptions
}

// NewRewriteImageHook returns an image hook for opts.
func NewRewriteImageHook(opts ImageOptions) *RewriteImageHook {
	return &RewriteImageHook{opts: opts}
}

// RenderImage renders the rewritten <img> element.
func (h *RewriteImageHook) RenderImage(rc *RenderContext, img Image) string {
	var src string
	if isRelativePath(img.Destination) {
		dest := rewriteTarget(img.Destination, rc.SourcePath, h.opts.ResolveRelative, nil)
		src = escapeText(h.opts.Prefix) + escapeURL(rc, dest)
	} else {
		src = escapeURL(rc, img.Destination)
	}

	var extra []attr
	if h.opts.Lazy {
		extra = append(extra, attr{name: "loading", value: "lazy"})
	}
	return imageTag(rc, src, img.Title, img.Alt, extra)
}

// rewriteTarget applies the path transform and resolution to the path part
// of a relative target. Query and fragment are kept. The prefix is added by
// the caller after escaping so placeholders like {filename} survive.
func rewriteTarget(target, sourcePath string, resolve bool, transform func(string) string) string {
	p, rest := splitPathSuffix(target)
	if p == "" {
		return target
	}

	if transform != nil {
		p = transform(p)
	}

	if resolve && sourcePath != "" {
		dir := path.Dir(sourcePath)
		joined := path.Join(dir, p)
		// Targets climbing above the source root are left unresolved.
		if isPathUnderRoot(joined) {
			p = joined
		}
	}

	return p + rest
}

// splitPathSuffix splits target before its first '?' or '#'.
func splitPathSuffix(target string) (string, string) {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		return target[:i], target[i:]
	}
	return target, ""
}

func replaceSuffix(p, from, to string) string {
	if from == "" || len(p) < len(from) {
		return p
	}
	if strings.EqualFold(p[len(p)-len(from):], from) {
		return p[:len(p)-len(from)] + to
	}
	return p
}

// isRelativePath returns true if the target should be rewritten.
func isRelativePath(target string) bool {
	if target == "" {
		return false
	}

	// Skip anchors and protocol-relative URLs
	if strings.HasPrefix(target, "#") || strings.HasPrefix(target, "//") {
		return false
	}

	// Skip absolute paths
	if strings.HasPrefix(target, "/") || strings.HasPrefix(target, "\\") {
		return false
	}

	// Skip anything with a scheme (http, mailto, data, tel, ...)
	if u, err := url.Parse(target); err != nil || u.Scheme != "" {
		return false
	}

	// Skip site placeholders such as {filename}/x.md
	if strings.HasPrefix(target, "{") {
		return false
	}

	return true
}

// isPathUnderRoot checks that a joined slash path does not climb above the
// filesystem root (prevents path traversal).
func isPathUnderRoot(p string) bool {
	clean := path.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}
