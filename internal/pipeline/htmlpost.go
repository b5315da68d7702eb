package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"

	"github.com/alnah/go-mdreader/metadata"
)

// MatchMode selects how a heading is compared with the title.
type MatchMode string

const (
	// MatchExact compares trimmed text, case-sensitive.
	MatchExact MatchMode = "exact"
	// MatchFold collapses whitespace and compares Unicode case-folded text.
	MatchFold MatchMode = "fold"
)

// ParseMatchMode maps a config value to a MatchMode. Unknown values and the
// empty string yield MatchExact.
func ParseMatchMode(s string) MatchMode {
	if MatchMode(strings.ToLower(strings.TrimSpace(s))) == MatchFold {
		return MatchFold
	}
	return MatchExact
}

// H1AsTitle promotes the first structural element to the title when it is a
// top-level <h1> and md has no title. The heading is removed from the HTML.
// Otherwise htmlContent is returned unchanged.
func H1AsTitle(htmlContent string, md *metadata.Metadata) string {
	if titleOf(md) != "" {
		return htmlContent
	}

	sc := newTopLevelScanner(htmlContent)
	el, ok := sc.next()
	if !ok || el.tag != atom.H1 || el.text == "" {
		return htmlContent
	}

	md.Set(metadata.KeyTitle, el.text)
	return removeSpan(htmlContent, el)
}

// RemoveDuplicateH1 removes the first top-level <h1> while its text matches
// the title. Without a title htmlContent is returned unchanged.
func RemoveDuplicateH1(htmlContent string, md *metadata.Metadata, mode MatchMode) string {
	title := titleOf(md)
	if title == "" {
		return htmlContent
	}

	for {
		el, ok := firstTopLevelH1(htmlContent)
		if !ok || !headingMatches(el.text, title, mode) {
			return htmlContent
		}
		htmlContent = removeSpan(htmlContent, el)
	}
}

// titleOf returns the trimmed title, or "" when absent or blank.
func titleOf(md *metadata.Metadata) string {
	v, ok := md.Get(metadata.KeyTitle)
	if !ok || v == nil || metadata.IsDiscard(v) {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func headingMatches(heading, title string, mode MatchMode) bool {
	if mode == MatchFold {
		fold := cases.Fold()
		return fold.String(collapseSpace(heading)) == fold.String(collapseSpace(title))
	}
	return strings.TrimSpace(heading) == strings.TrimSpace(title)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstTopLevelH1(s string) (element, bool) {
	sc := newTopLevelScanner(s)
	for {
		el, ok := sc.next()
		if !ok {
			return element{}, false
		}
		if el.tag == atom.H1 {
			return el, true
		}
	}
}

// removeSpan cuts el from s along with one trailing newline.
func removeSpan(s string, el element) string {
	end := el.end
	if end < len(s) && s[end] == '\n' {
		end++
	}
	return s[:el.start] + s[end:]
}

// element is one top-level node of an HTML fragment, located by byte offset.
type element struct {
	start, end int
	tag        atom.Atom // 0 for top-level text
	text       string    // trimmed text content, collected for <h1> only
}

// topLevelScanner walks the top-level nodes of a fragment without building
// a tree, so offsets map back to the original bytes.
type topLevelScanner struct {
	z      *html.Tokenizer
	offset int
}

func newTopLevelScanner(s string) *topLevelScanner {
	return &topLevelScanner{z: html.NewTokenizer(strings.NewReader(s))}
}

// next returns the next top-level element. Whitespace text, comments and
// doctypes are skipped. An element left open at end of input is not
// reported.
func (sc *topLevelScanner) next() (element, bool) {
	var (
		el    element
		depth int
		text  strings.Builder
	)

	for {
		tt := sc.z.Next()
		start := sc.offset
		sc.offset += len(sc.z.Raw())

		switch tt {
		case html.ErrorToken:
			return element{}, false

		case html.TextToken:
			if depth == 0 {
				if strings.TrimSpace(string(sc.z.Raw())) == "" {
					continue
				}
				return element{start: start, end: sc.offset}, true
			}
			if el.tag == atom.H1 {
				text.Write(sc.z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := sc.z.TagName()
			a := atom.Lookup(name)
			void := tt == html.SelfClosingTagToken || isVoidElement(a)
			if depth == 0 {
				el = element{start: start, tag: a}
				if void {
					el.end = sc.offset
					return el, true
				}
			}
			if !void {
				depth++
			}

		case html.EndTagToken:
			if depth == 0 {
				continue // stray end tag
			}
			depth--
			if depth == 0 {
				el.end = sc.offset
				el.text = strings.TrimSpace(text.String())
				return el, true
			}

		case html.CommentToken, html.DoctypeToken:
			// skipped
		}
	}
}

func isVoidElement(a atom.Atom) bool {
	switch a {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Param, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}
