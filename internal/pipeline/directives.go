package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidMarker indicates a directive marker that is empty or contains
// whitespace.
var ErrInvalidMarker = errors.New("invalid directive marker")

// DefaultMarker introduces an inline tag directive.
const DefaultMarker = "#"

// tagBody is the part of a directive token after the marker.
const tagBody = `[\p{L}\p{N}_][\p{L}\p{N}_/-]*`

var (
	// Opening code fence: up to 3 spaces then ``` or ~~~ (3 or more).
	fenceOpenPattern = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")

	// Indented code line: 4 spaces or a tab.
	indentedCodePattern = regexp.MustCompile(`^( {4}|\t)`)
)

// DirectivePreprocessor removes lines made only of inline tag directives
// (e.g. "#go #markdown") and returns the tags they carried.
type DirectivePreprocessor struct {
	marker     string
	token      *regexp.Regexp
	line       *regexp.Regexp
	frontOpen  string
	frontClose []string
}

// NewDirectivePreprocessor compiles the directive grammar for marker. The
// front matter delimiters identify a leading block the preprocessor must not
// touch.
func NewDirectivePreprocessor(marker, frontOpen string, frontClose []string) (*DirectivePreprocessor, error) {
	if marker == "" || strings.ContainsAny(marker, " \t\r\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMarker, marker)
	}

	tok := regexp.QuoteMeta(marker) + tagBody
	return &DirectivePreprocessor{
		marker:     marker,
		token:      regexp.MustCompile(tok),
		line:       regexp.MustCompile(`^` + tok + `(?:[ \t]+` + tok + `)*$`),
		frontOpen:  frontOpen,
		frontClose: frontClose,
	}, nil
}

// Process returns text without directive-only lines, and the directive
// values in line order then token order. Removed lines take their line
// ending with them; every other byte is kept as is.
func (p *DirectivePreprocessor) Process(text string) (string, []string) {
	lines := strings.SplitAfter(text, "\n")

	var (
		out  strings.Builder
		tags []string
	)
	out.Grow(len(text))

	start := p.frontMatterEnd(lines)
	for _, l := range lines[:start] {
		out.WriteString(l)
	}

	fence := "" // active fence run, empty outside fenced code
	prevBlank := true
	inIndentCode := false

	for _, l := range lines[start:] {
		content := strings.TrimRight(l, "\r\n")
		blank := strings.TrimSpace(content) == ""

		switch {
		case fence != "":
			if isFenceClose(content, fence) {
				fence = ""
			}
		case fenceOpenPattern.MatchString(content):
			fence = fenceOpenPattern.FindStringSubmatch(content)[1]
			inIndentCode = false
		case !blank && indentedCodePattern.MatchString(content) && (prevBlank || inIndentCode):
			inIndentCode = true
		default:
			if !blank {
				inIndentCode = false
			}
			if values, ok := p.directives(content); ok {
				tags = append(tags, values...)
				prevBlank = blank
				continue
			}
		}

		prevBlank = blank
		out.WriteString(l)
	}

	return out.String(), tags
}

// directives reports whether content holds only directive tokens and
// returns their values without the marker.
func (p *DirectivePreprocessor) directives(content string) ([]string, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || !p.line.MatchString(trimmed) {
		return nil, false
	}

	tokens := p.token.FindAllString(trimmed, -1)
	values := make([]string, len(tokens))
	for i, t := range tokens {
		values[i] = strings.TrimPrefix(t, p.marker)
	}
	return values, true
}

// frontMatterEnd returns the number of leading lines forming a front matter
// block, or 0 when the text does not open one. An unclosed block covers the
// whole text; the extractor reports it.
func (p *DirectivePreprocessor) frontMatterEnd(lines []string) int {
	if p.frontOpen == "" || len(lines) == 0 {
		return 0
	}
	if strings.TrimRight(lines[0], " \t\r\n") != p.frontOpen {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		if isDelimiterLine(lines[i], p.frontClose) {
			return i + 1
		}
	}
	return len(lines)
}

func isDelimiterLine(line string, delimiters []string) bool {
	trimmed := strings.TrimRight(line, " \t\r\n")
	for _, d := range delimiters {
		if trimmed == d {
			return true
		}
	}
	return false
}

// isFenceClose reports whether content closes a fence opened with open: the
// same character, at least as many times, and nothing but whitespace after.
func isFenceClose(content, open string) bool {
	trimmed := strings.TrimLeft(content, " ")
	if len(content)-len(trimmed) > 3 {
		return false
	}
	run := len(trimmed) - len(strings.TrimLeft(trimmed, open[:1]))
	if run < len(open) {
		return false
	}
	return strings.TrimSpace(trimmed[run:]) == ""
}
