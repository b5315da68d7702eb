package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-mdreader/internal/yamlutil"
	"github.com/alnah/go-mdreader/metadata"
)

// ErrMalformedFrontMatter indicates a front matter block that never closes
// or whose content is not a YAML mapping.
var ErrMalformedFrontMatter = errors.New("malformed front matter")

// Default front matter delimiters.
const DefaultFrontMatterDelimiter = "---"

// DefaultCloseDelimiters close a block opened with DefaultFrontMatterDelimiter.
var DefaultCloseDelimiters = []string{"---", "..."}

// FrontMatterExtractor splits a leading YAML block from the body and
// normalizes each key through the metadata processors.
type FrontMatterExtractor struct {
	open     string
	closers  []string
	settings *metadata.Settings
	logger   zerolog.Logger
}

// NewFrontMatterExtractor returns an extractor for the given delimiters. Nil
// settings use metadata.DefaultSettings.
func NewFrontMatterExtractor(open string, closers []string, settings *metadata.Settings, logger zerolog.Logger) *FrontMatterExtractor {
	if open == "" {
		open = DefaultFrontMatterDelimiter
	}
	if len(closers) == 0 {
		closers = DefaultCloseDelimiters
	}
	if settings == nil {
		settings = metadata.DefaultSettings()
	}
	return &FrontMatterExtractor{
		open:     open,
		closers:  closers,
		settings: settings,
		logger:   logger,
	}
}

// Extract returns the body following the front matter block and the
// normalized metadata it declared. Text without a block is returned as is
// with empty metadata.
func (e *FrontMatterExtractor) Extract(text string) (string, *metadata.Metadata, error) {
	md := metadata.New()

	lines := strings.SplitAfter(text, "\n")
	if strings.TrimRight(lines[0], " \t\r\n") != e.open {
		return text, md, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if isDelimiterLine(lines[i], e.closers) {
			end = i
			break
		}
	}
	if end < 0 {
		return "", nil, fmt.Errorf("%w: block opened with %q is never closed", ErrMalformedFrontMatter, e.open)
	}

	block := strings.Join(lines[1:end], "")
	body := strings.Join(lines[end+1:], "")

	pairs, err := yamlutil.UnmarshalOrdered([]byte(block))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}

	for _, item := range pairs {
		key := strings.ToLower(strings.TrimSpace(fmt.Sprint(item.Key)))
		md.Set(key, e.ProcessMetadata(key, item.Value))
	}

	e.logger.Debug().Int("keys", md.Len()).Msg("front matter extracted")
	return body, md, nil
}

// ProcessMetadata routes value through the normalizer registered for key.
// Unknown keys and failed normalizations keep the raw value.
func (e *FrontMatterExtractor) ProcessMetadata(key string, value any) any {
	out, found, err := metadata.Process(key, value, e.settings)
	if err != nil {
		e.logger.Warn().Err(err).Str("key", key).Interface("raw", value).Msg("metadata normalization failed, keeping raw value")
		out = value
	}

	e.logger.Trace().
		Str("key", key).
		Interface("raw", value).
		Str("raw_type", fmt.Sprintf("%T", value)).
		Interface("value", out).
		Str("value_type", fmt.Sprintf("%T", out)).
		Bool("processed", found).
		Msg("process metadata")

	return out
}
