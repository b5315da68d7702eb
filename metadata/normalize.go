package metadata

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"

	"github.com/alnah/go-mdreader/internal/dateutil"
)

// ErrNormalization indicates a recognized key's value could not be
// normalized. It is recoverable: callers keep the raw value.
var ErrNormalization = errors.New("metadata normalization failed")

// Default delimiters for list-valued keys.
const (
	DefaultTagDelimiters    = ","
	DefaultAuthorDelimiters = ",;"
)

// Settings is the read-only configuration consumed by normalizers.
type Settings struct {
	DateLayouts       []string        // Go layouts, tried in order
	Location          *time.Location  // zone for values without offset (nil = UTC)
	TagDelimiters     string          // any rune splits tags
	AuthorDelimiters  string          // any rune splits authors
	LowercaseTags     bool            // Unicode case folding for tags
	DuplicatesAllowed map[string]bool // per key; false drops later duplicates
}

// DefaultSettings returns settings using the default date formats and
// delimiters with duplicates disallowed.
func DefaultSettings() *Settings {
	layouts, _ := dateutil.Layouts(nil)
	return &Settings{
		DateLayouts:      layouts,
		Location:         time.UTC,
		TagDelimiters:    DefaultTagDelimiters,
		AuthorDelimiters: DefaultAuthorDelimiters,
	}
}

// Normalizer coerces a raw front-matter value for one key.
type Normalizer func(raw any, s *Settings) (any, error)

// Processors maps lowercase key names to their normalizer. It is built once
// and never mutated.
var Processors = map[string]Normalizer{
	KeyDate:     CleanDates,
	KeyModified: CleanDates,
	KeyTags:     CleanTags,
	KeyAuthors:  CleanAuthors,
	"author":    cleanScalar,
	"category":  cleanScalar,
	"slug":      cleanScalar,
	"status":    cleanStatus,
}

// Process routes value through the normalizer registered for key. Unknown
// keys return the raw value unchanged. The boolean reports whether a
// normalizer was found.
func Process(key string, value any, s *Settings) (any, bool, error) {
	if s == nil {
		s = DefaultSettings()
	}
	fn, ok := Processors[normalizeKey(key)]
	if !ok {
		return value, false, nil
	}
	out, err := fn(value, s)
	return out, true, err
}

// CleanDates parses raw with the configured layouts; the first success wins.
func CleanDates(raw any, s *Settings) (any, error) {
	var value string
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		value = v
	case nil:
		return nil, fmt.Errorf("%w: empty date", ErrNormalization)
	default:
		value = fmt.Sprint(v)
	}

	t, err := dateutil.Parse(value, s.DateLayouts, s.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNormalization, err)
	}
	return t, nil
}

// CleanTags splits raw into trimmed, non-empty tag names. Blank input yields
// Discard.
func CleanTags(raw any, s *Settings) (any, error) {
	names, err := splitList(raw, s.TagDelimiters)
	if err != nil {
		return nil, err
	}
	if s.LowercaseTags {
		fold := cases.Fold()
		for i, n := range names {
			names[i] = fold.String(n)
		}
	}
	if len(names) == 0 {
		return Discard, nil
	}
	return dedupe(names, s.DuplicatesAllowed[KeyTags]), nil
}

// CleanAuthors splits raw like CleanTags, without case folding.
func CleanAuthors(raw any, s *Settings) (any, error) {
	names, err := splitList(raw, s.AuthorDelimiters)
	if err != nil {
		return nil, err
	}
	return dedupe(names, s.DuplicatesAllowed[KeyAuthors]), nil
}

func cleanScalar(raw any, _ *Settings) (any, error) {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case nil:
		return "", nil
	default:
		return strings.TrimSpace(fmt.Sprint(v)), nil
	}
}

func cleanStatus(raw any, s *Settings) (any, error) {
	v, err := cleanScalar(raw, s)
	if err != nil {
		return nil, err
	}
	return strings.ToLower(v.(string)), nil
}

// splitList accepts a delimited string or a sequence of scalars.
func splitList(raw any, delims string) ([]string, error) {
	var parts []string
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		parts = strings.FieldsFunc(v, func(r rune) bool {
			return strings.ContainsRune(delims, r)
		})
	case []string:
		parts = v
	case []any:
		parts = make([]string, 0, len(v))
		for _, item := range v {
			switch item.(type) {
			case []any, map[string]any, yaml.MapSlice:
				return nil, fmt.Errorf("%w: nested value %v in list", ErrNormalization, item)
			case nil:
				continue
			}
			parts = append(parts, fmt.Sprint(item))
		}
	case map[string]any, yaml.MapSlice:
		return nil, fmt.Errorf("%w: unsupported list value of type %T", ErrNormalization, raw)
	default:
		parts = []string{fmt.Sprint(v)}
	}

	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names, nil
}

func dedupe(names []string, allowDuplicates bool) []string {
	if allowDuplicates {
		return names
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
