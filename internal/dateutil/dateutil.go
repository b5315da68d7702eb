// Package dateutil converts user-friendly date formats to Go layouts and
// parses metadata dates against an ordered list of them.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for date handling.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrNoMatchingFormat  = errors.New("date matches no accepted format")
)

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormats are tried in order when configuration supplies none.
var DefaultDateFormats = []string{"datetime-seconds", "datetime", "iso", "rfc3339"}

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
	{"Z", "Z07:00"},
}

// DatePresets provides named shortcuts resolving directly to Go layouts.
var DatePresets = map[string]string{
	"iso":              "2006-01-02",
	"datetime":         "2006-01-02 15:04",
	"datetime-seconds": "2006-01-02 15:04:05",
	"rfc3339":          time.RFC3339,
	"european":         "02/01/2006",
	"us":               "01/02/2006",
	"long":             "January 2, 2006",
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss, Z
// Use brackets to escape literal text: [T] preserves "T" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has unclosed brackets.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// Layouts resolves presets (case-insensitive) and token formats to Go layouts,
// keeping the input order. An empty input resolves DefaultDateFormats.
func Layouts(formats []string) ([]string, error) {
	if len(formats) == 0 {
		formats = DefaultDateFormats
	}

	layouts := make([]string, 0, len(formats))
	for _, f := range formats {
		if preset, ok := DatePresets[strings.ToLower(f)]; ok {
			layouts = append(layouts, preset)
			continue
		}
		layout, err := ParseDateFormat(f)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, layout)
	}
	return layouts, nil
}

// Parse tries each layout in order and returns the first successful parse.
// Values without zone information are interpreted in loc (UTC when nil).
func Parse(value string, layouts []string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrNoMatchingFormat, value)
}
