// Package metadata holds the ordered metadata record produced for each
// document and the normalizers applied to recognized keys.
//
// Keys are stored lowercase in first-insertion order. The tags key carries an
// explicit tri-state: unset, discarded (recognized but intentionally empty),
// or present with a concrete slice.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Reserved keys with pipeline-defined value shapes.
const (
	KeyDate     = "date"
	KeyModified = "modified"
	KeyTags     = "tags"
	KeyAuthors  = "authors"
	KeyTitle    = "title"
	KeyPath     = "path"
)

// DiscardValue marks a recognized key whose value is intentionally not yet
// populated. It is distinct from both absence and an empty slice.
type DiscardValue struct{}

// Discard is the sentinel value normalizers return for blank input.
var Discard = DiscardValue{}

// IsDiscard reports whether v is the discard sentinel.
func IsDiscard(v any) bool {
	_, ok := v.(DiscardValue)
	return ok
}

// TagState describes what the tags key currently holds.
type TagState int

const (
	TagsUnset TagState = iota
	TagsDiscarded
	TagsPresent
)

func (s TagState) String() string {
	switch s {
	case TagsUnset:
		return "unset"
	case TagsDiscarded:
		return "discarded"
	case TagsPresent:
		return "present"
	default:
		return fmt.Sprintf("TagState(%d)", int(s))
	}
}

// Metadata is an ordered mapping from lowercase key to normalized value.
// The zero value is ready to use. Not safe for concurrent mutation.
type Metadata struct {
	keys   []string
	values map[string]any
}

// New returns an empty Metadata.
func New() *Metadata {
	return &Metadata{values: make(map[string]any)}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Set stores value under the lowercased key. Overwriting keeps the key's
// original position.
func (m *Metadata) Set(key string, value any) {
	key = normalizeKey(key)
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	v, ok := m.values[normalizeKey(key)]
	return v, ok
}

// Has reports whether key is present.
func (m *Metadata) Has(key string) bool {
	_, ok := m.values[normalizeKey(key)]
	return ok
}

// Delete removes key if present.
func (m *Metadata) Delete(key string) {
	key = normalizeKey(key)
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (m *Metadata) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Metadata) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Range calls fn for each pair in order until fn returns false.
func (m *Metadata) Range(fn func(key string, value any) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// String returns the value under key when it is a string.
func (m *Metadata) String(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Time returns the value under key when it is a time.Time.
func (m *Metadata) Time(key string) (time.Time, bool) {
	v, ok := m.Get(key)
	if !ok {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

// Strings returns a copy of the value under key when it is a []string.
func (m *Metadata) Strings(key string) ([]string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	s, ok := v.([]string)
	if !ok {
		return nil, false
	}
	return append([]string(nil), s...), true
}

// Tags reports the tri-state of the tags key and, when present, a copy of
// its values. A value left raw by a failed normalization is reported as a
// single-element slice.
func (m *Metadata) Tags() (TagState, []string) {
	v, ok := m.Get(KeyTags)
	switch {
	case !ok:
		return TagsUnset, nil
	case IsDiscard(v):
		return TagsDiscarded, nil
	}

	switch tags := v.(type) {
	case []string:
		return TagsPresent, append([]string(nil), tags...)
	case nil:
		return TagsPresent, []string{}
	default:
		return TagsPresent, []string{fmt.Sprint(tags)}
	}
}

// AppendTags appends tags in order without deduplication. An unset or
// discarded tags key is first initialized to an empty slice.
func (m *Metadata) AppendTags(tags ...string) {
	if len(tags) == 0 {
		return
	}
	state, current := m.Tags()
	if state != TagsPresent {
		current = []string{}
	}
	m.Set(KeyTags, append(current, tags...))
}

// Finalize drops discarded values and coerces tags to a concrete slice so
// the record satisfies the output invariants.
func (m *Metadata) Finalize() {
	for _, k := range m.Keys() {
		if IsDiscard(m.values[k]) {
			m.Delete(k)
		}
	}
	if state, tags := m.Tags(); state == TagsPresent {
		m.Set(KeyTags, tags)
	}
}

// Clone returns a deep copy of the key order and a shallow copy of values,
// with slices duplicated.
func (m *Metadata) Clone() *Metadata {
	out := New()
	m.Range(func(k string, v any) bool {
		if s, ok := v.([]string); ok {
			v = append([]string(nil), s...)
		}
		out.Set(k, v)
		return true
	})
	return out
}

// exportValue converts values to their serialized form. Times become
// RFC 3339 strings.
func exportValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.RFC3339)
	case DiscardValue:
		return nil
	default:
		return val
	}
}

// MarshalYAML emits the record as an ordered mapping.
func (m *Metadata) MarshalYAML() (any, error) {
	out := make(yaml.MapSlice, 0, len(m.keys))
	m.Range(func(k string, v any) bool {
		out = append(out, yaml.MapItem{Key: k, Value: exportValue(v)})
		return true
	})
	return out, nil
}

// MarshalJSON emits the record as a JSON object in key order.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	var err error
	first := true
	m.Range(func(k string, v any) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		var kb, vb []byte
		if kb, err = json.Marshal(k); err != nil {
			return false
		}
		if vb, err = json.Marshal(exportJSONValue(exportValue(v))); err != nil {
			err = fmt.Errorf("metadata key %q: %w", k, err)
			return false
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// exportJSONValue turns nested ordered YAML maps into plain maps so
// encoding/json can handle them.
func exportJSONValue(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice:
		out := make(map[string]any, len(val))
		for _, item := range val {
			out[fmt.Sprint(item.Key)] = exportJSONValue(item.Value)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = exportJSONValue(item)
		}
		return out
	default:
		return val
	}
}
