// Package frontmatter reads the leading `---` key/value header of a source
// document.
//
// This is deliberately not YAML: each line is a single `key: value` pair.
// Multi-line values, lists and nested maps are not supported; lines that do
// not look like a pair are skipped.
package frontmatter

import (
	"strings"
)

const delimiter = "---"

// Document statuses accepted in the "status" key.
const (
	StatusDraft     = "draft"
	StatusPrivate   = "private"
	StatusPublished = "published"
)

// Field is one key/value pair in source order.
type Field struct {
	Key   string
	Value string
}

// Document is a source text split into its header fields and body.
type Document struct {
	Fields []Field
	Body   string
	// HasHeader is false when the text has no complete `---` block.
	HasHeader bool
}

// Get returns the value for key and whether it was present.
func (d Document) Get(key string) (string, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Title returns the "title" field.
func (d Document) Title() string {
	v, _ := d.Get("title")
	return v
}

// Slug returns the "slug" field.
func (d Document) Slug() string {
	v, _ := d.Get("slug")
	return v
}

// Type returns the "type" field.
func (d Document) Type() string {
	v, _ := d.Get("type")
	return v
}

// Status returns the "status" field when it is one of draft, private or
// published, otherwise fallback.
func (d Document) Status(fallback string) string {
	v, _ := d.Get("status")
	switch v = strings.ToLower(v); v {
	case StatusDraft, StatusPrivate, StatusPublished:
		return v
	default:
		return fallback
	}
}

// Parse splits text into header fields and body. Text without a header, or
// with an unterminated one, is returned entirely as the body.
func Parse(text string) Document {
	rest, ok := cutDelimiterLine(text)
	if !ok {
		return Document{Body: text}
	}

	var fields []Field
	offset := 0
	for _, raw := range strings.SplitAfter(rest, "\n") {
		offset += len(raw)
		line := strings.TrimRight(raw, "\r\n")
		if strings.TrimRight(line, " \t") == delimiter {
			return Document{Fields: fields, Body: rest[offset:], HasHeader: true}
		}
		if f, ok := parseLine(line); ok {
			fields = setField(fields, f)
		}
	}
	return Document{Body: text}
}

// cutDelimiterLine strips an opening `---` line and returns the remainder.
func cutDelimiterLine(text string) (string, bool) {
	line, rest, found := strings.Cut(text, "\n")
	if !found || strings.TrimRight(line, " \t\r") != delimiter {
		return "", false
	}
	return rest, true
}

func parseLine(line string) (Field, bool) {
	line = strings.TrimRight(line, "\r")
	key, value, found := strings.Cut(line, ":")
	if !found {
		return Field{}, false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") || strings.HasPrefix(key, "#") {
		return Field{}, false
	}
	return Field{Key: key, Value: unquote(strings.TrimSpace(value))}, true
}

// unquote strips one pair of matching surrounding quotes.
func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// setField appends f, or replaces an earlier field with the same key.
func setField(fields []Field, f Field) []Field {
	for i := range fields {
		if fields[i].Key == f.Key {
			fields[i].Value = f.Value
			return fields
		}
	}
	return append(fields, f)
}
