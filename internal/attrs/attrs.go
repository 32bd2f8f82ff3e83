// Package attrs parses directive attribute blocks ({key=value ...}) and
// ":::name" fence lines.
//
// Parsing is total: malformed or truncated input never fails, the parser keeps
// whatever attributes matched before the break and ignores the remainder.
package attrs

import (
	"regexp"
	"strconv"
	"strings"
)

// numericPattern matches the bare tokens coerced to numbers.
var numericPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// Kind identifies the type carried by a Value.
type Kind int

const (
	String Kind = iota
	Number
	Bool
)

// Value is a typed attribute value: string, number or boolean.
type Value struct {
	kind Kind
	str  string
	num  float64
	flag bool
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// NumberValue returns a number Value.
func NumberValue(n float64) Value { return Value{kind: Number, num: n} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: Bool, flag: b} }

// Kind returns the value type.
func (v Value) Kind() Kind { return v.kind }

// String returns the textual form of the value, unquoted.
func (v Value) String() string {
	switch v.kind {
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Bool:
		return strconv.FormatBool(v.flag)
	default:
		return v.str
	}
}

// Number returns the numeric value. Strings that look numeric are accepted too.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case Number:
		return v.num, true
	case String:
		s := strings.TrimSpace(v.str)
		if !numericPattern.MatchString(s) {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Quote returns the serialized form used inside an attribute block:
// strings are double-quoted, numbers and booleans are bare.
func (v Value) Quote() string {
	if v.kind != String {
		return v.String()
	}
	return QuoteString(v.str)
}

// QuoteString wraps s in double quotes, escaping backslashes and quotes.
func QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}

// Truthy reports the boolean reading of v: "false" and "0" are false,
// numbers are true when non-zero, everything else is true.
func Truthy(v Value) bool {
	switch v.kind {
	case Bool:
		return v.flag
	case Number:
		return v.num != 0
	default:
		s := strings.TrimSpace(v.str)
		return s != "false" && s != "0"
	}
}

// Attr is one key/value pair.
type Attr struct {
	Key   string
	Value Value
}

// Attributes is an ordered set of uniquely named values.
// The zero value is empty and ready to use.
type Attributes struct {
	items []Attr
}

// Set stores a value. An existing key keeps its position.
func (a *Attributes) Set(key string, v Value) {
	for i := range a.items {
		if a.items[i].Key == key {
			a.items[i].Value = v
			return
		}
	}
	a.items = append(a.items, Attr{Key: key, Value: v})
}

// Delete removes a key if present.
func (a *Attributes) Delete(key string) {
	for i := range a.items {
		if a.items[i].Key == key {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return
		}
	}
}

// Get returns the value stored under key.
func (a Attributes) Get(key string) (Value, bool) {
	for _, it := range a.items {
		if it.Key == key {
			return it.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Text returns the textual form of key, or "" when absent.
func (a Attributes) Text(key string) string {
	v, ok := a.Get(key)
	if !ok {
		return ""
	}
	return v.String()
}

// Flag returns true when key is present and truthy.
func (a Attributes) Flag(key string) bool {
	v, ok := a.Get(key)
	return ok && Truthy(v)
}

// Len returns the number of attributes.
func (a Attributes) Len() int { return len(a.items) }

// All returns a copy of the attributes in order.
func (a Attributes) All() []Attr {
	out := make([]Attr, len(a.items))
	copy(out, a.items)
	return out
}

// String serializes the attributes as `key=value` pairs separated by spaces,
// without the surrounding braces.
func (a Attributes) String() string {
	parts := make([]string, 0, len(a.items))
	for _, it := range a.items {
		parts = append(parts, it.Key+"="+it.Value.Quote())
	}
	return strings.Join(parts, " ")
}

// Block returns the serialized attributes wrapped in braces, or "" when empty.
func (a Attributes) Block() string {
	if len(a.items) == 0 {
		return ""
	}
	return "{" + a.String() + "}"
}

// Parse tokenizes the text between the braces of an attribute block.
//
// Grammar per attribute: name, optionally followed by '=' and one of {expr},
// "string", 'string' or a bare token. A name without '=' is boolean true.
// Bare tokens and unwrapped expressions "true", "false" and numbers are
// coerced; quoted strings always stay strings.
func Parse(raw string) Attributes {
	var out Attributes
	s := &scanner{src: raw}
	for {
		s.skipSpace()
		if s.eof() {
			return out
		}
		name := s.name()
		if name == "" {
			return out
		}
		if s.eof() || s.peek() != '=' {
			out.Set(name, BoolValue(true))
			continue
		}
		s.pos++
		v, ok := s.value()
		if !ok {
			return out
		}
		out.Set(name, v)
	}
}

// coerce maps a bare token to a boolean, number or string.
func coerce(token string) Value {
	switch token {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if numericPattern.MatchString(token) {
		if n, err := strconv.ParseFloat(token, 64); err == nil {
			return NumberValue(n)
		}
	}
	return StringValue(token)
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool  { return s.pos >= len(s.src) }
func (s *scanner) peek() byte { return s.src[s.pos] }

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.peek()) {
		s.pos++
	}
}

func (s *scanner) name() string {
	start := s.pos
	for !s.eof() {
		c := s.peek()
		if s.pos == start && !isNameStart(c) {
			break
		}
		if s.pos > start && !isNameChar(c) {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) value() (Value, bool) {
	if s.eof() {
		return Value{}, false
	}
	switch c := s.peek(); c {
	case '{':
		end := MatchBrace(s.src, s.pos)
		if end < 0 {
			return Value{}, false
		}
		inner := strings.TrimSpace(s.src[s.pos+1 : end])
		s.pos = end + 1
		if len(inner) >= 2 && (inner[0] == '"' || inner[0] == '\'') {
			if str, n, ok := readQuoted(inner, 0); ok && n == len(inner) {
				return StringValue(str), true
			}
		}
		return coerce(inner), true
	case '"', '\'':
		str, n, ok := readQuoted(s.src, s.pos)
		if !ok {
			return Value{}, false
		}
		s.pos = n
		return StringValue(str), true
	default:
		start := s.pos
		for !s.eof() && !isSpace(s.peek()) {
			s.pos++
		}
		if s.pos == start {
			return Value{}, false
		}
		return coerce(s.src[start:s.pos]), true
	}
}

// readQuoted reads a quoted string starting at src[start] and returns the
// unescaped content and the index just past the closing quote.
func readQuoted(src string, start int) (string, int, bool) {
	quote := src[start]
	var b strings.Builder
	for i := start + 1; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\\' && i+1 < len(src):
			i++
			b.WriteByte(src[i])
		case c == quote:
			return b.String(), i + 1, true
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, false
}

// MatchBrace returns the index of the '}' matching the '{' at src[open],
// skipping quoted strings and nested braces. It returns -1 when unterminated.
func MatchBrace(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch c := src[i]; c {
		case '"', '\'':
			_, next, ok := readQuoted(src, i)
			if !ok {
				return -1
			}
			i = next - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == ':' || c == '.'
}
