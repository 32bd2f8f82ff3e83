// Package slug builds GitHub-style heading anchors.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// fallback is used for headings whose text has no letters or digits.
const fallback = "heading"

// Make returns the anchor for heading text: lowercased, spaces turned into
// hyphens, punctuation other than '-' and '_' dropped.
func Make(text string) string {
	text = cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(text)))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// IDs hands out unique anchors within one document. Repeated anchors get a
// numeric suffix: "intro", "intro-1", "intro-2".
// It implements goldmark's parser.IDs. Not safe for concurrent use.
type IDs struct {
	seen map[string]bool
}

// NewIDs returns an empty anchor set.
func NewIDs() *IDs {
	return &IDs{seen: make(map[string]bool)}
}

// Unique returns the anchor for text, made unique in this document.
func (ids *IDs) Unique(text string) string {
	base := Make(text)
	if base == "" {
		base = fallback
	}
	id := base
	for i := 1; ids.seen[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	ids.seen[id] = true
	return id
}

// Generate implements parser.IDs.
func (ids *IDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(ids.Unique(string(value)))
}

// Put implements parser.IDs for explicitly set anchors.
func (ids *IDs) Put(value []byte) {
	ids.seen[string(value)] = true
}
