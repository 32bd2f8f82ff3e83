// Package normalize converts source markdown dialects into the canonical
// directive dialect (`:::name{attrs}` blocks plus GFM).
//
// Every pass is a pure text-to-text function that leaves code fences alone and
// is idempotent: running it on its own output changes nothing. Passes never
// fail; markup they cannot convert is left as is and surfaces later as an
// error node when compiled.
package normalize

import "strings"

// Dialect names a source markdown flavor.
type Dialect string

// Supported dialects.
const (
	Mintlify Dialect = "mintlify"
	Zenn     Dialect = "zenn"
	Plain    Dialect = "plain"
)

// Dialects lists the supported dialects in display order.
var Dialects = []Dialect{Mintlify, Zenn, Plain}

// ParseDialect maps a case-insensitive name to a Dialect.
func ParseDialect(name string) (Dialect, bool) {
	d := Dialect(strings.ToLower(strings.TrimSpace(name)))
	switch d {
	case Mintlify, Zenn, Plain:
		return d, true
	default:
		return "", false
	}
}

// Options configures the link-related passes.
type Options struct {
	// VersionPrefix is a path segment stripped from internal links and card
	// hrefs, e.g. "v2".
	VersionPrefix string
	// Namespace prefixes root-relative internal links, e.g. "laravel".
	Namespace string
}

// Pass is one named normalization step.
type Pass struct {
	Name  string
	Apply func(string) string
}

// Passes returns the ordered passes for a dialect. Unknown dialects get the
// plain passes.
func Passes(d Dialect, opts Options) []Pass {
	lineEndings := Pass{Name: "line-endings", Apply: NormalizeLineEndings}
	links := Pass{Name: "links", Apply: func(s string) string {
		return RewriteLinks(s, opts.VersionPrefix, opts.Namespace)
	}}
	blankLines := Pass{Name: "blank-lines", Apply: CompressBlankLines}

	switch d {
	case Mintlify:
		return []Pass{
			lineEndings,
			{Name: "callouts", Apply: ConvertCallouts},
			{Name: "code-meta", Apply: NormalizeCodeMeta},
			{Name: "steps", Apply: ConvertSteps},
			{Name: "tabs", Apply: ConvertTabs},
			{Name: "columns", Apply: func(s string) string {
				return ConvertColumns(s, opts.VersionPrefix)
			}},
			{Name: "cards", Apply: func(s string) string {
				return ConvertCards(s, opts.VersionPrefix)
			}},
			// Component passes can split a fence opener onto its own line.
			{Name: "code-meta-final", Apply: NormalizeCodeMeta},
			links,
			blankLines,
		}
	case Zenn:
		return []Pass{lineEndings, links, blankLines}
	default:
		return []Pass{lineEndings, blankLines}
	}
}

// Normalize runs every pass of the dialect over text, in order.
func Normalize(text string, d Dialect, opts Options) string {
	for _, p := range Passes(d, opts) {
		text = p.Apply(text)
	}
	return text
}
