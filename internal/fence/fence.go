// Package fence splits markdown into fenced code regions and prose so that
// text transforms never touch code examples.
//
// A fenced region starts at a line whose first non-blank characters are a run
// of three or more backticks or tildes and ends at the next line consisting of
// exactly the same run. Runs of a different length inside the region do not
// close it. An unterminated region extends to the end of the input.
package fence

import (
	"regexp"
	"strconv"
	"strings"
)

// Mask placeholders use Unicode Private Use Area characters, which never
// appear in real documents.
const (
	maskStart = "\uE000" // U+E000: Private Use Area
	maskEnd   = "\uE001" // U+E001: Private Use Area
)

var maskPattern = regexp.MustCompile(maskStart + `([0-9]+)` + maskEnd)

// Region is a contiguous run of lines, either fenced or prose.
// Start and End are byte offsets; regions returned by Split cover the input
// exactly, in order.
type Region struct {
	Start, End int
	Fenced     bool
	// Marker is the opening run (e.g. "```" or "~~~~"). Empty for prose.
	Marker string
	// Info is the opener's info string, trimmed. Empty for prose.
	Info string
}

// ParseOpener reports whether line opens a fenced code block and returns its
// marker run and info string.
func ParseOpener(line string) (marker, info string, ok bool) {
	s := strings.TrimRight(strings.TrimLeft(line, " \t"), "\r\n")
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return "", "", false
	}
	n := 0
	for n < len(s) && s[n] == s[0] {
		n++
	}
	if n < 3 {
		return "", "", false
	}
	info = strings.TrimSpace(s[n:])
	if s[0] == '`' && strings.Contains(info, "`") {
		return "", "", false
	}
	return s[:n], info, true
}

// IsCloser reports whether line closes a region opened with marker.
func IsCloser(line, marker string) bool {
	return strings.TrimSpace(line) == marker
}

// Split partitions text into alternating prose and fenced regions.
func Split(text string) []Region {
	var (
		regions []Region
		cur     Region
		inFence bool
		pos     int
	)

	flush := func(end int) {
		if end > cur.Start {
			cur.End = end
			regions = append(regions, cur)
		}
	}

	for pos < len(text) {
		end := strings.IndexByte(text[pos:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += pos + 1
		}
		line := text[pos:end]

		if inFence {
			if IsCloser(line, cur.Marker) {
				flush(end)
				cur = Region{Start: end}
				inFence = false
			}
		} else if marker, info, ok := ParseOpener(line); ok {
			flush(pos)
			cur = Region{Start: pos, Fenced: true, Marker: marker, Info: info}
			inFence = true
		}
		pos = end
	}
	flush(len(text))
	return regions
}

// TransformOutsideFences applies fn to every prose region and concatenates the
// results with the untouched fenced regions, preserving order and line endings.
func TransformOutsideFences(text string, fn func(string) string) string {
	regions := Split(text)
	if len(regions) == 1 && !regions[0].Fenced {
		return fn(text)
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range regions {
		seg := text[r.Start:r.End]
		if r.Fenced {
			b.WriteString(seg)
			continue
		}
		b.WriteString(fn(seg))
	}
	return b.String()
}

// TransformOpeners rewrites only the opening line of each fenced region.
// fn receives the opener line without its line ending and returns the
// replacement line.
func TransformOpeners(text string, fn func(line string, r Region) string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range Split(text) {
		seg := text[r.Start:r.End]
		if !r.Fenced {
			b.WriteString(seg)
			continue
		}
		lineEnd := strings.IndexByte(seg, '\n')
		if lineEnd < 0 {
			lineEnd = len(seg)
		}
		opener := seg[:lineEnd]
		cr := ""
		if strings.HasSuffix(opener, "\r") {
			opener = opener[:len(opener)-1]
			cr = "\r"
		}
		b.WriteString(fn(opener, r))
		b.WriteString(cr)
		b.WriteString(seg[lineEnd:])
	}
	return b.String()
}

// Masked is text whose fenced regions were replaced by opaque tokens.
type Masked struct {
	Text    string
	regions []string
}

// Mask replaces each fenced region with a single-line token so block-level
// patterns can span code examples without being able to rewrite them.
// The opener's indentation and the line ending after a region are kept
// outside the token.
func Mask(text string) Masked {
	regions := Split(text)
	m := Masked{}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range regions {
		seg := text[r.Start:r.End]
		if !r.Fenced {
			b.WriteString(seg)
			continue
		}
		trail := ""
		if strings.HasSuffix(seg, "\n") {
			seg, trail = seg[:len(seg)-1], "\n"
		}
		indent := seg[:len(seg)-len(strings.TrimLeft(seg, " \t"))]
		b.WriteString(indent + maskStart + strconv.Itoa(len(m.regions)) + maskEnd + trail)
		m.regions = append(m.regions, seg[len(indent):])
	}
	m.Text = b.String()
	return m
}

// Restore expands tokens in s back to their fenced regions.
func (m Masked) Restore(s string) string {
	if len(m.regions) == 0 {
		return s
	}
	return maskPattern.ReplaceAllStringFunc(s, func(tok string) string {
		idx, err := strconv.Atoi(tok[len(maskStart) : len(tok)-len(maskEnd)])
		if err != nil || idx >= len(m.regions) {
			return tok
		}
		return m.regions[idx]
	})
}

// Apply masks text, runs fn on the masked text and restores the result.
func Apply(text string, fn func(masked string, m Masked) string) string {
	m := Mask(text)
	return m.Restore(fn(m.Text, m))
}
