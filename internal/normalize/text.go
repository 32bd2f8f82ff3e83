package normalize

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdcanon/internal/fence"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// CompressBlankLines limits consecutive blank lines to one outside code fences.
func CompressBlankLines(content string) string {
	if !strings.Contains(content, "\n\n\n") {
		return content
	}
	var b strings.Builder
	b.Grow(len(content))
	for _, r := range fence.Split(content) {
		seg := content[r.Start:r.End]
		switch {
		case r.Fenced:
			b.WriteString(seg)
		case r.Start > 0:
			// Count the line ending that closed the previous fence.
			b.WriteString(multipleBlankLines.ReplaceAllString("\n"+seg, "\n\n")[1:])
		default:
			b.WriteString(multipleBlankLines.ReplaceAllString(seg, "\n\n"))
		}
	}
	return b.String()
}

// replaceBlocks replaces every match of re and keeps the replacement on lines
// of its own: indentation before a match that starts a line is dropped, and a
// newline is inserted where surrounding text shares the line.
// repl receives the submatches and returns the replacement and whether to
// replace at all; declined matches are copied through unchanged.
func replaceBlocks(text string, re *regexp.Regexp, repl func(sub []string) (string, bool)) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, loc := range matches {
		start, end := loc[0], loc[1]
		sub := make([]string, len(loc)/2)
		for i := range sub {
			if loc[2*i] >= 0 {
				sub[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}
		out, ok := repl(sub)
		if !ok {
			continue
		}

		lineStart := strings.LastIndexByte(text[:start], '\n') + 1
		from := max(lineStart, prev)
		if strings.TrimSpace(text[from:start]) == "" {
			b.WriteString(text[prev:from])
		} else {
			b.WriteString(text[prev:start])
			b.WriteByte('\n')
		}
		b.WriteString(out)

		lineEnd := strings.IndexByte(text[end:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += end
		}
		if strings.TrimSpace(text[end:lineEnd]) == "" {
			prev = lineEnd
		} else {
			b.WriteByte('\n')
			prev = end
			for prev < lineEnd && (text[prev] == ' ' || text[prev] == '\t') {
				prev++
			}
		}
	}
	b.WriteString(text[prev:])
	return b.String()
}

// dedent strips up to n leading spaces from every line.
func dedent(text string, n int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		k := 0
		for k < n && k < len(line) && line[k] == ' ' {
			k++
		}
		lines[i] = line[k:]
	}
	return strings.Join(lines, "\n")
}

// trimBlankLines removes leading and trailing lines that are blank, keeping
// the indentation of the first non-blank line.
func trimBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	first, last := 0, len(lines)-1
	for first <= last && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	for last >= first && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if first > last {
		return ""
	}
	return strings.Join(lines[first:last+1], "\n")
}
