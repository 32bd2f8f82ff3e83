package attrs

import "strings"

// MinFenceLevel is the smallest colon run recognized as a directive fence.
const MinFenceLevel = 3

// Fence is a parsed directive opening line such as `::::tabs` or
// `:::card{title="A"}`.
type Fence struct {
	Name  string
	Attrs Attributes
	// Level is the colon count. A closer needs a level >= the opener's.
	Level int
	// Rest is the free text after the name and attribute block,
	// e.g. "alert" in `:::message alert`.
	Rest string
}

// ParseFence parses a directive opening line. Leading whitespace is allowed.
// It reports false when the line is not an opener (closers included).
func ParseFence(line string) (Fence, bool) {
	s := strings.TrimRight(strings.TrimLeft(line, " \t"), "\r\n")
	level := colonRun(s)
	if level < MinFenceLevel {
		return Fence{}, false
	}
	s = s[level:]

	n := 0
	for n < len(s) && (isNameStart(s[n]) || (n > 0 && isDirectiveNameChar(s[n]))) {
		n++
	}
	if n == 0 {
		return Fence{}, false
	}
	f := Fence{Name: s[:n], Level: level}
	s = s[n:]

	if strings.HasPrefix(s, "{") {
		end := MatchBrace(s, 0)
		if end < 0 {
			// Unterminated block: keep what parses, drop the rest.
			f.Attrs = Parse(s[1:])
			return f, true
		}
		f.Attrs = Parse(s[1:end])
		s = s[end+1:]
	}
	f.Rest = strings.TrimSpace(s)
	return f, true
}

// ParseCloser reports the level of a closing line made only of colons.
func ParseCloser(line string) (int, bool) {
	s := strings.TrimSpace(line)
	level := colonRun(s)
	if level < MinFenceLevel || level != len(s) {
		return 0, false
	}
	return level, true
}

// Opener renders a directive opening line at the given level.
func Opener(level int, name string, a Attributes) string {
	if level < MinFenceLevel {
		level = MinFenceLevel
	}
	return strings.Repeat(":", level) + name + a.Block()
}

func colonRun(s string) int {
	n := 0
	for n < len(s) && s[n] == ':' {
		n++
	}
	return n
}

func isDirectiveNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-'
}
