package normalize

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdcanon/internal/fence"
)

// themeAnnotation matches `theme={...}` in a fence info string.
var themeAnnotation = regexp.MustCompile(`\s*theme=\{[^}]*\}`)

// NormalizeCodeMeta canonicalizes fence opener lines: `theme={...}`
// annotations are removed and "```lang filename" becomes "```lang:filename".
// Openers whose language already carries a colon are left as they are.
func NormalizeCodeMeta(content string) string {
	if !strings.Contains(content, "```") && !strings.Contains(content, "~~~") {
		return content
	}
	return fence.TransformOpeners(content, func(line string, r fence.Region) string {
		info := strings.TrimSpace(themeAnnotation.ReplaceAllString(r.Info, ""))
		if fields := strings.Fields(info); len(fields) == 2 &&
			!strings.Contains(fields[0], ":") &&
			!strings.ContainsAny(fields[1], ":{}=\"'") {
			info = fields[0] + ":" + fields[1]
		}
		if info == r.Info {
			return line
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		return indent + r.Marker + info
	})
}
