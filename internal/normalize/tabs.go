package normalize

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdcanon/internal/attrs"
	"github.com/alnah/go-mdcanon/internal/fence"
)

// tabTag matches opening, closing and self-closing Tabs, Tab and CodeGroup tags.
var tabTag = regexp.MustCompile(`<(/?)(Tabs|Tab|CodeGroup)(\s[^>]*)?>`)

// Directive levels for the tab family. Tabs wrap tab blocks and need the
// higher level so the inner closers do not end them.
const (
	tabsLevel = 4
	tabLevel  = 3
)

// ConvertTabs rewrites component tabs line by line outside code fences:
// <Tabs> becomes `::::tabs`, <Tab title="X"> becomes `:::tab{title="X"}` and
// <CodeGroup> becomes `:::code-tabs`. Attributes are carried over.
func ConvertTabs(content string) string {
	if !strings.Contains(content, "<Tab") && !strings.Contains(content, "<CodeGroup") {
		return content
	}
	return fence.TransformOutsideFences(content, func(seg string) string {
		return replaceBlocks(seg, tabTag, func(sub []string) (string, bool) {
			closing, name := sub[1] == "/", sub[2]
			level := tabLevel
			if name == "Tabs" {
				level = tabsLevel
			}
			if closing {
				return strings.Repeat(":", level), true
			}

			raw := strings.TrimSpace(sub[3])
			selfClosing := strings.HasSuffix(raw, "/")
			a := attrs.Parse(strings.TrimSuffix(raw, "/"))

			var opener string
			switch name {
			case "Tabs":
				opener = attrs.Opener(level, "tabs", a)
			case "Tab":
				opener = attrs.Opener(level, "tab", a)
			default:
				opener = attrs.Opener(level, "code-tabs", a)
			}
			if selfClosing {
				return opener + "\n" + strings.Repeat(":", level), true
			}
			return opener, true
		})
	})
}
