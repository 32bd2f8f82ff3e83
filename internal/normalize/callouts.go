package normalize

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdcanon/internal/fence"
)

// calloutTag maps a component tag to the message variant it becomes.
type calloutTag struct {
	name    string
	alert   bool
	pattern *regexp.Regexp
	opener  *regexp.Regexp
}

// calloutTags lists the callout components in conversion order.
// Each pattern matches the shortest span. A span whose body opens the same
// tag again is left as is, since nesting the same tag is not supported.
var calloutTags = []calloutTag{
	newCalloutTag("Tip", false),
	newCalloutTag("Note", false),
	newCalloutTag("Info", false),
	newCalloutTag("Callout", true),
	newCalloutTag("Warning", true),
	newCalloutTag("Danger", true),
}

func newCalloutTag(name string, alert bool) calloutTag {
	return calloutTag{
		name:    name,
		alert:   alert,
		pattern: regexp.MustCompile(`(?s)<` + name + `(?:\s[^>]*)?>(.*?)</` + name + `>`),
		opener:  regexp.MustCompile(`<` + name + `[\s/>]`),
	}
}

// ConvertCallouts rewrites <Tip>, <Note> and <Info> into `:::message` blocks
// and <Callout>, <Warning> and <Danger> into `:::message alert` blocks.
// Tags inside code fences are left alone.
func ConvertCallouts(content string) string {
	if !strings.Contains(content, "<") {
		return content
	}
	return fence.Apply(content, func(masked string, _ fence.Masked) string {
		for _, tag := range calloutTags {
			if !strings.Contains(masked, "<"+tag.name) {
				continue
			}
			opener := ":::message"
			if tag.alert {
				opener += " alert"
			}
			masked = replaceBlocks(masked, tag.pattern, func(sub []string) (string, bool) {
				if tag.opener.MatchString(sub[1]) {
					return "", false
				}
				body := strings.TrimSpace(sub[1])
				if body == "" {
					return opener + "\n:::", true
				}
				return opener + "\n" + body + "\n:::", true
			})
		}
		return masked
	})
}
