package normalize

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdcanon/internal/attrs"
	"github.com/alnah/go-mdcanon/internal/fence"
)

var (
	stepsBlock = regexp.MustCompile(`(?s)<Steps(?:\s[^>]*)?>(.*?)</Steps>`)
	stepOpen   = regexp.MustCompile(`<Step(\s[^>]*)?>`)
	stepClose  = regexp.MustCompile(`</Step>`)
	stepsOpen  = regexp.MustCompile(`<Steps[\s/>]`)
)

// stepsIndent is the indentation stripped per pass from Steps bodies.
const stepsIndent = 4

// ConvertSteps unwraps <Steps> blocks. Their body is dedented twice by up to
// four spaces (code fences included), each <Step title="X"> becomes a
// `### X` heading, a <Step> without title becomes a bare `###`, and </Step>
// is removed. A block whose body opens <Steps> again is left unchanged.
func ConvertSteps(content string) string {
	if !strings.Contains(content, "<Steps") {
		return content
	}
	return fence.Apply(content, func(masked string, m fence.Masked) string {
		return stepsBlock.ReplaceAllStringFunc(masked, func(block string) string {
			sub := stepsBlock.FindStringSubmatch(block)
			if stepsOpen.MatchString(sub[1]) {
				return block
			}
			body := dedent(dedent(m.Restore(sub[1]), stepsIndent), stepsIndent)
			return convertStepTags(body)
		})
	})
}

func convertStepTags(body string) string {
	return fence.Apply(body, func(masked string, _ fence.Masked) string {
		masked = stepOpen.ReplaceAllStringFunc(masked, func(tag string) string {
			sub := stepOpen.FindStringSubmatch(tag)
			title := strings.TrimSpace(attrs.Parse(strings.TrimSuffix(strings.TrimSpace(sub[1]), "/")).Text("title"))
			if title == "" {
				return "###\n"
			}
			return "### " + title + "\n"
		})
		return stepClose.ReplaceAllString(masked, "")
	})
}
