package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-mdcanon/internal/attrs"
	"github.com/alnah/go-mdcanon/internal/fence"
)

var (
	columnsBlock = regexp.MustCompile(`(?s)<Columns(\s[^>]*)?>(.*?)</Columns>`)
	cardBlock    = regexp.MustCompile(`(?s)<Card(\s[^>]*?)?(?:/>|>(.*?)</Card>)`)
)

// defaultColumns is used when cols is absent or not a number.
const defaultColumns = 2

// cardKeyOrder lists the card attributes emitted first, in this order.
var cardKeyOrder = []string{"title", "href", "icon"}

// ConvertColumns rewrites <Columns cols={N}> blocks of <Card> children into a
// `:::columns{cols=N}` directive holding one `:::card` per child. Card bodies
// are trimmed and href values lose the version prefix. A Columns block without
// any Card is left unchanged.
func ConvertColumns(content, versionPrefix string) string {
	if !strings.Contains(content, "<Columns") {
		return content
	}
	return fence.Apply(content, func(masked string, _ fence.Masked) string {
		return replaceBlocks(masked, columnsBlock, func(sub []string) (string, bool) {
			cards := cardBlock.FindAllStringSubmatch(sub[2], -1)
			if len(cards) == 0 {
				return "", false
			}

			var b strings.Builder
			b.WriteString(":::columns{cols=" + strconv.Itoa(columnCount(sub[1])) + "}\n")
			for _, card := range cards {
				b.WriteString(renderCard(card[1], strings.TrimSpace(card[2]), versionPrefix))
				b.WriteByte('\n')
			}
			b.WriteString(":::")
			return b.String(), true
		})
	})
}

// ConvertCards rewrites <Card> tags found outside Columns into `:::card`
// directives. Unlike cards inside Columns, only blank lines around the body
// are removed; its indentation is kept.
func ConvertCards(content, versionPrefix string) string {
	if !strings.Contains(content, "<Card") {
		return content
	}
	return fence.Apply(content, func(masked string, _ fence.Masked) string {
		return replaceBlocks(masked, cardBlock, func(sub []string) (string, bool) {
			return renderCard(sub[1], trimBlankLines(sub[2]), versionPrefix), true
		})
	})
}

// columnCount reads cols from a Columns tag, defaulting to 2.
func columnCount(rawAttrs string) int {
	v, ok := attrs.Parse(strings.TrimSpace(rawAttrs)).Get("cols")
	if !ok {
		return defaultColumns
	}
	n, ok := v.Number()
	if !ok || n != float64(int(n)) {
		return defaultColumns
	}
	return int(n)
}

func renderCard(rawAttrs, body, versionPrefix string) string {
	src := attrs.Parse(strings.TrimSuffix(strings.TrimSpace(rawAttrs), "/"))

	var out attrs.Attributes
	for _, key := range cardKeyOrder {
		if v, ok := src.Get(key); ok {
			out.Set(key, v)
		}
	}
	for _, a := range src.All() {
		out.Set(a.Key, a.Value)
	}
	if v, ok := out.Get("href"); ok && v.Kind() == attrs.String {
		out.Set("href", attrs.StringValue(StripVersionPrefix(v.String(), versionPrefix)))
	}

	opener := attrs.Opener(3, "card", out)
	if body == "" {
		return opener + "\n:::"
	}
	return opener + "\n" + body + "\n:::"
}
