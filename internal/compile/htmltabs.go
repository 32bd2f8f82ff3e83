package compile

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-mdcanon/internal/block"
	"github.com/alnah/go-mdcanon/internal/slug"
)

// openTab is a <Tab> whose closing tag has not been seen yet.
type openTab struct {
	title string
	start int
}

// compileHTMLTabs compiles a raw `<Tabs>...</Tabs>` block left in prose.
// Tag names and attribute keys are matched case-insensitively; tab bodies are
// taken verbatim from the source and compiled as markdown.
func (c *Compiler) compileHTMLTabs(raw string, ids *slug.IDs) block.Node {
	z := html.NewTokenizer(strings.NewReader(raw))

	var (
		tabs   []block.Tab
		cur    *openTab
		offset int
	)
	closeTab := func(end int) {
		if cur != nil && cur.title != "" {
			body := dedentCommon(raw[cur.start:end])
			tabs = append(tabs, block.Tab{
				Title:    cur.title,
				Content:  content(body),
				Children: c.compileBody(body, ids),
			})
		}
		cur = nil
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tokStart := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "tab" || cur != nil {
				continue
			}
			found := map[string]string{}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				found[string(key)] = string(val)
			}
			cur = &openTab{title: htmlTabTitle(found), start: offset}
			if tt == html.SelfClosingTagToken {
				closeTab(offset)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "tab", "tabs":
				closeTab(tokStart)
			}
		}
	}
	closeTab(len(raw))

	if len(tabs) == 0 {
		return block.Errorf("no titled tabs found")
	}
	return block.Tabs{Tabs: tabs}
}

func htmlTabTitle(found map[string]string) string {
	for _, key := range tabTitleKeys {
		if title := strings.TrimSpace(found[key]); title != "" {
			return title
		}
	}
	return ""
}

// dedentCommon removes the indentation shared by all non-blank lines.
func dedentCommon(text string) string {
	lines := strings.Split(text, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return text
	}
	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
