package present

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alnah/go-mdcanon/internal/block"
)

func (r *Renderer) tabs(buf *bytes.Buffer, t block.Tabs, opts Options) error {
	titles := make([]string, len(t.Tabs))
	for i, tab := range t.Tabs {
		titles[i] = tab.Title
	}
	active := activeIndex(titles, opts.PreferredTab)

	buf.WriteString("<div class=\"tabs\">\n")
	writeTabList(buf, titles, active)
	for i, tab := range t.Tabs {
		fmt.Fprintf(buf, "<div class=\"tab-panel\" role=\"tabpanel\"%s%s>\n", attr("data-label", tab.Title), hidden(i != active))
		if err := r.body(buf, tab.Children, tab.Content, opts); err != nil {
			return err
		}
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</div>\n")
	return nil
}

func writeTabList(buf *bytes.Buffer, labels []string, active int) {
	buf.WriteString("<div class=\"tab-list\" role=\"tablist\">")
	for i, label := range labels {
		fmt.Fprintf(buf, "<button type=\"button\" role=\"tab\" aria-selected=\"%t\">%s</button>", i == active, esc(label))
	}
	buf.WriteString("</div>\n")
}

// activeIndex returns the index of the label matching preferred, or 0.
func activeIndex(labels []string, preferred string) int {
	preferred = strings.TrimSpace(preferred)
	if preferred == "" {
		return 0
	}
	for i, label := range labels {
		if strings.EqualFold(label, preferred) {
			return i
		}
	}
	return 0
}

func hidden(h bool) string {
	if h {
		return " hidden"
	}
	return ""
}
