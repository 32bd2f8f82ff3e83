package compile

import (
	"strconv"
	"strings"

	"github.com/alnah/go-mdcanon/internal/attrs"
	"github.com/alnah/go-mdcanon/internal/block"
	"github.com/alnah/go-mdcanon/internal/directive"
	"github.com/alnah/go-mdcanon/internal/fence"
	"github.com/alnah/go-mdcanon/internal/slug"
)

type compileFunc func(c *Compiler, n *directive.Node, ids *slug.IDs) block.Node

// directives maps directive names to their compilers.
var directives map[string]compileFunc

func init() {
	directives = map[string]compileFunc{
		"message":     compileMessage,
		"details":     compileDetails,
		"code-tabs":   compileCodeTabs,
		"columns":     compileColumns,
		"card":        compileCard,
		"tabs":        compileTabs,
		"tab":         compileStrayTab,
		"param-field": compileParamField,
		"chart-radar": compileRadarChart,
		"mermaid":     compileMermaid,
	}
}

// Column bounds for the columns directive.
const (
	minColumns     = 1
	maxColumns     = 4
	defaultColumns = 2
)

// tabTitleKeys are the attributes accepted as a tab title, in precedence order.
var tabTitleKeys = []string{"title", "label", "data-title"}

func compileMessage(c *Compiler, n *directive.Node, ids *slug.IDs) block.Node {
	variant := n.Fence.Attrs.Text("variant")
	if variant == "" {
		variant = n.Fence.Rest
	}
	if variant == "" {
		variant = block.VariantMessage
	}
	if variant != block.VariantMessage && variant != block.VariantAlert {
		return block.Errorf("invalid message variant: %s", variant)
	}
	return block.MessageBox{
		Variant:  variant,
		Content:  content(n.Body),
		Children: c.compileBody(n.Body, ids),
	}
}

func compileDetails(c *Compiler, n *directive.Node, ids *slug.IDs) block.Node {
	title := strings.TrimSpace(n.Fence.Attrs.Text("title"))
	if title == "" {
		title = n.Fence.Rest
	}
	if title == "" {
		return block.Errorf("details requires a title")
	}
	return block.Details{
		Title:    title,
		Content:  content(n.Body),
		Children: c.compileBody(n.Body, ids),
	}
}

// compileCodeTabs turns each fenced code block of the body into a tab.
// The label is the part of the fence language after ':', or the language.
func compileCodeTabs(_ *Compiler, n *directive.Node, _ *slug.IDs) block.Node {
	var tabs []block.CodeTab
	for _, r := range fence.Split(n.Body) {
		if !r.Fenced {
			continue
		}
		language, label := splitFenceMeta(r.Info)
		if language == "" {
			language = "text"
		}
		if label == "" {
			label = language
		}
		tabs = append(tabs, block.CodeTab{
			Language: language,
			Label:    label,
			Code:     fencedCode(n.Body[r.Start:r.End], r.Marker),
		})
	}
	if len(tabs) == 0 {
		return block.Errorf("no tabs found")
	}
	return block.CodeTabs{Tabs: tabs}
}

// compileMermaid keeps the body verbatim as diagram source.
func compileMermaid(_ *Compiler, n *directive.Node, _ *slug.IDs) block.Node {
	code := content(n.Body)
	if code == "" {
		return block.Errorf("mermaid requires a diagram")
	}
	return block.Mermaid{Code: code}
}

func compileColumns(c *Compiler, n *directive.Node, ids *slug.IDs) block.Node {
	cols := defaultColumns
	if v, ok := n.Fence.Attrs.Get("cols"); ok {
		num, isNum := v.Number()
		if !isNum || num != float64(int(num)) || num < minColumns || num > maxColumns {
			return block.Errorf("invalid cols %q: want an integer from %d to %d", v.String(), minColumns, maxColumns)
		}
		cols = int(num)
	}

	var cards []block.Card
	for _, child := range n.Children {
		if child.Kind == directive.Block && child.Name() == "card" {
			cards = append(cards, cardOf(c, child, ids))
		}
	}
	if len(cards) == 0 {
		return block.Errorf("no cards found")
	}
	return block.Columns{Cols: cols, Cards: cards}
}

func compileCard(c *Compiler, n *directive.Node, ids *slug.IDs) block.Node {
	return cardOf(c, n, ids)
}

func cardOf(c *Compiler, n *directive.Node, ids *slug.IDs) block.Card {
	a := n.Fence.Attrs
	return block.Card{
		Title:    a.Text("title"),
		Href:     a.Text("href"),
		Icon:     a.Text("icon"),
		CTA:      a.Text("cta"),
		Arrow:    a.Flag("arrow"),
		Content:  content(n.Body),
		Children: c.compileBody(n.Body, ids),
	}
}

// compileTabs keeps the titled tab children. Untitled tabs are dropped.
func compileTabs(c *Compiler, n *directive.Node, ids *slug.IDs) block.Node {
	var tabs []block.Tab
	for _, child := range n.Children {
		if child.Kind != directive.Block || child.Name() != "tab" {
			continue
		}
		title := tabTitle(child.Fence.Attrs)
		if title == "" {
			continue
		}
		tabs = append(tabs, block.Tab{
			Title:    title,
			Content:  content(child.Body),
			Children: c.compileBody(child.Body, ids),
		})
	}
	if len(tabs) == 0 {
		return block.Errorf("no titled tabs found")
	}
	return block.Tabs{Tabs: tabs}
}

func tabTitle(a attrs.Attributes) string {
	for _, key := range tabTitleKeys {
		if title := strings.TrimSpace(a.Text(key)); title != "" {
			return title
		}
	}
	return ""
}

func compileStrayTab(_ *Compiler, _ *directive.Node, _ *slug.IDs) block.Node {
	return block.Errorf("tab outside tabs")
}

// compileParamField names the field by header, falling back to body.
func compileParamField(c *Compiler, n *directive.Node, ids *slug.IDs) block.Node {
	a := n.Fence.Attrs
	header := a.Text("header")
	if header == "" {
		header = a.Text("body")
	}
	return block.ParamField{
		Header:   header,
		Type:     a.Text("type"),
		Required: a.Flag("required"),
		Default:  a.Text("default"),
		Content:  content(n.Body),
		Children: c.compileBody(n.Body, ids),
	}
}

// compileRadarChart reads `label: number` lines. Malformed lines are skipped.
func compileRadarChart(_ *Compiler, n *directive.Node, _ *slug.IDs) block.Node {
	var points []block.RadarPoint
	for _, line := range strings.Split(n.Body, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.TrimSpace(label)
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if label == "" || err != nil {
			continue
		}
		points = append(points, block.RadarPoint{Label: label, Value: v})
	}
	if len(points) == 0 {
		return block.Errorf("no data points found")
	}

	a := n.Fence.Attrs
	return block.RadarChart{
		Title:  a.Text("title"),
		Width:  intAttr(a, "width"),
		Height: intAttr(a, "height"),
		Points: points,
	}
}

// intAttr returns an integer attribute, or 0 when absent or not a number.
func intAttr(a attrs.Attributes, key string) int {
	v, ok := a.Get(key)
	if !ok {
		return 0
	}
	n, ok := v.Number()
	if !ok {
		return 0
	}
	return int(n)
}

// splitFenceMeta splits a fence info string "lang:label extra" into its
// language and label.
func splitFenceMeta(info string) (language, label string) {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", ""
	}
	language, label, _ = strings.Cut(fields[0], ":")
	return language, label
}

// fencedCode returns the lines between a fenced region's opener and closer,
// without the final line ending.
func fencedCode(region, marker string) string {
	_, rest, found := strings.Cut(region, "\n")
	if !found {
		return ""
	}
	lines := strings.SplitAfter(rest, "\n")
	if k := len(lines); k > 0 && lines[k-1] == "" {
		lines = lines[:k-1]
	}
	if k := len(lines); k > 0 && fence.IsCloser(lines[k-1], marker) {
		lines = lines[:k-1]
	}
	return strings.TrimSuffix(strings.Join(lines, ""), "\n")
}
