package compile

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-mdcanon/internal/attrs"
	"github.com/alnah/go-mdcanon/internal/block"
	"github.com/alnah/go-mdcanon/internal/fence"
	"github.com/alnah/go-mdcanon/internal/slug"
)

var (
	// Raw component Tabs left in prose
	rawTabsBlock = regexp.MustCompile(`(?s)<Tabs(?:\s[^>]*)?>.*?</Tabs>`)

	// Capitalized tag at the start of an HTML block
	componentTag = regexp.MustCompile(`^\s*</?([A-Z][A-Za-z0-9]*)[\s/>]`)

	// Attribute block following an image, e.g. {width=250 height=100}
	trailingAttrs = regexp.MustCompile(`^\{([^}]*)\}$`)
)

// compileText compiles a prose run. Raw <Tabs> blocks are cut out first and
// compiled on their own; the rest goes through goldmark.
func (c *Compiler) compileText(src string, ids *slug.IDs) []block.Node {
	if !strings.Contains(src, "<Tabs") {
		return c.compileProse(src, ids)
	}

	m := fence.Mask(src)
	locs := rawTabsBlock.FindAllStringIndex(m.Text, -1)
	if len(locs) == 0 {
		return c.compileProse(src, ids)
	}

	var out []block.Node
	prev := 0
	for _, loc := range locs {
		out = append(out, c.compileProse(m.Restore(m.Text[prev:loc[0]]), ids)...)
		out = append(out, c.compileHTMLTabs(m.Restore(m.Text[loc[0]:loc[1]]), ids))
		prev = loc[1]
	}
	return append(out, c.compileProse(m.Restore(m.Text[prev:]), ids)...)
}

// span is a range of source lines [start, end) claimed by one node.
type span struct {
	start, end int
	node       block.Node
}

// compileProse parses src with goldmark and lifts headings, code blocks,
// lone images and links, and component tags into their own nodes. Source
// lines between them are kept as Markdown nodes.
func (c *Compiler) compileProse(src string, ids *slug.IDs) []block.Node {
	if strings.TrimSpace(src) == "" {
		return nil
	}

	source := []byte(src)
	ctx := parser.NewContext(parser.WithIDs(ids))
	doc := c.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))
	lines := newLineIndex(source)

	var spans []span
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if s, ok := liftNode(n, source, lines); ok {
			spans = append(spans, s)
		}
	}

	var out []block.Node
	prev := 0
	for _, s := range spans {
		if s.start < prev {
			continue
		}
		if md := lines.text(source, prev, s.start); md != "" {
			out = append(out, block.Markdown{Content: md})
		}
		out = append(out, s.node)
		prev = s.end
	}
	if md := lines.text(source, prev, lines.count()); md != "" {
		out = append(out, block.Markdown{Content: md})
	}
	return out
}

// liftNode returns the node and line span for top-level blocks that compile
// to something other than prose.
func liftNode(n ast.Node, source []byte, lines lineIndex) (span, bool) {
	switch v := n.(type) {
	case *ast.Heading:
		return liftHeading(v, source, lines)
	case *ast.FencedCodeBlock:
		return liftFencedCode(v, source, lines)
	case *ast.CodeBlock:
		if v.Lines().Len() == 0 {
			return span{}, false
		}
		start, end := lines.segments(v.Lines())
		code := strings.TrimSuffix(linesText(v.Lines(), source), "\n")
		return span{start, end, block.CodeBlock{Content: code}}, true
	case *ast.Paragraph:
		node, ok := liftParagraph(v, source)
		if !ok {
			return span{}, false
		}
		start, end := lines.segments(v.Lines())
		return span{start, end, node}, true
	case *ast.HTMLBlock:
		if v.Lines().Len() == 0 {
			return span{}, false
		}
		first := v.Lines().At(0)
		sub := componentTag.FindSubmatch(first.Value(source))
		if sub == nil {
			return span{}, false
		}
		start, end := lines.segments(v.Lines())
		if v.HasClosure() {
			end = lines.lineOf(v.ClosureLine.Start) + 1
		}
		return span{start, end, block.Errorf("unconverted component tag: <%s>", sub[1])}, true
	}
	return span{}, false
}

func liftHeading(h *ast.Heading, source []byte, lines lineIndex) (span, bool) {
	if h.Lines().Len() == 0 {
		return span{}, false
	}
	start, end := lines.segments(h.Lines())
	if !bytes.HasPrefix(bytes.TrimLeft(lines.line(source, start), " "), []byte("#")) {
		end++ // setext underline
	}
	node := block.Heading{Level: h.Level, Text: plainText(h, source)}
	if id, ok := h.AttributeString("id"); ok {
		if b, ok := id.([]byte); ok {
			node.ID = string(b)
		}
	}
	return span{start, min(end, lines.count()), node}, true
}

// liftFencedCode locates the opener from the info string or the first code
// line and the closer just after the last code line.
func liftFencedCode(f *ast.FencedCodeBlock, source []byte, lines lineIndex) (span, bool) {
	var start int
	switch {
	case f.Info != nil:
		start = lines.lineOf(f.Info.Segment.Start)
	case f.Lines().Len() > 0:
		start = lines.lineOf(f.Lines().At(0).Start) - 1
	default:
		return span{}, false
	}
	marker, info, ok := fence.ParseOpener(string(lines.line(source, start)))
	if !ok {
		return span{}, false
	}

	end := start + 1
	if f.Lines().Len() > 0 {
		_, end = lines.segments(f.Lines())
	}
	if end < lines.count() && isFenceCloser(lines.line(source, end), marker) {
		end++
	}

	language, filename := splitFenceMeta(info)
	code := strings.TrimSuffix(linesText(f.Lines(), source), "\n")
	if language == "mermaid" {
		return span{start, end, block.Mermaid{Code: code}}, true
	}
	node := block.CodeBlock{Language: language, Filename: filename, Content: code}
	if language == "diff" || strings.HasPrefix(language, "diff-") {
		node.IsDiff = true
		node.Language = strings.TrimPrefix(strings.TrimPrefix(language, "diff"), "-")
	}
	return span{start, end, node}, true
}

// isFenceCloser reports whether line closes a fence opened with marker.
// CommonMark allows a longer run of the same character.
func isFenceCloser(line []byte, marker string) bool {
	s := strings.TrimSpace(string(line))
	return len(s) >= len(marker) && strings.Trim(s, marker[:1]) == ""
}

// liftParagraph recognizes paragraphs made of a single image, a single link
// or a Zenn embed `@[kind](url)`.
func liftParagraph(p *ast.Paragraph, source []byte) (block.Node, bool) {
	if first, ok := p.FirstChild().(*ast.RawHTML); ok {
		if sub := componentTag.FindSubmatch(rawHTMLValue(first, source)); sub != nil {
			return block.Errorf("unconverted component tag: <%s>", sub[1]), true
		}
	}

	children := inlineChildren(p, source)
	if len(children) == 0 {
		return nil, false
	}
	switch len(children) {
	case 1:
		switch v := children[0].(type) {
		case *ast.Image:
			return imageNode(v, source, nil), true
		case *ast.Link:
			return linkNode(string(v.Destination), plainText(v, source)), true
		case *ast.AutoLink:
			url := string(v.URL(source))
			return block.Embed{URL: url, Provider: embedKind(url, block.EmbedCard)}, true
		}
	case 2:
		if t, ok := children[0].(*ast.Text); ok && string(t.Segment.Value(source)) == "@" {
			if l, ok := children[1].(*ast.Link); ok {
				return zennEmbed(plainText(l, source), string(l.Destination)), true
			}
		}
	}

	if img, ok := children[0].(*ast.Image); ok && len(children) > 1 {
		var rest []byte
		for _, n := range children[1:] {
			t, ok := n.(*ast.Text)
			if !ok {
				return nil, false
			}
			rest = append(rest, t.Segment.Value(source)...)
		}
		if sub := trailingAttrs.FindSubmatch(bytes.TrimSpace(rest)); sub != nil {
			return imageNode(img, source, sub[1]), true
		}
	}
	return nil, false
}

// inlineChildren returns the paragraph's inline nodes, skipping empty text.
func inlineChildren(p *ast.Paragraph, source []byte) []ast.Node {
	var out []ast.Node
	for n := p.FirstChild(); n != nil; n = n.NextSibling() {
		if t, ok := n.(*ast.Text); ok && len(bytes.TrimSpace(t.Segment.Value(source))) == 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

func imageNode(img *ast.Image, source, rawAttrs []byte) block.Image {
	node := block.Image{Src: string(img.Destination), Alt: plainText(img, source)}
	if rawAttrs != nil {
		a := attrs.Parse(string(rawAttrs))
		node.Width = intAttr(a, "width")
		node.Height = intAttr(a, "height")
	}
	return node
}

func rawHTMLValue(r *ast.RawHTML, source []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < r.Segments.Len(); i++ {
		seg := r.Segments.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

// plainText concatenates the text content of n's inline descendants.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := child.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// linesText joins the raw lines of a block.
func linesText(segs *text.Segments, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineIndex maps byte offsets to 0-based line numbers.
type lineIndex []int

func newLineIndex(source []byte) lineIndex {
	idx := lineIndex{0}
	for i, c := range source {
		if c == '\n' && i+1 < len(source) {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (l lineIndex) count() int { return len(l) }

func (l lineIndex) lineOf(offset int) int {
	return sort.Search(len(l), func(i int) bool { return l[i] > offset }) - 1
}

// segments returns the line span [start, end) covered by segs.
func (l lineIndex) segments(segs *text.Segments) (int, int) {
	first, last := segs.At(0), segs.At(segs.Len()-1)
	stop := last.Stop
	if stop > last.Start {
		stop--
	}
	return l.lineOf(first.Start), l.lineOf(stop) + 1
}

// line returns line i without its line ending.
func (l lineIndex) line(source []byte, i int) []byte {
	if i < 0 || i >= len(l) {
		return nil
	}
	end := len(source)
	if i+1 < len(l) {
		end = l[i+1]
	}
	return bytes.TrimRight(source[l[i]:end], "\r\n")
}

// text returns lines [start, end) without surrounding blank lines.
func (l lineIndex) text(source []byte, start, end int) string {
	if start >= end || start >= len(l) {
		return ""
	}
	from := l[start]
	to := len(source)
	if end < len(l) {
		to = l[end]
	}
	return content(string(source[from:to]))
}
