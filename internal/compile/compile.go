// Package compile turns canonical directive markdown into typed block nodes.
//
// Compilation is total: every input yields a node list. Directives that are
// unknown, miss required attributes or have nothing to show become
// block.Error nodes in place, so one bad block never hides the rest of the
// document.
package compile

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/alnah/go-mdcanon/internal/block"
	"github.com/alnah/go-mdcanon/internal/directive"
	"github.com/alnah/go-mdcanon/internal/normalize"
	"github.com/alnah/go-mdcanon/internal/slug"
)

// Compiler compiles canonical markdown. It is safe for concurrent use.
type Compiler struct {
	md goldmark.Markdown
}

// New creates a Compiler that parses prose as GitHub Flavored Markdown.
func New() *Compiler {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Heading anchors, unique per document
		),
	)
	return &Compiler{md: md}
}

// Compile returns the block nodes of markdown in document order.
func (c *Compiler) Compile(markdown string) (nodes []block.Node) {
	defer func() {
		if r := recover(); r != nil {
			nodes = append(nodes, block.Errorf("internal error: %v", r))
		}
	}()

	src := Preprocess(normalize.NormalizeLineEndings(markdown))
	return c.compileNodes(directive.Parse(src), slug.NewIDs())
}

// compileNodes compiles a directive tree level. ids is shared by the whole
// document so heading anchors stay unique across nested blocks.
func (c *Compiler) compileNodes(nodes []*directive.Node, ids *slug.IDs) []block.Node {
	var out []block.Node
	for _, n := range nodes {
		if n.Kind == directive.Text {
			out = append(out, c.compileText(n.Text, ids)...)
			continue
		}
		out = append(out, c.compileDirective(n, ids))
	}
	return out
}

// compileBody compiles the raw body of a container block.
func (c *Compiler) compileBody(body string, ids *slug.IDs) []block.Node {
	return c.compileNodes(directive.Parse(body), ids)
}

func (c *Compiler) compileDirective(n *directive.Node, ids *slug.IDs) block.Node {
	compileFn, ok := directives[n.Name()]
	if !ok {
		return block.Errorf("unknown directive: %s", n.Name())
	}
	return compileFn(c, n, ids)
}

// content returns a block body without surrounding blank lines.
func content(body string) string {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
}
