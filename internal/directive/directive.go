// Package directive splits canonical markdown into prose and `:::name` blocks.
//
// Blocks nest through an explicit stack of open fence levels. A closing line
// of N colons closes the most recently opened block when N is at least that
// block's level; otherwise the line is kept as text. Blocks still open at the
// end of input are closed there. Lines inside code fences never open or close
// blocks.
package directive

import (
	"strings"

	"github.com/alnah/go-mdcanon/internal/attrs"
	"github.com/alnah/go-mdcanon/internal/fence"
)

// Kind distinguishes prose from directive blocks.
type Kind int

const (
	Text Kind = iota
	Block
)

// Node is a run of prose or a directive block.
type Node struct {
	Kind Kind
	// Text holds the raw lines of a Text node, line endings included.
	Text string
	// Fence is the parsed opener of a Block node.
	Fence attrs.Fence
	// Body is the raw text between the opener and closer lines.
	Body string
	// Children is Body split again into prose and nested blocks.
	Children []*Node
	// Closed is false when the block ran to the end of input.
	Closed bool
	// Line is the 1-based line number where the node starts.
	Line int

	start int
}

// Name returns the directive name of a Block node.
func (n *Node) Name() string { return n.Fence.Name }

// open tracks a block being filled.
type open struct {
	node      *Node
	bodyStart int
}

// Parse splits text into a tree of nodes. It never fails.
func Parse(text string) []*Node {
	root := &Node{Kind: Block}
	stack := []open{{node: root}}

	var (
		codeMarker string
		pos        int
		line       int
	)

	for pos < len(text) {
		end := strings.IndexByte(text[pos:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += pos + 1
		}
		raw := text[pos:end]
		line++
		top := stack[len(stack)-1]

		switch {
		case codeMarker != "":
			if fence.IsCloser(raw, codeMarker) {
				codeMarker = ""
			}
			appendText(top.node, text, pos, end, line)

		case len(stack) > 1 && closes(raw, top.node.Fence.Level):
			top.node.Body = text[top.bodyStart:pos]
			top.node.Closed = true
			stack = stack[:len(stack)-1]

		default:
			if marker, _, ok := fence.ParseOpener(raw); ok {
				codeMarker = marker
				appendText(top.node, text, pos, end, line)
				break
			}
			if f, ok := attrs.ParseFence(raw); ok {
				n := &Node{Kind: Block, Fence: f, Line: line}
				top.node.Children = append(top.node.Children, n)
				stack = append(stack, open{node: n, bodyStart: end})
				break
			}
			appendText(top.node, text, pos, end, line)
		}
		pos = end
	}

	for _, o := range stack[1:] {
		o.node.Body = text[min(o.bodyStart, len(text)):]
	}
	return root.Children
}

func closes(line string, level int) bool {
	n, ok := attrs.ParseCloser(line)
	return ok && n >= level
}

// appendText extends the trailing Text child of parent with text[pos:end].
// Lines reaching the same Text child are always contiguous in the input.
func appendText(parent *Node, text string, pos, end, line int) {
	if k := len(parent.Children); k > 0 && parent.Children[k-1].Kind == Text {
		last := parent.Children[k-1]
		last.Text = text[last.start:end]
		return
	}
	parent.Children = append(parent.Children, &Node{Kind: Text, Text: text[pos:end], Line: line, start: pos})
}

// Walk calls fn for every node in depth-first order. Returning false skips
// the node's children.
func Walk(nodes []*Node, fn func(*Node) bool) {
	for _, n := range nodes {
		if fn(n) {
			Walk(n.Children, fn)
		}
	}
}
