package present

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/alnah/go-mdcanon/internal/block"
)

func (r *Renderer) codeBlock(buf *bytes.Buffer, c block.CodeBlock) error {
	class := "code-block"
	lexer := c.Language
	if c.IsDiff {
		class += " code-diff"
		lexer = "diff"
	}
	fmt.Fprintf(buf, "<figure class=%q%s>\n", class, attr("data-language", c.Language))
	if c.Filename != "" {
		fmt.Fprintf(buf, "<figcaption>%s</figcaption>\n", esc(c.Filename))
	}
	if err := r.highlight(buf, lexer, c.Content); err != nil {
		return err
	}
	buf.WriteString("</figure>\n")
	return nil
}

func (r *Renderer) codeTabs(buf *bytes.Buffer, c block.CodeTabs, opts Options) error {
	labels := make([]string, len(c.Tabs))
	for i, t := range c.Tabs {
		labels[i] = t.Label
	}
	active := activeIndex(labels, opts.PreferredTab)

	buf.WriteString("<div class=\"code-tabs\">\n")
	writeTabList(buf, labels, active)
	for i, t := range c.Tabs {
		fmt.Fprintf(buf, "<div class=\"tab-panel\" role=\"tabpanel\"%s%s%s>\n",
			attr("data-label", t.Label), attr("data-language", t.Language), hidden(i != active))
		if err := r.highlight(buf, t.Language, t.Code); err != nil {
			return err
		}
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</div>\n")
	return nil
}

// highlight writes code as class-annotated chroma HTML. Unknown languages
// use the plain-text lexer.
func (r *Renderer) highlight(buf *bytes.Buffer, language, code string) error {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("%w: tokenizing %s code: %v", ErrRender, language, err)
	}
	if err := r.formatter.Format(buf, r.style, it); err != nil {
		return fmt.Errorf("%w: formatting %s code: %v", ErrRender, language, err)
	}
	buf.WriteByte('\n')
	return nil
}

// Stylesheet returns the component rules followed by the chroma rules for
// the highlighting classes.
func (r *Renderer) Stylesheet() (string, error) {
	return r.stylesheet(componentCSS)
}

func (r *Renderer) stylesheet(components string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(components)
	if err := r.formatter.WriteCSS(&buf, r.style); err != nil {
		return "", fmt.Errorf("%w: writing code stylesheet: %v", ErrRender, err)
	}
	return buf.String(), nil
}
