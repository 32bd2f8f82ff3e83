// Package present renders compiled block nodes as HTML.
//
// Rendering maps each node kind to a fixed markup shape. Markdown nodes go
// through goldmark, code goes through chroma with CSS classes, and error
// nodes stay visible so broken blocks are noticed in the output.
package present

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"

	"github.com/alnah/go-mdcanon/internal/block"
)

// ErrRender indicates HTML rendering failed.
var ErrRender = errors.New("HTML rendering failed")

// DefaultStyle is the chroma style used for the code stylesheet.
const DefaultStyle = "github"

// Options controls a single render.
type Options struct {
	// PreferredTab selects the initially visible tab of tabs and code tabs
	// when one has this title or label (case-insensitive). Otherwise the
	// first tab is visible.
	PreferredTab string

	// BaseURL resolves relative image and link targets when set.
	BaseURL string

	// Standalone wraps the fragment in a complete HTML5 document with the
	// component and code stylesheets.
	Standalone bool

	// Title is the document title of a standalone page.
	Title string

	// Style replaces the embedded component stylesheet of a standalone
	// page. Code highlighting rules are always appended.
	Style string

	// Template is an html/template source for standalone pages, with
	// .Title and .Content. Empty uses the embedded page template.
	Template string
}

// Renderer renders block nodes to HTML. It is safe for concurrent use.
type Renderer struct {
	md        goldmark.Markdown
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// New creates a Renderer with GFM prose and class-based code highlighting.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithStyle(DefaultStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// Raw HTML stays omitted. ==highlight== uses placeholders instead.
		),
	)
	return &Renderer{
		md:        md,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		style:     styleOrFallback(DefaultStyle),
	}
}

func styleOrFallback(name string) *chroma.Style {
	if s := styles.Get(name); s != nil {
		return s
	}
	return styles.Fallback
}

// Render renders nodes as an HTML fragment, or as a full page when
// opts.Standalone is set. Goldmark does not take a context, so rendering
// runs in a goroutine and ctx cancellation returns early.
func (r *Renderer) Render(ctx context.Context, nodes []block.Node, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		out, err := r.render(nodes, opts)
		done <- result{html: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

func (r *Renderer) render(nodes []block.Node, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := r.renderNodes(&buf, nodes, opts); err != nil {
		return "", err
	}
	out := buf.String()

	if opts.BaseURL != "" {
		var err error
		if out, err = ResolveRelativeURLs(out, opts.BaseURL); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRender, err)
		}
	}

	if opts.Standalone {
		style := opts.Style
		if style == "" {
			style = componentCSS
		}
		css, err := r.stylesheet(style)
		if err != nil {
			return "", err
		}
		page, err := PageWithTemplate(opts.Template, opts.Title, out)
		if err != nil {
			return "", err
		}
		out = InjectCSS(page, css)
	}
	return out, nil
}

func (r *Renderer) renderNodes(buf *bytes.Buffer, nodes []block.Node, opts Options) error {
	for _, n := range nodes {
		if err := r.renderNode(buf, n, opts); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderNode(buf *bytes.Buffer, n block.Node, opts Options) error {
	switch v := n.(type) {
	case block.Heading:
		level := min(max(v.Level, 1), 6)
		fmt.Fprintf(buf, "<h%d%s>%s</h%d>\n", level, attr("id", v.ID), esc(v.Text), level)
	case block.Markdown:
		return r.markdown(buf, v.Content)
	case block.CodeBlock:
		return r.codeBlock(buf, v)
	case block.CodeTabs:
		return r.codeTabs(buf, v, opts)
	case block.Columns:
		fmt.Fprintf(buf, "<div class=\"columns\"%s>\n", attr("data-cols", strconv.Itoa(v.Cols)))
		for _, card := range v.Cards {
			if err := r.card(buf, card, opts); err != nil {
				return err
			}
		}
		buf.WriteString("</div>\n")
	case block.Card:
		return r.card(buf, v, opts)
	case block.MessageBox:
		class := "message"
		if v.Variant == block.VariantAlert {
			class += " message-alert"
		}
		fmt.Fprintf(buf, "<aside class=%q>\n", class)
		if err := r.body(buf, v.Children, v.Content, opts); err != nil {
			return err
		}
		buf.WriteString("</aside>\n")
	case block.ParamField:
		return r.paramField(buf, v, opts)
	case block.Image:
		buf.WriteString("<p><img" + attr("src", v.Src) + attr("alt", v.Alt))
		if v.Width > 0 {
			buf.WriteString(attr("width", strconv.Itoa(v.Width)))
		}
		if v.Height > 0 {
			buf.WriteString(attr("height", strconv.Itoa(v.Height)))
		}
		buf.WriteString(" /></p>\n")
	case block.Mermaid:
		fmt.Fprintf(buf, "<pre class=\"mermaid\">%s</pre>\n", esc(v.Code))
	case block.Embed:
		fmt.Fprintf(buf, "<div class=\"embed\"%s><a%s>%s</a></div>\n",
			attr("data-kind", string(v.Provider)), attr("href", v.URL), esc(v.URL))
	case block.Error:
		fmt.Fprintf(buf, "<div class=\"render-error\" role=\"alert\"><strong>Error:</strong> %s</div>\n", esc(v.Reason))
	case block.Tabs:
		return r.tabs(buf, v, opts)
	case block.RadarChart:
		writeRadarChart(buf, v)
	case block.Details:
		fmt.Fprintf(buf, "<details>\n<summary>%s</summary>\n", esc(v.Title))
		if err := r.body(buf, v.Children, v.Content, opts); err != nil {
			return err
		}
		buf.WriteString("</details>\n")
	case block.Link:
		text := v.Text
		if text == "" {
			text = v.Href
		}
		fmt.Fprintf(buf, "<p class=\"link\"><a%s>%s</a></p>\n", attr("href", v.Href), esc(text))
	case nil:
	default:
		fmt.Fprintf(buf, "<div class=\"render-error\" role=\"alert\"><strong>Error:</strong> unsupported node: %s</div>\n", esc(string(n.Kind())))
	}
	return nil
}

// body renders a container's compiled children. Hand-built nodes without
// children fall back to their raw content rendered as markdown.
func (r *Renderer) body(buf *bytes.Buffer, children []block.Node, content string, opts Options) error {
	if len(children) == 0 {
		return r.markdown(buf, content)
	}
	return r.renderNodes(buf, children, opts)
}

func (r *Renderer) card(buf *bytes.Buffer, c block.Card, opts Options) error {
	class := "card"
	if c.Arrow {
		class += " card-arrow"
	}
	fmt.Fprintf(buf, "<div class=%q>\n", class)
	if c.Icon != "" {
		fmt.Fprintf(buf, "<span class=\"card-icon\"%s></span>\n", attr("data-icon", c.Icon))
	}
	if c.Title != "" {
		title := esc(c.Title)
		if c.Href != "" {
			title = "<a" + attr("href", c.Href) + ">" + title + "</a>"
		}
		fmt.Fprintf(buf, "<p class=\"card-title\">%s</p>\n", title)
	}
	if err := r.body(buf, c.Children, c.Content, opts); err != nil {
		return err
	}
	if c.CTA != "" {
		fmt.Fprintf(buf, "<p class=\"card-cta\">%s</p>\n", esc(c.CTA))
	}
	buf.WriteString("</div>\n")
	return nil
}

func (r *Renderer) paramField(buf *bytes.Buffer, p block.ParamField, opts Options) error {
	buf.WriteString("<div class=\"param-field\">\n<p class=\"param-header\">")
	fmt.Fprintf(buf, "<code>%s</code>", esc(p.Header))
	if p.Type != "" {
		fmt.Fprintf(buf, " <span class=\"param-type\">%s</span>", esc(p.Type))
	}
	if p.Required {
		buf.WriteString(" <span class=\"param-required\">required</span>")
	}
	if p.Default != "" {
		fmt.Fprintf(buf, " <span class=\"param-default\">default: <code>%s</code></span>", esc(p.Default))
	}
	buf.WriteString("</p>\n")
	if err := r.body(buf, p.Children, p.Content, opts); err != nil {
		return err
	}
	buf.WriteString("</div>\n")
	return nil
}

// markdown renders prose. ==text== becomes <mark> outside code.
func (r *Renderer) markdown(buf *bytes.Buffer, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	var out bytes.Buffer
	if err := r.md.Convert([]byte(convertHighlights(content)), &out); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	buf.WriteString(convertMarkPlaceholders(out.String()))
	return nil
}

// esc escapes text for element content and attribute values.
func esc(s string) string {
	return xhtml.EscapeString(s)
}

// attr formats ` key="value"`, or nothing when value is empty.
func attr(key, value string) string {
	if value == "" {
		return ""
	}
	return " " + key + `="` + esc(value) + `"`
}
