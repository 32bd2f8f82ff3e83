// Package block defines the typed nodes produced by the compiler.
//
// Each node kind serializes to a JSON object carrying a "node" field with the
// kind name next to the node's own fields.
package block

import (
	"encoding/json"
	"fmt"
)

// Kind names a node type.
type Kind string

// Node kinds.
const (
	KindHeading    Kind = "heading"
	KindCodeBlock  Kind = "codeBlock"
	KindCodeTabs   Kind = "codeTabs"
	KindColumns    Kind = "columns"
	KindCard       Kind = "card"
	KindMessageBox Kind = "messageBox"
	KindParamField Kind = "paramField"
	KindImage      Kind = "image"
	KindMermaid    Kind = "mermaidDiagram"
	KindEmbed      Kind = "embed"
	KindError      Kind = "errorNode"
	KindTabs       Kind = "tabs"
	KindRadarChart Kind = "radarChart"
	KindDetails    Kind = "details"
	KindLink       Kind = "link"
	KindMarkdown   Kind = "markdown"
)

// Node is one compiled block.
type Node interface {
	Kind() Kind
}

// Message box variants.
const (
	VariantMessage = "message"
	VariantAlert   = "alert"
)

// EmbedKind classifies an embed target.
type EmbedKind string

// Embed kinds.
const (
	EmbedGitHub  EmbedKind = "github"
	EmbedTweet   EmbedKind = "tweet"
	EmbedYouTube EmbedKind = "youtube"
	EmbedCard    EmbedKind = "card"
)

// Heading is an ATX or setext heading with its anchor ID.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// CodeBlock is a fenced code block. Filename comes from the fence meta.
type CodeBlock struct {
	Language string `json:"language,omitempty"`
	Filename string `json:"filename,omitempty"`
	IsDiff   bool   `json:"isDiff"`
	Content  string `json:"content"`
}

// CodeTab is one entry of a CodeTabs node.
type CodeTab struct {
	Language string `json:"language"`
	Label    string `json:"label"`
	Code     string `json:"code"`
}

// CodeTabs groups code blocks shown one at a time.
type CodeTabs struct {
	Tabs []CodeTab `json:"tabs"`
}

// Columns holds cards laid out in a grid of Cols columns (1 to 4).
type Columns struct {
	Cols  int    `json:"cols"`
	Cards []Card `json:"cards"`
}

// Card is a linkable panel, alone or inside Columns.
type Card struct {
	Title    string `json:"title,omitempty"`
	Href     string `json:"href,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Content  string `json:"content"`
	CTA      string `json:"cta,omitempty"`
	Arrow    bool   `json:"arrow"`
	Children []Node `json:"children,omitempty"`
}

// MessageBox is a callout; Variant is message or alert.
type MessageBox struct {
	Variant  string `json:"variant"`
	Content  string `json:"content"`
	Children []Node `json:"children,omitempty"`
}

// ParamField documents one API parameter. Header is the display name.
type ParamField struct {
	Header   string `json:"header,omitempty"`
	Type     string `json:"type,omitempty"`
	Required bool   `json:"required"`
	Default  string `json:"default,omitempty"`
	Content  string `json:"content"`
	Children []Node `json:"children,omitempty"`
}

// Image dimensions are zero when unspecified.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Mermaid holds diagram source for client-side rendering.
type Mermaid struct {
	Code string `json:"code"`
}

// Embed is an external resource recognised from a bare URL.
type Embed struct {
	URL      string    `json:"url"`
	Provider EmbedKind `json:"kind"`
}

// Error replaces a block that could not be compiled.
type Error struct {
	Reason string `json:"reason"`
}

// Tab is one entry of a Tabs node.
type Tab struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Children []Node `json:"children,omitempty"`
}

// Tabs is the alternate tab set; untitled tabs are dropped.
type Tabs struct {
	Tabs []Tab `json:"tabs"`
}

// RadarPoint is one axis of a radar chart.
type RadarPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// RadarChart plots labelled values on radial axes.
type RadarChart struct {
	Title  string       `json:"title,omitempty"`
	Width  int          `json:"width,omitempty"`
	Height int          `json:"height,omitempty"`
	Points []RadarPoint `json:"points"`
}

// Details is a collapsible section with a summary title.
type Details struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Children []Node `json:"children,omitempty"`
}

// Link is a paragraph made of a single link.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// Markdown is a run of prose (paragraphs, lists, tables, quotes) kept as
// source text.
type Markdown struct {
	Content string `json:"content"`
}

func (Heading) Kind() Kind    { return KindHeading }
func (CodeBlock) Kind() Kind  { return KindCodeBlock }
func (CodeTabs) Kind() Kind   { return KindCodeTabs }
func (Columns) Kind() Kind    { return KindColumns }
func (Card) Kind() Kind       { return KindCard }
func (MessageBox) Kind() Kind { return KindMessageBox }
func (ParamField) Kind() Kind { return KindParamField }
func (Image) Kind() Kind      { return KindImage }
func (Mermaid) Kind() Kind    { return KindMermaid }
func (Embed) Kind() Kind      { return KindEmbed }
func (Error) Kind() Kind      { return KindError }
func (Tabs) Kind() Kind       { return KindTabs }
func (RadarChart) Kind() Kind { return KindRadarChart }
func (Details) Kind() Kind    { return KindDetails }
func (Link) Kind() Kind       { return KindLink }
func (Markdown) Kind() Kind   { return KindMarkdown }

// Errorf returns an Error node with a formatted reason.
func Errorf(format string, args ...any) Error {
	return Error{Reason: fmt.Sprintf(format, args...)}
}

// marshalTyped encodes v, a plain copy of a node without its MarshalJSON
// method, with a leading "node" field.
func marshalTyped(kind Kind, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(kind)+12)
	out = append(out, `{"node":"`...)
	out = append(out, kind...)
	out = append(out, '"')
	if len(body) > 2 {
		out = append(out, ',')
		out = append(out, body[1:]...)
	} else {
		out = append(out, '}')
	}
	return out, nil
}

func (n Heading) MarshalJSON() ([]byte, error) {
	type plain Heading
	return marshalTyped(n.Kind(), plain(n))
}

func (n CodeBlock) MarshalJSON() ([]byte, error) {
	type plain CodeBlock
	return marshalTyped(n.Kind(), plain(n))
}

func (n CodeTabs) MarshalJSON() ([]byte, error) {
	type plain CodeTabs
	return marshalTyped(n.Kind(), plain(n))
}

func (n Columns) MarshalJSON() ([]byte, error) {
	type plain Columns
	return marshalTyped(n.Kind(), plain(n))
}

func (n Card) MarshalJSON() ([]byte, error) {
	type plain Card
	return marshalTyped(n.Kind(), plain(n))
}

func (n MessageBox) MarshalJSON() ([]byte, error) {
	type plain MessageBox
	return marshalTyped(n.Kind(), plain(n))
}

func (n ParamField) MarshalJSON() ([]byte, error) {
	type plain ParamField
	return marshalTyped(n.Kind(), plain(n))
}

func (n Image) MarshalJSON() ([]byte, error) {
	type plain Image
	return marshalTyped(n.Kind(), plain(n))
}

func (n Mermaid) MarshalJSON() ([]byte, error) {
	type plain Mermaid
	return marshalTyped(n.Kind(), plain(n))
}

func (n Embed) MarshalJSON() ([]byte, error) {
	type plain Embed
	return marshalTyped(n.Kind(), plain(n))
}

func (n Error) MarshalJSON() ([]byte, error) {
	type plain Error
	return marshalTyped(n.Kind(), plain(n))
}

func (n Tabs) MarshalJSON() ([]byte, error) {
	type plain Tabs
	return marshalTyped(n.Kind(), plain(n))
}

func (n RadarChart) MarshalJSON() ([]byte, error) {
	type plain RadarChart
	return marshalTyped(n.Kind(), plain(n))
}

func (n Details) MarshalJSON() ([]byte, error) {
	type plain Details
	return marshalTyped(n.Kind(), plain(n))
}

func (n Link) MarshalJSON() ([]byte, error) {
	type plain Link
	return marshalTyped(n.Kind(), plain(n))
}

func (n Markdown) MarshalJSON() ([]byte, error) {
	type plain Markdown
	return marshalTyped(n.Kind(), plain(n))
}

// Errors returns every Error node in nodes, including nested ones.
func Errors(nodes []Node) []Error {
	var out []Error
	Walk(nodes, func(n Node) {
		if e, ok := n.(Error); ok {
			out = append(out, e)
		}
	})
	return out
}

// Walk calls fn for every node in depth-first order, entering cards, tabs
// and the bodies of container nodes.
func Walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		switch v := n.(type) {
		case Card:
			Walk(v.Children, fn)
		case MessageBox:
			Walk(v.Children, fn)
		case ParamField:
			Walk(v.Children, fn)
		case Details:
			Walk(v.Children, fn)
		case Columns:
			for _, c := range v.Cards {
				fn(c)
				Walk(c.Children, fn)
			}
		case Tabs:
			for _, t := range v.Tabs {
				Walk(t.Children, fn)
			}
		}
	}
}
