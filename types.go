package mdcanon

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/alnah/go-mdcanon/internal/block"
	"github.com/alnah/go-mdcanon/internal/frontmatter"
	"github.com/alnah/go-mdcanon/internal/normalize"
)

// Dialect names a source markdown flavor.
type Dialect = normalize.Dialect

// Supported dialects.
const (
	Mintlify = normalize.Mintlify
	Zenn     = normalize.Zenn
	Plain    = normalize.Plain
)

// Dialects lists the supported dialect names in display order.
func Dialects() []string {
	names := make([]string, len(normalize.Dialects))
	for i, d := range normalize.Dialects {
		names[i] = string(d)
	}
	return names
}

// ParseDialect maps a case-insensitive name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	d, ok := normalize.ParseDialect(name)
	if !ok {
		return "", fmt.Errorf("%w: %q (must be one of %s)", ErrUnknownDialect, name, strings.Join(Dialects(), ", "))
	}
	return d, nil
}

// Document statuses.
const (
	StatusDraft     = frontmatter.StatusDraft
	StatusPrivate   = frontmatter.StatusPrivate
	StatusPublished = frontmatter.StatusPublished
)

// Block nodes produced by Compile. Every node marshals to JSON with a
// leading "node" field naming its kind.
type (
	Node       = block.Node
	NodeKind   = block.Kind
	Heading    = block.Heading
	CodeBlock  = block.CodeBlock
	CodeTab    = block.CodeTab
	CodeTabs   = block.CodeTabs
	Columns    = block.Columns
	Card       = block.Card
	MessageBox = block.MessageBox
	ParamField = block.ParamField
	Image      = block.Image
	Mermaid    = block.Mermaid
	Embed      = block.Embed
	EmbedKind  = block.EmbedKind
	ErrorNode  = block.Error
	Tab        = block.Tab
	Tabs       = block.Tabs
	RadarPoint = block.RadarPoint
	RadarChart = block.RadarChart
	Details    = block.Details
	Link       = block.Link
	Markdown   = block.Markdown
)

// Errors returns every ErrorNode in nodes, including nested ones, in
// document order.
func Errors(nodes []Node) []ErrorNode {
	return block.Errors(nodes)
}

// Field is one frontmatter key/value pair in source order.
type Field = frontmatter.Field

// SourceDocument is a source text split into its frontmatter and body.
type SourceDocument struct {
	Frontmatter    []Field
	Title          string
	Slug           string
	Type           string
	Status         string // draft, private or published
	Body           string
	HasFrontmatter bool
}

// ParseSource reads the frontmatter header of text. A missing or invalid
// status becomes defaultStatus.
func ParseSource(text, defaultStatus string) SourceDocument {
	doc := frontmatter.Parse(normalize.NormalizeLineEndings(text))
	return SourceDocument{
		Frontmatter:    doc.Fields,
		Title:          doc.Title(),
		Slug:           doc.Slug(),
		Type:           doc.Type(),
		Status:         doc.Status(defaultStatus),
		Body:           doc.Body,
		HasFrontmatter: doc.HasHeader,
	}
}

// RenderOptions controls HTML rendering.
type RenderOptions struct {
	PreferredTab string // Initially visible tab title or label
	BaseURL      string // Resolves relative links and images
	Standalone   bool   // Full HTML5 page with stylesheet
	Title        string // Page title when Standalone
	Style        string // Component CSS replacing the built-in theme when Standalone
	Template     string // html/template page source with .Title and .Content
}

// Option configures a Pipeline.
type Option func(*pipelineConfig)

// pipelineConfig holds the options before validation.
type pipelineConfig struct {
	dialect       string
	versionPrefix string
	namespace     string
	logger        *slog.Logger
}

// Precompiled regex patterns for performance.
var (
	// Single path segment: no slashes, no spaces
	pathSegment = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// WithDialect sets the source dialect (default: Mintlify).
func WithDialect(d Dialect) Option {
	return func(c *pipelineConfig) {
		c.dialect = string(d)
	}
}

// WithDialectName sets the source dialect by name, case-insensitive.
// Unknown names make NewPipeline fail with ErrUnknownDialect.
func WithDialectName(name string) Option {
	return func(c *pipelineConfig) {
		c.dialect = name
	}
}

// WithVersionPrefix strips a version segment such as "v2" from internal
// links and card hrefs. Without it, any leading "v<digits>" segment is
// stripped.
func WithVersionPrefix(prefix string) Option {
	return func(c *pipelineConfig) {
		c.versionPrefix = strings.Trim(prefix, "/")
	}
}

// WithNamespace prefixes root-relative internal links, e.g. "laravel"
// turns /docs/x into /laravel/docs/x.
func WithNamespace(namespace string) Option {
	return func(c *pipelineConfig) {
		c.namespace = strings.Trim(namespace, "/")
	}
}

// WithLogger sets the logger for pass-level debug output. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *pipelineConfig) {
		c.logger = l
	}
}

func (c *pipelineConfig) validate() (Dialect, error) {
	d, err := ParseDialect(c.dialect)
	if err != nil {
		return "", err
	}
	if c.versionPrefix != "" && !pathSegment.MatchString(c.versionPrefix) {
		return "", fmt.Errorf("%w: %q (must be a single path segment)", ErrInvalidVersionPrefix, c.versionPrefix)
	}
	if c.namespace != "" && !pathSegment.MatchString(c.namespace) {
		return "", fmt.Errorf("%w: %q (must be a single path segment)", ErrInvalidNamespace, c.namespace)
	}
	return d, nil
}
