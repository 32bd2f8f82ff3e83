package mdcanon

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alnah/go-mdcanon/internal/block"
	"github.com/alnah/go-mdcanon/internal/compile"
	"github.com/alnah/go-mdcanon/internal/frontmatter"
	"github.com/alnah/go-mdcanon/internal/normalize"
	"github.com/alnah/go-mdcanon/internal/present"
)

// Pipeline runs normalization, compilation and rendering with fixed
// options. Create with NewPipeline.
type Pipeline struct {
	dialect  Dialect
	passes   []normalize.Pass
	logger   *slog.Logger
	compiler *compile.Compiler
	renderer *present.Renderer
}

// NewPipeline creates a Pipeline. The dialect defaults to Mintlify.
// Returns ErrUnknownDialect, ErrInvalidNamespace or ErrInvalidVersionPrefix
// for bad options.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	cfg := pipelineConfig{dialect: string(Mintlify)}
	for _, opt := range opts {
		opt(&cfg)
	}

	dialect, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Pipeline{
		dialect: dialect,
		passes: normalize.Passes(dialect, normalize.Options{
			VersionPrefix: cfg.versionPrefix,
			Namespace:     cfg.namespace,
		}),
		logger:   logger.With("dialect", string(dialect)),
		compiler: compile.New(),
		renderer: present.New(),
	}, nil
}

// Dialect returns the source dialect.
func (p *Pipeline) Dialect() Dialect {
	return p.dialect
}

// Passes returns the names of the normalization passes in order.
func (p *Pipeline) Passes() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name
	}
	return names
}

// Normalize converts source markdown to the canonical directive dialect.
// A frontmatter header is kept byte for byte, with line endings normalized.
// Normalize never fails and Normalize(Normalize(x)) == Normalize(x).
func (p *Pipeline) Normalize(source string) string {
	header, body := splitHeader(normalize.NormalizeLineEndings(source))
	for _, pass := range p.passes {
		out := pass.Apply(body)
		if out != body {
			p.logger.Debug("normalize pass", "pass", pass.Name, "bytesIn", len(body), "bytesOut", len(out))
		}
		body = out
	}
	return header + body
}

// Compile returns the block nodes of canonical markdown. A frontmatter
// header is skipped. Compile never fails: broken directives become
// ErrorNode values in place.
func (p *Pipeline) Compile(markdown string) []Node {
	_, body := splitHeader(normalize.NormalizeLineEndings(markdown))
	nodes := p.compiler.Compile(body)
	if errs := block.Errors(nodes); len(errs) > 0 {
		p.logger.Debug("compile produced error nodes", "count", len(errs), "first", errs[0].Reason)
	}
	return nodes
}

// Render renders nodes as HTML.
func (p *Pipeline) Render(ctx context.Context, nodes []Node, opts RenderOptions) (string, error) {
	html, err := p.renderer.Render(ctx, nodes, present.Options{
		PreferredTab: opts.PreferredTab,
		BaseURL:      opts.BaseURL,
		Standalone:   opts.Standalone,
		Title:        opts.Title,
		Style:        opts.Style,
		Template:     opts.Template,
	})
	if err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}
	return html, nil
}

// Stylesheet returns the CSS for rendered fragments: component rules and
// the code highlighting classes.
func (p *Pipeline) Stylesheet() (string, error) {
	return p.renderer.Stylesheet()
}

// Result holds every stage of a Convert call.
type Result struct {
	Document   SourceDocument
	Normalized string
	Nodes      []Node
	HTML       string
}

// Convert runs all stages on source. A standalone page without a title
// takes the frontmatter title. Recovers from internal panics to prevent
// crashes from propagating to callers.
func (p *Pipeline) Convert(ctx context.Context, source string, opts RenderOptions) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptyMarkdown
	}

	doc := ParseSource(source, StatusPublished)
	normalized := p.Normalize(source)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	nodes := p.Compile(normalized)
	if opts.Standalone && opts.Title == "" {
		opts.Title = doc.Title
	}

	html, err := p.Render(ctx, nodes, opts)
	if err != nil {
		return nil, err
	}

	return &Result{
		Document:   doc,
		Normalized: normalized,
		Nodes:      nodes,
		HTML:       html,
	}, nil
}

// splitHeader separates a complete frontmatter block from the body.
func splitHeader(text string) (header, body string) {
	doc := frontmatter.Parse(text)
	if !doc.HasHeader {
		return "", text
	}
	return text[:len(text)-len(doc.Body)], doc.Body
}
