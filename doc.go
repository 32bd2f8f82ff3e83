// Package mdcanon turns documentation markdown written in several source
// dialects into one canonical directive dialect, compiles it into typed
// block nodes and renders those nodes as HTML.
//
// # Quick Start
//
// Create a pipeline for a source dialect, normalize once at import time and
// compile or render whenever the stored text is displayed:
//
//	p, err := mdcanon.NewPipeline(
//	    mdcanon.WithDialect(mdcanon.Mintlify),
//	    mdcanon.WithVersionPrefix("v2"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	canonical := p.Normalize(source)      // store this
//	nodes := p.Compile(canonical)         // typed block tree
//	html, err := p.Render(ctx, nodes, mdcanon.RenderOptions{})
//
// # Stages
//
//  1. Normalization: pure, idempotent text passes that rewrite component
//     tags such as <Tip>, <Tabs>, <Steps>, <Columns> and <Card> into
//     `:::name{attrs}` directive blocks. Code fences are never touched.
//  2. Compilation: the directive tree and the GFM prose between directives
//     become block nodes. Compilation never fails: a broken directive
//     becomes an ErrorNode in place.
//  3. Rendering: nodes map to HTML with chroma-highlighted code.
//
// # Frontmatter
//
// ParseSource splits a leading `---` header of `key: value` lines from the
// body. The header is a flat list of pairs, not YAML. Normalize leaves the
// header as is and Compile skips it.
//
// # Concurrency
//
// A Pipeline is immutable after NewPipeline and safe for concurrent use.
package mdcanon
