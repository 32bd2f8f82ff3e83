package present

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/alnah/go-mdcanon/internal/assets"
	"github.com/alnah/go-mdcanon/internal/fence"
)

// Highlight placeholders use Private Use Area characters that goldmark
// passes through unchanged, so raw HTML never has to be enabled.
const (
	markStart = "\uE002" // U+E002: Private Use Area
	markEnd   = "\uE003" // U+E003: Private Use Area
)

// Precompiled regex patterns for performance.
var (
	// Highlight syntax ==text==
	highlightPattern = regexp.MustCompile(`==([^=\n]+?)==`)
)

// defaultTitle is used when a standalone page has no title.
const defaultTitle = "Document"

// defaultPage is the embedded standalone page template.
var defaultPage = template.Must(template.New(assets.PageTemplateName).Parse(mustLoad(assets.LoadTemplate(assets.PageTemplateName))))

// componentCSS styles the block markup. Code colors come from chroma.
var componentCSS = mustLoad(assets.LoadStyle(assets.DefaultStyleName))

func mustLoad(content string, err error) string {
	if err != nil {
		panic(err)
	}
	return content
}

// pageData is the data of a page template: .Title and .Content.
type pageData struct {
	Title   string
	Content template.HTML
}

// Page wraps an HTML fragment in a standalone document using the embedded
// page template.
func Page(title, fragment string) string {
	var buf strings.Builder
	// Executing the embedded template into a builder cannot fail.
	_ = defaultPage.Execute(&buf, newPageData(title, fragment))
	return buf.String()
}

// PageWithTemplate wraps an HTML fragment using a custom html/template
// source. Empty source uses the embedded template.
func PageWithTemplate(source, title, fragment string) (string, error) {
	if source == "" {
		return Page(title, fragment), nil
	}
	tmpl, err := template.New("custom").Parse(source)
	if err != nil {
		return "", fmt.Errorf("%w: parsing page template: %v", ErrRender, err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, newPageData(title, fragment)); err != nil {
		return "", fmt.Errorf("%w: executing page template: %v", ErrRender, err)
	}
	return buf.String(), nil
}

func newPageData(title, fragment string) pageData {
	if strings.TrimSpace(title) == "" {
		title = defaultTitle
	}
	// #nosec G203 -- fragment is renderer output with escaped text
	return pageData{Title: title, Content: template.HTML(fragment)}
}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
func InjectCSS(htmlContent, css string) string {
	if css == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(css) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + "\n" + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// convertHighlights turns ==text== into placeholders outside fenced code.
func convertHighlights(content string) string {
	if !strings.Contains(content, "==") {
		return content
	}
	return fence.TransformOutsideFences(content, func(s string) string {
		return highlightPattern.ReplaceAllString(s, markStart+"$1"+markEnd)
	})
}

// convertMarkPlaceholders turns placeholders into <mark> tags after goldmark.
func convertMarkPlaceholders(content string) string {
	return strings.NewReplacer(markStart, "<mark>", markEnd, "</mark>").Replace(content)
}
