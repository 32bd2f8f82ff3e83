package assets

import (
	"embed"
	"errors"
	"fmt"
	"regexp"
)

const (
	// DefaultStyleName is the built-in component style.
	DefaultStyleName = "default"

	// PageTemplateName is the layout of standalone pages.
	PageTemplateName = "page"
)

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid asset directory")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("asset path escapes its directory")
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// kind locates one family of assets inside a theme.
type kind struct {
	dir     string
	ext     string
	missing error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", missing: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", missing: ErrTemplateNotFound}
)

// path returns the slash-separated location of name, relative to the theme root.
func (k kind) path(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	return k.dir + "/" + name + k.ext, nil
}

var assetName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName rejects names that are empty or could select another
// file: separators, dots and anything outside [A-Za-z0-9_-].
func ValidateAssetName(name string) error {
	if !assetName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

var builtinLoader = NewEmbeddedLoader()

// LoadStyle returns a built-in stylesheet.
func LoadStyle(name string) (string, error) {
	return builtinLoader.LoadStyle(name)
}

// LoadTemplate returns a built-in page template.
func LoadTemplate(name string) (string, error) {
	return builtinLoader.LoadTemplate(name)
}

// StyleNames lists the built-in styles, sorted.
func StyleNames() []string {
	return builtinLoader.StyleNames()
}
