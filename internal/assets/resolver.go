package assets

import "errors"

// AssetResolver looks assets up in a theme directory first and in the
// built-in set second. Only not-found errors move on to the next layer.
type AssetResolver struct {
	layers []*Loader
}

// NewAssetResolver stacks the theme directory dir over the built-in themes.
// An empty dir resolves built-in assets only.
func NewAssetResolver(dir string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if dir != "" {
		custom, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.layers = append(r.layers, custom)
	}
	r.layers = append(r.layers, builtinLoader)
	return r, nil
}

// LoadStyle resolves a stylesheet by name.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.resolve(styleKind, name)
}

// LoadTemplate resolves a page template by name.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.resolve(templateKind, name)
}

// HasCustomLoader reports whether a theme directory is layered in.
func (r *AssetResolver) HasCustomLoader() bool {
	return len(r.layers) > 1
}

func (r *AssetResolver) resolve(k kind, name string) (string, error) {
	var err error
	for _, l := range r.layers {
		var content string
		content, err = l.read(k, name)
		if !errors.Is(err, k.missing) {
			return content, err
		}
	}
	return "", err
}
