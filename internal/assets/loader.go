package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader reads styles and templates from a single theme source.
type Loader struct {
	fsys fs.FS
	dir  string // absolute theme directory; empty for the built-in set
}

// NewEmbeddedLoader returns a Loader over the themes compiled into the binary.
func NewEmbeddedLoader() *Loader {
	return &Loader{fsys: builtin}
}

// NewFilesystemLoader returns a Loader over a theme directory.
// The directory must exist and be readable.
func NewFilesystemLoader(dir string) (*Loader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	if _, err := os.ReadDir(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, abs)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	return &Loader{fsys: os.DirFS(abs), dir: abs}, nil
}

// LoadStyle reads styles/{name}.css.
func (l *Loader) LoadStyle(name string) (string, error) {
	return l.read(styleKind, name)
}

// LoadTemplate reads templates/{name}.html.
func (l *Loader) LoadTemplate(name string) (string, error) {
	return l.read(templateKind, name)
}

// StyleNames lists the styles this source provides, sorted.
func (l *Loader) StyleNames() []string {
	matches, err := fs.Glob(l.fsys, styleKind.dir+"/*"+styleKind.ext)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m[len(styleKind.dir)+1:], styleKind.ext))
	}
	sort.Strings(names)
	return names
}

func (l *Loader) read(k kind, name string) (string, error) {
	rel, err := k.path(name)
	if err != nil {
		return "", err
	}
	if err := l.contain(rel); err != nil {
		return "", err
	}

	data, err := fs.ReadFile(l.fsys, rel)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.missing, name)
	case err != nil:
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, rel, err)
	}
	return string(data), nil
}

// contain checks that rel, with symlinks resolved, stays inside the theme
// directory. os.DirFS follows links, so this runs before every read.
func (l *Loader) contain(rel string) error {
	if l.dir == "" {
		return nil
	}
	target, err := filepath.EvalSymlinks(filepath.Join(l.dir, filepath.FromSlash(rel)))
	if err != nil {
		// Missing files are reported by the read itself.
		return nil
	}
	if !strings.HasPrefix(target, l.dir+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrPathTraversal, rel)
	}
	return nil
}
