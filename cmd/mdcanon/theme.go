package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-mdcanon/internal/assets"
	"github.com/alnah/go-mdcanon/internal/config"
	"github.com/alnah/go-mdcanon/internal/fileutil"
	"github.com/alnah/go-mdcanon/internal/hints"
)

// ErrReadStyle is returned when a --style file cannot be read.
var ErrReadStyle = errors.New("failed to read style file")

// resolveTheme returns the component CSS and page template for standalone
// pages. Empty values select the built-in theme.
// Priority: style file path > style name (asset path first, then built-in).
func resolveTheme(cfg config.RenderConfig) (style, page string, err error) {
	if cfg.Style == "" && cfg.AssetPath == "" {
		return "", "", nil
	}

	resolver, err := assets.NewAssetResolver(cfg.AssetPath)
	if err != nil {
		return "", "", fmt.Errorf("loading assets: %w", err)
	}

	switch {
	case cfg.Style == "":
	case fileutil.IsFilePath(cfg.Style) || strings.HasSuffix(cfg.Style, ".css"):
		content, err := os.ReadFile(cfg.Style) // #nosec G304 -- user-provided path
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrReadStyle, err)
		}
		style = string(content)
	default:
		style, err = resolver.LoadStyle(cfg.Style)
		if err != nil {
			if errors.Is(err, assets.ErrStyleNotFound) {
				return "", "", fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.StyleNames()))
			}
			return "", "", err
		}
	}

	if resolver.HasCustomLoader() {
		page, err = resolver.LoadTemplate(assets.PageTemplateName)
		if err != nil {
			return "", "", err
		}
	}
	return style, page, nil
}
