// Package fileutil provides file, path and link classification helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// File permission constants.
const (
	DirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	FilePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// markdownExtensions lists the extensions treated as markdown sources.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdx":      true,
}

// ValidateExtension checks that the extension is safe for use in output names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// IsMarkdownFile returns true for .md, .markdown and .mdx paths.
func IsMarkdownFile(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	// #nosec G306 -- output documents are meant to be readable
	if err := os.WriteFile(path, []byte(content), FilePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "docs" -> false (name)
//   - "./docs.yaml" -> true (relative path)
//   - "/etc/mdcanon.yaml" -> true (absolute)
//   - "C:\config\mdcanon.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsInternalLink returns true for link targets that point inside the site:
// not empty, not a URL with a scheme, not protocol-relative, not a fragment,
// not mailto/tel/data.
func IsInternalLink(target string) bool {
	if target == "" {
		return false
	}
	if strings.HasPrefix(target, "#") || strings.HasPrefix(target, "//") {
		return false
	}
	lower := strings.ToLower(target)
	for _, prefix := range []string{"mailto:", "tel:", "data:", "javascript:"} {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return !hasScheme(target)
}

// hasScheme reports whether target starts with "scheme:" per RFC 3986
// (ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ) ":").
func hasScheme(target string) bool {
	for i := 0; i < len(target); i++ {
		c := target[i]
		switch {
		case c == ':':
			return i > 0
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return false
}
