package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-mdcanon/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "valid md", extension: "md", wantErr: nil},
		{name: "valid json", extension: "json", wantErr: nil},
		{name: "empty", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "slash", extension: "a/b", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: `a\b`, wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "md\x00", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

func TestIsMarkdownFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"doc.md", true},
		{"doc.MD", true},
		{"doc.markdown", true},
		{"page.mdx", true},
		{"doc.txt", false},
		{"README", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := fileutil.IsMarkdownFile(tt.path); got != tt.want {
				t.Errorf("IsMarkdownFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsInternalLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target string
		want   bool
	}{
		{"/docs/intro", true},
		{"v2/docs", true},
		{"./sibling", true},
		{"../up", true},
		{"page?x=1#frag", true},
		{"", false},
		{"#anchor", false},
		{"https://example.com", false},
		{"http://example.com", false},
		{"//cdn.example.com/x", false},
		{"mailto:a@b.c", false},
		{"MAILTO:a@b.c", false},
		{"tel:+123", false},
		{"ftp://host/file", false},
		{"custom+scheme:thing", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()
			if got := fileutil.IsInternalLink(tt.target); got != tt.want {
				t.Errorf("IsInternalLink(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	if fileutil.IsFilePath("mdcanon") {
		t.Error("IsFilePath(name) = true")
	}
	if !fileutil.IsFilePath("./mdcanon.yaml") {
		t.Error("IsFilePath(relative) = false")
	}
	if !fileutil.IsURL("https://x.y") || fileutil.IsURL("/x") {
		t.Error("IsURL mismatch")
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.md")

	if err := fileutil.WriteFile(path, "content"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("content = %q", data)
	}
	if !fileutil.FileExists(path) {
		t.Error("FileExists() = false after write")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true")
	}
}
