// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the user config path among searchedPaths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml or set MDCANON_CONFIG"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-mdcanon") {
			hint += "; or create " + p
			break
		}
	}

	return format(hint)
}

// ForUnknownDialect lists the accepted dialect names.
func ForUnknownDialect(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available dialects: " + strings.Join(available, ", "))
}

// ForStyleNotFound lists the built-in styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("built-in styles: " + strings.Join(available, ", ") + "; or pass a .css file path")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForNoInput returns hints when no markdown files were found.
func ForNoInput() string {
	return format("pass a .md file or directory, or set input.defaultDir in the config")
}

// ForCompileErrors returns a hint when compiled output contains error nodes.
func ForCompileErrors(count int) string {
	if count == 0 {
		return ""
	}
	return formatHints([]string{
		"check that --dialect matches the source flavor",
		"use --strict to fail on error nodes",
	})
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
