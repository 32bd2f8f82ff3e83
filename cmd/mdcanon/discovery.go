package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdcanon/internal/config"
	"github.com/alnah/go-mdcanon/internal/fileutil"
)

// stdioPath selects stdin as input or stdout as output.
const stdioPath = "-"

// canonicalSuffix marks normalize outputs written next to their sources.
const canonicalSuffix = ".canonical.md"

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoMarkdownFiles    = errors.New("no markdown files found")
	ErrInvalidExtension   = errors.New("file must have .md, .markdown or .mdx extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidFlags       = errors.New("invalid flags")
)

// FileToProcess represents a single file to process.
type FileToProcess struct {
	InputPath  string
	OutputPath string
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// outputExtension returns the extension of files written by cmd.
// Normalize outputs placed next to their sources get canonicalSuffix.
func outputExtension(cmd command, format string, beside bool) string {
	switch cmd {
	case cmdCompile:
		if format == config.FormatYAML {
			return ".yaml"
		}
		return ".json"
	case cmdRender:
		return ".html"
	default:
		if beside {
			return canonicalSuffix
		}
		return ".md"
	}
}

// discoverFiles finds all markdown files under inputPath. A single file
// input may name an output file directly; a directory input mirrors its
// tree under outputDir.
func discoverFiles(cmd command, format, inputPath, outputDir string) ([]FileToProcess, error) {
	ext := outputExtension(cmd, format, outputDir == "")

	if inputPath == stdioPath {
		out := stdioPath
		if outputDir != "" {
			out = outputDir
		}
		return []FileToProcess{{InputPath: stdioPath, OutputPath: out}}, nil
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", ext)
		return []FileToProcess{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToProcess
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if !fileutil.IsMarkdownFile(path) || strings.HasSuffix(path, canonicalSuffix) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, ext)
		files = append(files, FileToProcess{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for a markdown file.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+ext)
	}

	if outputDir == stdioPath {
		return stdioPath
	}

	if baseInputDir == "" && strings.HasSuffix(outputDir, ext) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+ext)
		}
	}

	return filepath.Join(outputDir, base+ext)
}

// validateMarkdownExtension checks that the file has a markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdownFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
