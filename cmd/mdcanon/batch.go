package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/alnah/go-mdcanon"
	"github.com/alnah/go-mdcanon/internal/config"
	"github.com/alnah/go-mdcanon/internal/fileutil"
	"github.com/alnah/go-mdcanon/internal/yamlutil"
)

// Sentinel errors for batch operations.
var (
	ErrReadInput   = errors.New("failed to read markdown input")
	ErrWriteOutput = errors.New("failed to write output")
	ErrErrorNodes  = errors.New("output contains error nodes")
)

// Processor is the part of the pipeline the batch runner needs.
type Processor interface {
	Normalize(source string) string
	Compile(markdown string) []mdcanon.Node
	Convert(ctx context.Context, source string, opts mdcanon.RenderOptions) (*mdcanon.Result, error)
}

// Compile-time interface implementation check.
var _ Processor = (*mdcanon.Pipeline)(nil)

// jobParams groups parameters shared by every file of a batch.
type jobParams struct {
	cmd    command
	format string
	render mdcanon.RenderOptions
	strict bool
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
}

// FileResult holds the outcome of a single file.
type FileResult struct {
	InputPath  string
	OutputPath string
	ErrorNodes int
	Err        error
	Duration   time.Duration
}

// processBatch runs files through proc on a fixed number of workers.
// Once ctx is canceled, remaining files fail with the context error.
func processBatch(ctx context.Context, proc Processor, workers int, files []FileToProcess, params *jobParams) []FileResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]FileResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = FileResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = processFile(ctx, proc, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// processFile runs one file through the command and writes its output.
func processFile(ctx context.Context, proc Processor, f FileToProcess, params *jobParams) FileResult {
	start := time.Now()
	result := FileResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) FileResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	source, err := readInput(f.InputPath, params.stdin)
	if err != nil {
		return fail(err)
	}

	var output string
	var nodes []mdcanon.Node
	switch params.cmd {
	case cmdNormalize:
		output = proc.Normalize(source)
	case cmdCompile:
		nodes = proc.Compile(proc.Normalize(source))
		output, err = encodeNodes(nodes, params.format)
	case cmdRender:
		var res *mdcanon.Result
		res, err = proc.Convert(ctx, source, params.render)
		if err == nil {
			nodes = res.Nodes
			output = res.HTML
		}
	}
	if err != nil {
		return fail(err)
	}

	if errs := mdcanon.Errors(nodes); len(errs) > 0 {
		result.ErrorNodes = len(errs)
		if params.strict {
			return fail(fmt.Errorf("%w: %d, first: %s", ErrErrorNodes, len(errs), errs[0].Reason))
		}
		params.logger.Warn("error nodes in output", "file", f.InputPath, "count", len(errs), "first", errs[0].Reason)
	}

	if err := writeOutput(f.OutputPath, output, params.stdout); err != nil {
		return fail(err)
	}

	result.Duration = time.Since(start)
	params.logger.Debug("processed", "file", f.InputPath, "output", f.OutputPath, "duration", result.Duration)
	return result
}

// encodeNodes marshals a node tree as indented JSON, or YAML converted
// from that JSON so both formats share the "node" envelope.
func encodeNodes(nodes []mdcanon.Node, format string) (string, error) {
	if nodes == nil {
		nodes = []mdcanon.Node{}
	}
	data, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding nodes: %w", err)
	}
	if format == config.FormatYAML {
		data, err = yamlutil.FromJSON(data)
		if err != nil {
			return "", fmt.Errorf("encoding nodes: %w", err)
		}
		return string(data), nil
	}
	return string(data) + "\n", nil
}

// readInput reads a source file, or stdin for "-".
func readInput(path string, stdin io.Reader) (string, error) {
	var content []byte
	var err error
	if path == stdioPath {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(path) // #nosec G304 -- discovered path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(content), nil
}

// writeOutput writes content to path, or stdout for "-".
func writeOutput(path, content string, stdout io.Writer) error {
	if path == stdioPath {
		if _, err := io.WriteString(stdout, content); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := fileutil.WriteFile(path, content); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// resolveWorkers determines the worker count.
// Priority: flag > config > GOMAXPROCS (adjusted by automaxprocs for containers).
func resolveWorkers(flagWorkers, configWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if configWorkers > 0 {
		return configWorkers
	}

	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	if n > config.MaxWorkers {
		return config.MaxWorkers
	}
	return n
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded  int
	Failed     int
	ErrorNodes int
}

// countResults tallies succeeded and failed files.
func countResults(results []FileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		summary.ErrorNodes += r.ErrorNodes
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs per-file lines and a summary for batches.
// Stdout outputs print nothing since stdout carries the document.
func printResults(results []FileResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			}
			continue
		}

		if quiet || r.OutputPath == stdioPath {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stderr, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stderr, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stderr, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary
}
