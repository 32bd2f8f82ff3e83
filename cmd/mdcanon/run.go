package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-mdcanon"
	"github.com/alnah/go-mdcanon/internal/config"
	"github.com/alnah/go-mdcanon/internal/hints"
)

// runCommand loads configuration, discovers files and processes them.
func runCommand(ctx context.Context, cmd command, args []string, env *Environment) error {
	flags, positional, err := parseCommandFlags(cmd, args, env.Stdout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env.Getenv)
	if err != nil {
		return err
	}

	// Env overrides the file, flags override both.
	if err := cfg.ApplyEnv(env.Getenv); err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, cfg.Level(), flags.common.quiet, flags.common.verbose)
	if env.MaxProcs != nil {
		// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
		// in which case Go runtime defaults apply.
		undo, _ := env.MaxProcs(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		})
		if undo != nil {
			defer undo()
		}
	}

	pipeline, err := mdcanon.NewPipeline(
		mdcanon.WithDialectName(cfg.Normalize.Dialect),
		mdcanon.WithVersionPrefix(cfg.Normalize.VersionPrefix),
		mdcanon.WithNamespace(cfg.Normalize.Namespace),
		mdcanon.WithLogger(logger),
	)
	if err != nil {
		if errors.Is(err, mdcanon.ErrUnknownDialect) {
			return fmt.Errorf("%w%s", err, hints.ForUnknownDialect(mdcanon.Dialects()))
		}
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForNoInput())
	}

	files, err := discoverFiles(cmd, cfg.Compile.Format, inputPath, resolveOutputDir(flags.output, cfg))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s%s", ErrNoMarkdownFiles, inputPath, hints.ForNoInput())
	}

	var style, page string
	if cmd == cmdRender && cfg.Render.Standalone {
		if style, page, err = resolveTheme(cfg.Render); err != nil {
			return err
		}
	}

	workers := resolveWorkers(flags.workers, cfg.Workers)
	logger.Debug("starting batch", "command", string(cmd), "files", len(files), "workers", workers)

	results := processBatch(ctx, pipeline, workers, files, &jobParams{
		cmd:    cmd,
		format: cfg.Compile.Format,
		render: mdcanon.RenderOptions{
			PreferredTab: cfg.Render.PreferredTab,
			BaseURL:      cfg.Render.BaseURL,
			Standalone:   cfg.Render.Standalone,
			Title:        cfg.Render.Title,
			Style:        style,
			Template:     page,
		},
		strict: flags.strict,
		stdin:  env.Stdin,
		stdout: env.Stdout,
		logger: logger,
	})

	summary := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if summary.ErrorNodes > 0 && !flags.strict && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "%d error node(s) in output%s\n", summary.ErrorNodes, hints.ForCompileErrors(summary.ErrorNodes))
	}

	if len(results) == 1 && results[0].Err != nil {
		return withHints(results[0].Err)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.Failed, len(results))
	}
	return nil
}

// loadConfig loads the named config, falling back to MDCANON_CONFIG, then
// to defaults when neither is set.
func loadConfig(name string, getenv func(string) string) (*config.Config, error) {
	if name == "" {
		name = getenv(config.EnvConfig)
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// withHints appends the hint matching err, if any.
func withHints(err error) error {
	if errors.Is(err, ErrWriteOutput) {
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	}
	return err
}
