package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdcanon/internal/config"
)

// command names a processing command.
type command string

// Processing commands.
const (
	cmdNormalize command = "normalize"
	cmdCompile   command = "compile"
	cmdRender    command = "render"
)

// parseCommand maps a command-line word to a processing command.
func parseCommand(s string) (command, bool) {
	switch c := command(s); c {
	case cmdNormalize, cmdCompile, cmdRender:
		return c, true
	}
	return "", false
}

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// ingestFlags holds the normalization flags every command accepts.
type ingestFlags struct {
	dialect       string
	versionPrefix string
	namespace     string
}

// renderFlags holds HTML output flags.
type renderFlags struct {
	preferredTab string
	baseURL      string
	title        string
	style        string
	assetPath    string
	standalone   bool
}

// commandFlags holds all flags for one processing command.
type commandFlags struct {
	common  commonFlags
	ingest  ingestFlags
	render  renderFlags
	output  string
	workers int
	format  string
	strict  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and pass activity")
}

// addIngestFlags adds normalization flags to a FlagSet.
func addIngestFlags(fs *flag.FlagSet, f *ingestFlags) {
	fs.StringVarP(&f.dialect, "dialect", "d", "", "source dialect: mintlify, zenn, plain")
	fs.StringVar(&f.versionPrefix, "version-prefix", "", "version segment stripped from internal links (default: any v<N>)")
	fs.StringVar(&f.namespace, "namespace", "", "prefix for root-relative internal links")
}

// addRenderFlags adds HTML output flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.preferredTab, "preferred-tab", "", "tab title or language shown first")
	fs.StringVar(&f.baseURL, "base-url", "", "absolute URL for relative links and images")
	fs.StringVar(&f.title, "title", "", "page title with --standalone (default: frontmatter title)")
	fs.BoolVar(&f.standalone, "standalone", false, "write full HTML pages with the stylesheet")
	fs.StringVar(&f.style, "style", "", "style name or .css file for standalone pages")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with styles/ and templates/ overrides")
}

// newCommandFlagSet registers the flags of cmd into f.
func newCommandFlagSet(cmd command, f *commandFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(string(cmd), flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	addCommonFlags(fs, &f.common)
	addIngestFlags(fs, &f.ingest)

	switch cmd {
	case cmdCompile:
		fs.StringVarP(&f.format, "format", "f", "", "node tree format: json, yaml")
		fs.BoolVar(&f.strict, "strict", false, "fail when the output contains error nodes")
	case cmdRender:
		addRenderFlags(fs, &f.render)
		fs.BoolVar(&f.strict, "strict", false, "fail when the output contains error nodes")
	}
	return fs
}

// parseCommandFlags parses cmd flags and returns positional args.
// Parse errors wrap ErrInvalidFlags; -h returns flag.ErrHelp after printing usage to w.
func parseCommandFlags(cmd command, args []string, w io.Writer) (*commandFlags, []string, error) {
	f := &commandFlags{}
	fs := newCommandFlagSet(cmd, f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printCommandUsage(w, cmd) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}

	if err := validateWorkers(f.workers); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(f *commandFlags, cfg *config.Config) {
	if f.ingest.dialect != "" {
		cfg.Normalize.Dialect = f.ingest.dialect
	}
	if f.ingest.versionPrefix != "" {
		cfg.Normalize.VersionPrefix = f.ingest.versionPrefix
	}
	if f.ingest.namespace != "" {
		cfg.Normalize.Namespace = f.ingest.namespace
	}
	if f.format != "" {
		cfg.Compile.Format = f.format
	}
	if f.render.preferredTab != "" {
		cfg.Render.PreferredTab = f.render.preferredTab
	}
	if f.render.baseURL != "" {
		cfg.Render.BaseURL = f.render.baseURL
	}
	if f.render.title != "" {
		cfg.Render.Title = f.render.title
	}
	if f.render.style != "" {
		cfg.Render.Style = f.render.style
	}
	if f.render.assetPath != "" {
		cfg.Render.AssetPath = f.render.assetPath
	}
	if f.render.standalone {
		cfg.Render.Standalone = true
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
}
