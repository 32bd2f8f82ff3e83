package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/alnah/go-mdcanon/internal/fileutil"
	"github.com/alnah/go-mdcanon/internal/normalize"
	"github.com/alnah/go-mdcanon/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig  = "MDCANON_CONFIG"
	EnvDialect = "MDCANON_DIALECT"
	EnvWorkers = "MDCANON_WORKERS"
)

// Output formats for compiled node trees.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Log levels accepted by logLevel.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Field limits.
const (
	MaxWorkers             = 64
	MaxNamespaceLength     = 100
	MaxVersionPrefixLength = 50
	MaxPreferredTabLength  = 100
	MaxURLLength           = 2048 // Browser limit
	MaxTitleLength         = 200
	MaxPathLength          = 4096
)

// Precompiled regex patterns for performance.
var (
	// Single path segment: no slashes, no spaces
	pathSegment = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// Config holds all configuration for the normalize, compile and render commands.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Compile   CompileConfig   `yaml:"compile"`
	Render    RenderConfig    `yaml:"render"`
	LogLevel  string          `yaml:"logLevel"` // debug, info, warn, error (default: info)
	Workers   int             `yaml:"workers"`  // 0 = GOMAXPROCS
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// NormalizeConfig defines ingestion options.
type NormalizeConfig struct {
	Dialect       string `yaml:"dialect"`       // mintlify, zenn, plain
	VersionPrefix string `yaml:"versionPrefix"` // e.g. "v2", stripped from internal links
	Namespace     string `yaml:"namespace"`     // e.g. "laravel", prefixed to root-relative links
}

// CompileConfig defines node tree output options.
type CompileConfig struct {
	Format string `yaml:"format"` // json or yaml (default: json)
}

// RenderConfig defines HTML output options.
type RenderConfig struct {
	PreferredTab string `yaml:"preferredTab"` // Initially visible tab title
	BaseURL      string `yaml:"baseURL"`      // Resolves relative links and images
	Standalone   bool   `yaml:"standalone"`   // Full HTML page instead of a fragment
	Title        string `yaml:"title"`        // Page title when standalone
	Style        string `yaml:"style"`        // Style name or .css path (default: built-in)
	AssetPath    string `yaml:"assetPath"`    // Directory with styles/ and templates/ overrides
}

// Validate checks the whole configuration. Called automatically by
// LoadConfig, but available for callers who construct Config manually.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
		validation.Field(&c.Workers, validation.Min(0), validation.Max(MaxWorkers)),
		validation.Field(&c.Normalize),
		validation.Field(&c.Compile),
		validation.Field(&c.Render),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks the dialect name and link options.
func (c NormalizeConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Dialect, validation.By(validDialect)),
		validation.Field(&c.VersionPrefix,
			validation.Length(0, MaxVersionPrefixLength),
			validation.Match(pathSegment).Error("must be a single path segment"),
		),
		validation.Field(&c.Namespace,
			validation.Length(0, MaxNamespaceLength),
			validation.Match(pathSegment).Error("must be a single path segment"),
		),
	)
}

// Validate checks the output format.
func (c CompileConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Format, validation.In(FormatJSON, FormatYAML)),
	)
}

// Validate checks render options.
func (c RenderConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PreferredTab, validation.Length(0, MaxPreferredTabLength)),
		validation.Field(&c.BaseURL, validation.Length(0, MaxURLLength), is.URL),
		validation.Field(&c.Title, validation.Length(0, MaxTitleLength)),
		validation.Field(&c.Style, validation.Length(0, MaxPathLength)),
		validation.Field(&c.AssetPath, validation.Length(0, MaxPathLength)),
	)
}

func validDialect(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, ok := normalize.ParseDialect(s); !ok {
		return validation.NewError("validation_dialect", "must be one of "+dialectList())
	}
	return nil
}

func dialectList() string {
	names := make([]string, len(normalize.Dialects))
	for i, d := range normalize.Dialects {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

// Level maps LogLevel to a slog level. Empty or unknown values are Info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ApplyEnv overrides fields from MDCANON_DIALECT and MDCANON_WORKERS and
// validates the result. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvDialect)); v != "" {
		c.Normalize.Dialect = v
	}
	if v := strings.TrimSpace(getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not an integer", ErrInvalidConfig, EnvWorkers, v)
		}
		c.Workers = n
	}
	return c.Validate()
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Normalize: NormalizeConfig{Dialect: string(normalize.Mintlify)},
		Compile:   CompileConfig{Format: FormatJSON},
		LogLevel:  LogLevelInfo,
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-mdcanon", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory, then the user config directory.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
