package main

// Notes:
// - runMain: we test exit codes and outputs for each command against temp
//   directories. Signal delivery is not tested (see signal_test.go).
// - maxprocs is skipped by leaving Environment.MaxProcs nil.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// testEnv returns an environment with buffered output, the given stdin and
// env vars.
func testEnv(stdin string, vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Now:    time.Now,
		Stdin:  strings.NewReader(stdin),
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(key string) string { return vars[key] },
	}, stdout, stderr
}

// writeSource writes a markdown file under dir and returns its path.
func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// readOutput reads a generated file.
func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

const tipSource = "<Tip>\nRun the migrations first.\n</Tip>\n"

// ---------------------------------------------------------------------------
// TestRunMain_Dispatch - Commands, help and version
// ---------------------------------------------------------------------------

func TestRunMain_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"mdcanon"}, ExitUsage, "", "Usage: mdcanon"},
		{"unknown command", []string{"mdcanon", "convert"}, ExitUsage, "", "Unknown command: convert"},
		{"version", []string{"mdcanon", "version"}, ExitSuccess, "mdcanon dev", ""},
		{"version flag", []string{"mdcanon", "--version"}, ExitSuccess, "mdcanon dev", ""},
		{"help", []string{"mdcanon", "help"}, ExitSuccess, "Commands:", ""},
		{"help command", []string{"mdcanon", "help", "render"}, ExitSuccess, "--preferred-tab", ""},
		{"help unknown", []string{"mdcanon", "help", "nope"}, ExitUsage, "", "Unknown command: nope"},
		{"command help flag", []string{"mdcanon", "compile", "--help"}, ExitSuccess, "--format", ""},
		{"bad flag", []string{"mdcanon", "normalize", "--nope"}, ExitUsage, "", "invalid flags"},
		{"bad workers", []string{"mdcanon", "normalize", "-w", "-1", "x.md"}, ExitUsage, "", "invalid worker count"},
		{"no input", []string{"mdcanon", "normalize"}, ExitIO, "", "hint:"},
		{"missing file", []string{"mdcanon", "normalize", "does-not-exist.md"}, ExitIO, "", "does-not-exist.md"},
		{"unknown dialect", []string{"mdcanon", "normalize", "-d", "docusaurus", "-"}, ExitUsage, "", "mintlify, zenn, plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv("", nil)
			got := runMain(tt.args, env)
			if got != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d (stderr: %s)", tt.args, got, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want to contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Stdio - stdin to stdout for each command
// ---------------------------------------------------------------------------

func TestRunMain_Stdio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  []string
	}{
		{
			name:  "normalize",
			args:  []string{"mdcanon", "normalize", "-"},
			stdin: tipSource,
			want:  []string{":::message\nRun the migrations first.\n:::\n"},
		},
		{
			name:  "compile json",
			args:  []string{"mdcanon", "compile", "-"},
			stdin: "## Install\n",
			want:  []string{`"node": "heading"`, `"id": "install"`},
		},
		{
			name:  "compile yaml",
			args:  []string{"mdcanon", "compile", "--format", "yaml", "-"},
			stdin: "## Install\n",
			want:  []string{"node: heading", "id: install"},
		},
		{
			name:  "render fragment",
			args:  []string{"mdcanon", "render", "-"},
			stdin: tipSource,
			want:  []string{`<aside class="message"`, "Run the migrations first."},
		},
		{
			name:  "render standalone takes frontmatter title",
			args:  []string{"mdcanon", "render", "--standalone", "-"},
			stdin: "---\ntitle: Upgrading\n---\n## Steps\n",
			want:  []string{"<!DOCTYPE html>", "<title>Upgrading</title>", `<h2 id="steps">`},
		},
		{
			name:  "links rewritten",
			args:  []string{"mdcanon", "normalize", "-d", "zenn", "--version-prefix", "v2", "--namespace", "laravel", "-"},
			stdin: "[Routing](/v2/routing)\n",
			want:  []string{"[Routing](/laravel/routing)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(tt.stdin, nil)
			if code := runMain(tt.args, env); code != ExitSuccess {
				t.Fatalf("runMain() = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout = %q, want to contain %q", stdout.String(), want)
				}
			}
			if strings.Contains(stderr.String(), "Created") {
				t.Errorf("stderr = %q, stdout output should not report created files", stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Directory - Batch processing of a tree
// ---------------------------------------------------------------------------

func TestRunMain_Directory(t *testing.T) {
	t.Parallel()

	t.Run("mirrors tree under output directory", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		writeSource(t, in, "intro.md", tipSource)
		writeSource(t, in, "guides/setup.mdx", "## Setup\n")
		writeSource(t, in, "notes.txt", "ignored")

		env, _, stderr := testEnv("", nil)
		code := runMain([]string{"mdcanon", "render", "-o", out, "-w", "2", in}, env)
		if code != ExitSuccess {
			t.Fatalf("runMain() = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
		}

		if got := readOutput(t, filepath.Join(out, "intro.html")); !strings.Contains(got, `class="message"`) {
			t.Errorf("intro.html = %q, want message box", got)
		}
		if got := readOutput(t, filepath.Join(out, "guides", "setup.html")); !strings.Contains(got, `<h2 id="setup">`) {
			t.Errorf("setup.html = %q, want heading", got)
		}
		if _, err := os.Stat(filepath.Join(out, "notes.html")); !os.IsNotExist(err) {
			t.Errorf("notes.txt should not be processed, stat err = %v", err)
		}
		if !strings.Contains(stderr.String(), "2 succeeded, 0 failed") {
			t.Errorf("stderr = %q, want summary", stderr.String())
		}
	})

	t.Run("normalize writes canonical files beside sources", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeSource(t, dir, "tip.md", tipSource)

		env, _, stderr := testEnv("", nil)
		if code := runMain([]string{"mdcanon", "normalize", "-q", dir}, env); code != ExitSuccess {
			t.Fatalf("runMain() = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
		}
		got := readOutput(t, filepath.Join(dir, "tip.canonical.md"))
		if got != ":::message\nRun the migrations first.\n:::\n" {
			t.Errorf("tip.canonical.md = %q", got)
		}

		// A second run skips canonical outputs.
		env, _, stderr = testEnv("", nil)
		if code := runMain([]string{"mdcanon", "normalize", "-q", dir}, env); code != ExitSuccess {
			t.Fatalf("second runMain() = %d (stderr: %s)", code, stderr.String())
		}
		if _, err := os.Stat(filepath.Join(dir, "tip.canonical.canonical.md")); !os.IsNotExist(err) {
			t.Errorf("canonical output was processed again, stat err = %v", err)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv("", nil)
		if code := runMain([]string{"mdcanon", "compile", t.TempDir()}, env); code != ExitIO {
			t.Errorf("runMain() = %d, want %d", code, ExitIO)
		}
		if !strings.Contains(stderr.String(), "no markdown files found") {
			t.Errorf("stderr = %q, want no markdown files", stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_Strict - Error nodes and --strict
// ---------------------------------------------------------------------------

func TestRunMain_Strict(t *testing.T) {
	t.Parallel()

	const broken = ":::code-tabs\n:::\n"

	t.Run("warns without strict", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv(broken, nil)
		code := runMain([]string{"mdcanon", "compile", "-d", "plain", "-"}, env)
		if code != ExitSuccess {
			t.Fatalf("runMain() = %d, want %d", code, ExitSuccess)
		}
		if !strings.Contains(stdout.String(), "no tabs found") {
			t.Errorf("stdout = %q, want error node", stdout.String())
		}
		if !strings.Contains(stderr.String(), "1 error node(s)") || !strings.Contains(stderr.String(), "hint:") {
			t.Errorf("stderr = %q, want warning with hint", stderr.String())
		}
	})

	t.Run("fails with strict", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv(broken, nil)
		code := runMain([]string{"mdcanon", "render", "-d", "plain", "--strict", "-"}, env)
		if code != ExitStrict {
			t.Errorf("runMain() = %d, want %d", code, ExitStrict)
		}
		if stdout.Len() != 0 {
			t.Errorf("stdout = %q, want nothing written", stdout.String())
		}
		if !strings.Contains(stderr.String(), "no tabs found") {
			t.Errorf("stderr = %q, want reason", stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_Config - Config file, env and flag precedence
// ---------------------------------------------------------------------------

func TestRunMain_Config(t *testing.T) {
	t.Parallel()

	t.Run("config file sets dialect", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeSource(t, t.TempDir(), "mdcanon.yaml", "normalize:\n  dialect: plain\n")
		env, stdout, stderr := testEnv(tipSource, nil)
		if code := runMain([]string{"mdcanon", "normalize", "-c", cfgPath, "-"}, env); code != ExitSuccess {
			t.Fatalf("runMain() = %d (stderr: %s)", code, stderr.String())
		}
		if stdout.String() != tipSource {
			t.Errorf("stdout = %q, want plain dialect to keep <Tip>", stdout.String())
		}
	})

	t.Run("env config path and flag wins over env dialect", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeSource(t, t.TempDir(), "mdcanon.yaml", "normalize:\n  dialect: plain\n")
		env, stdout, stderr := testEnv(tipSource, map[string]string{
			"MDCANON_CONFIG":  cfgPath,
			"MDCANON_DIALECT": "zenn",
		})
		if code := runMain([]string{"mdcanon", "normalize", "-d", "mintlify", "-"}, env); code != ExitSuccess {
			t.Fatalf("runMain() = %d (stderr: %s)", code, stderr.String())
		}
		if !strings.HasPrefix(stdout.String(), ":::message") {
			t.Errorf("stdout = %q, want mintlify conversion", stdout.String())
		}
	})

	t.Run("missing config has hint", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv("", nil)
		code := runMain([]string{"mdcanon", "normalize", "-c", "no-such-config-name", "-"}, env)
		if code != ExitUsage {
			t.Errorf("runMain() = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "hint: use --config") {
			t.Errorf("stderr = %q, want config hint", stderr.String())
		}
	})

	t.Run("invalid env workers", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("", map[string]string{"MDCANON_WORKERS": "many"})
		if code := runMain([]string{"mdcanon", "normalize", "-"}, env); code != ExitUsage {
			t.Errorf("runMain() = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("invalid base URL", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("x\n", nil)
		if code := runMain([]string{"mdcanon", "render", "--base-url", "not a url", "-"}, env); code != ExitUsage {
			t.Errorf("runMain() = %d, want %d", code, ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_Theme - Styles and page templates
// ---------------------------------------------------------------------------

func TestRunMain_Theme(t *testing.T) {
	t.Parallel()

	t.Run("built-in style", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv(tipSource, nil)
		if code := runMain([]string{"mdcanon", "render", "--standalone", "--style", "minimal", "-"}, env); code != ExitSuccess {
			t.Fatalf("runMain() = %d (stderr: %s)", code, stderr.String())
		}
		if !strings.Contains(stdout.String(), "max-width:48rem") {
			t.Errorf("stdout = %q, want minimal style", stdout.String())
		}
	})

	t.Run("style file", func(t *testing.T) {
		t.Parallel()

		css := writeSource(t, t.TempDir(), "brand.css", ".message{color:teal}")
		env, stdout, stderr := testEnv(tipSource, nil)
		if code := runMain([]string{"mdcanon", "render", "--standalone", "--style", css, "-"}, env); code != ExitSuccess {
			t.Fatalf("runMain() = %d (stderr: %s)", code, stderr.String())
		}
		if !strings.Contains(stdout.String(), ".message{color:teal}") {
			t.Errorf("stdout = %q, want custom style", stdout.String())
		}
	})

	t.Run("asset path template", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeSource(t, dir, "templates/page.html", "<html><head><title>{{.Title}}</title></head><body class=\"brand\">{{.Content}}</body></html>")
		env, stdout, stderr := testEnv(tipSource, nil)
		if code := runMain([]string{"mdcanon", "render", "--standalone", "--asset-path", dir, "-"}, env); code != ExitSuccess {
			t.Fatalf("runMain() = %d (stderr: %s)", code, stderr.String())
		}
		if !strings.Contains(stdout.String(), `<body class="brand">`) {
			t.Errorf("stdout = %q, want custom template", stdout.String())
		}
	})

	t.Run("fragments ignore theme", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv(tipSource, nil)
		if code := runMain([]string{"mdcanon", "render", "--style", "no-such-style", "-"}, env); code != ExitSuccess {
			t.Fatalf("runMain() = %d (stderr: %s)", code, stderr.String())
		}
		if strings.Contains(stdout.String(), "<style>") {
			t.Errorf("stdout = %q, want fragment", stdout.String())
		}
	})

	t.Run("unknown style has hint", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(tipSource, nil)
		code := runMain([]string{"mdcanon", "render", "--standalone", "--style", "no-such-style", "-"}, env)
		if code != ExitUsage {
			t.Errorf("runMain() = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "built-in styles: default, minimal") {
			t.Errorf("stderr = %q, want style hint", stderr.String())
		}
	})

	t.Run("missing asset path", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(tipSource, nil)
		missing := filepath.Join(t.TempDir(), "nope")
		if code := runMain([]string{"mdcanon", "render", "--standalone", "--asset-path", missing, "-"}, env); code != ExitUsage {
			t.Errorf("runMain() = %d, want %d", code, ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewLogger - Level selection
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   slog.Level
		quiet   bool
		verbose bool
		want    slog.Level
	}{
		{"configured", slog.LevelWarn, false, false, slog.LevelWarn},
		{"quiet", slog.LevelInfo, true, false, slog.LevelError},
		{"verbose", slog.LevelInfo, false, true, slog.LevelDebug},
		{"verbose wins", slog.LevelInfo, true, true, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger := newLogger(&bytes.Buffer{}, tt.level, tt.quiet, tt.verbose)
			if !logger.Enabled(t.Context(), tt.want) {
				t.Errorf("level %v should be enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && logger.Enabled(t.Context(), tt.want-4) {
				t.Errorf("level %v should be disabled", tt.want-4)
			}
		})
	}
}
