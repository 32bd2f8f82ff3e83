package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdcanon <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  normalize  Rewrite markdown into the canonical directive dialect")
	fmt.Fprintln(w, "  compile    Write block node trees as JSON or YAML")
	fmt.Fprintln(w, "  render     Write HTML fragments or pages")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdcanon help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for a processing command.
func printCommandUsage(w io.Writer, cmd command) {
	fmt.Fprintf(w, "Usage: mdcanon %s <input> [flags]\n", cmd)
	fmt.Fprintln(w)
	switch cmd {
	case cmdNormalize:
		fmt.Fprintln(w, "Rewrite markdown into the canonical directive dialect.")
		fmt.Fprintln(w, "Without -o, outputs are written next to sources as NAME.canonical.md.")
	case cmdCompile:
		fmt.Fprintln(w, "Normalize, then write the block node tree of each file.")
	case cmdRender:
		fmt.Fprintln(w, "Normalize and compile, then write HTML for each file.")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Normalization:")
	fmt.Fprintln(w, "  -d, --dialect <s>         Source dialect: mintlify, zenn, plain")
	fmt.Fprintln(w, "      --version-prefix <s>  Version segment stripped from internal links (default: any v<N>)")
	fmt.Fprintln(w, "      --namespace <s>       Prefix for root-relative internal links")
	switch cmd {
	case cmdCompile:
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Output:")
		fmt.Fprintln(w, "  -f, --format <s>          Node tree format: json, yaml")
		fmt.Fprintln(w, "      --strict              Fail when error nodes are produced")
	case cmdRender:
		fmt.Fprintln(w)
		fmt.Fprintln(w, "HTML:")
		fmt.Fprintln(w, "      --preferred-tab <s>   Tab title or language shown first")
		fmt.Fprintln(w, "      --base-url <url>      Absolute URL for relative links and images")
		fmt.Fprintln(w, "      --standalone          Full HTML pages with the stylesheet")
		fmt.Fprintln(w, "      --title <s>           Page title (default: frontmatter title)")
		fmt.Fprintln(w, "      --style <s>           Style name (default, minimal) or .css file path")
		fmt.Fprintln(w, "      --asset-path <dir>    Directory with styles/ and templates/page.html")
		fmt.Fprintln(w, "      --strict              Fail when error nodes are produced")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and pass activity")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDCANON_CONFIG, MDCANON_DIALECT, MDCANON_WORKERS (also read from .env)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	if cmd, ok := parseCommand(args[0]); ok {
		printCommandUsage(env.Stdout, cmd)
		return ExitSuccess
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdcanon version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdcanon help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
