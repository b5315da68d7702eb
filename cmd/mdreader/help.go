package main

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/styles"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdreader <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  read         Read markdown sources into HTML and metadata (default)")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command or topic")
	fmt.Fprintln(w, "  completion   Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdreader help <command>' for details on a specific command.")
}

// printReadUsage prints usage for the read command.
func printReadUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdreader read <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read markdown files into HTML fragments and metadata records.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (walked recursively)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>          Write <name>.html and a metadata sidecar per source")
	fmt.Fprintln(w, "                              (default: stream records to stdout)")
	fmt.Fprintln(w, "  -f, --format <yaml|json>    Metadata and record format (default: yaml)")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel workers, 0 = auto")
	fmt.Fprintln(w, "      --standalone            Write complete HTML documents")
	fmt.Fprintln(w, "      --page-style <name>     Page stylesheet for --standalone (default: default)")
	fmt.Fprintln(w, "      --asset-path <dir>      Directory with styles/<name>.css overrides")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Highlighting:")
	fmt.Fprintln(w, "      --highlight-style <name>  Chroma style (see 'mdreader help styles')")
	fmt.Fprintln(w, "      --no-highlight            Render fenced code as plain blocks")
	fmt.Fprintln(w, "      --css                     Print the highlight stylesheet and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name|path>    Config file (YAML, or JSON with comments)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show debug logs and timing")
	fmt.Fprintln(w, "      --log-level <level>     trace, debug, info, warn or error")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDREADER_CONFIG, MDREADER_OUTPUT_DIR, MDREADER_WORKERS,")
	fmt.Fprintln(w, "  MDREADER_LOG_LEVEL, MDREADER_HIGHLIGHT_STYLE")
	fmt.Fprintln(w, "  Flags override environment variables, which override the config file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 general error, 2 usage or config, 3 I/O, 4 documents failed")
}

// printStyles lists the chroma styles accepted by --highlight-style.
func printStyles(w io.Writer) {
	for _, name := range styles.Names() {
		fmt.Fprintln(w, name)
	}
}

// runHelp prints help for a specific command or topic.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "read":
		printReadUsage(env.Stdout)
	case "styles":
		printStyles(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdreader version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdreader help [command|styles]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command, or list highlight styles.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown help topic %q", ErrUsage, args[0])
	}
	return nil
}
