package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config   string
	quiet    bool
	verbose  bool
	logLevel string
}

// readFlags holds all read command flags.
type readFlags struct {
	common         commonFlags
	output         string
	workers        int
	format         string
	css            bool
	standalone     bool
	pageStyle      string
	assetPath      string
	highlightStyle string
	noHighlight    bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
}

// addHighlightFlags adds code highlighting flags to a FlagSet.
func addHighlightFlags(fs *flag.FlagSet, f *readFlags) {
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for fenced code")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "render fenced code without highlighting")
	fs.BoolVar(&f.css, "css", false, "print the highlight stylesheet and exit")
}

// buildReadFlagSet creates the read command FlagSet bound to f.
// Shared by parseReadFlags and completion generation.
func buildReadFlagSet(f *readFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: stream records to stdout)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.format, "format", "f", "", "metadata format: yaml or json")
	fs.BoolVar(&f.standalone, "standalone", false, "write complete HTML documents instead of fragments")
	fs.StringVar(&f.pageStyle, "page-style", "", "page stylesheet for --standalone (default, minimal or a custom name)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with styles/{name}.css overrides")

	addCommonFlags(fs, &f.common)
	addHighlightFlags(fs, f)

	return fs
}

// parseReadFlags parses read command flags and returns positional args.
// Usage goes to w. flag.ErrHelp is returned unwrapped for -h/--help.
func parseReadFlags(args []string, w io.Writer) (*readFlags, []string, error) {
	f := &readFlags{}
	fs := buildReadFlagSet(f)
	fs.SetOutput(w)
	fs.Usage = func() { printReadUsage(w) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return f, fs.Args(), nil
}
