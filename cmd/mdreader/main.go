package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain runs the command line and maps the outcome to an exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := run(ctx, args, env)
	if err != nil && !errors.Is(err, ErrDocumentsFailed) {
		fmt.Fprintln(env.Stderr, "error:", err)
	}
	return exitCodeFor(err)
}

// run dispatches to a command. Arguments that name no command are read
// as sources.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ErrNoInput
	}

	switch args[1] {
	case "read":
		return runRead(ctx, args[2:], env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdreader %s\n", Version)
		return nil
	case "help", "-h", "--help":
		return runHelp(args[2:], env)
	case "completion":
		return runCompletion(args[2:], env)
	default:
		return runRead(ctx, args[1:], env)
	}
}
