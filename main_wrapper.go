package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mchineboy/ecrtool/internal/cli"
)

// MainEntry runs the command line in args (args[0] is the program name)
// and returns the process exit status. Every error is reported as a single
// line on stderr.
func MainEntry(args []string) int {
	return MainEntryWithOptions(args, cli.Options{})
}

// MainEntryWithOptions is a testable version of MainEntry that accepts a
// client factory and output writers.
func MainEntryWithOptions(args []string, opts cli.Options) int {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	if len(args) > 0 {
		args = args[1:]
	}

	app := cli.NewApplication(opts)
	if err := app.Execute(context.Background(), args); err != nil {
		fmt.Fprintf(opts.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
