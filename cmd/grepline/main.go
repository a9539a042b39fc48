package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/odvcencio/grepline/pkg/config"
	gerrors "github.com/odvcencio/grepline/pkg/errors"
	"github.com/odvcencio/grepline/pkg/grep"
	"github.com/odvcencio/grepline/pkg/logging"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var stdoutIsTerminalFn = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, config.EnvFromOS()))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, env config.Env) int {
	err := grep.Run(args, grep.IO{
		Stdin:            stdin,
		Stdout:           stdout,
		Stderr:           stderr,
		Env:              env,
		StdoutIsTerminal: stdoutIsTerminalFn(),
		Build: grep.BuildInfo{
			Version: version,
			Commit:  commit,
			Date:    buildDate,
		},
	})
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(stderr, "%s%s\n", logging.ConsolePrefix, describe(err))
	if gerrors.IsConfiguration(err) {
		fmt.Fprintln(stderr, "Try 'grepline --help' for more information.")
	}
	return exitCodeForError(classify(err))
}

func describe(err error) string {
	if e, ok := gerrors.As(err); ok {
		return e.Describe()
	}
	return err.Error()
}
