package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/farouk15160/j1939-decoder/internal/config"
)

// Set by ldflags.
var buildVersion = "dev"

const (
	exitOK      = 0
	exitInput   = 1 // malformed frames, bad flags, decode failures
	exitIOError = 2 // missing or unreadable files
)

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := rootCmd()
	root.AddCommand(pgnsCmd())
	root.AddCommand(versionCmd())
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitInput
}

// fileError maps "not found" and "permission denied" onto exitIOError.
// Anything else is returned unchanged.
func fileError(err error) error {
	path := ""
	var pe *fs.PathError
	if errors.As(err, &pe) {
		path = pe.Path
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &exitError{code: exitIOError, msg: fmt.Sprintf("%s does not exist", path)}
	case errors.Is(err, fs.ErrPermission):
		return &exitError{code: exitIOError, msg: fmt.Sprintf("Permission denied: %s", path)}
	}
	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.AppName, buildVersion)
		},
	}
}
