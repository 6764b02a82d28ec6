// Package cli implements the cyclehud command-line interface: a host stand-in
// that drives the controller from event scripts and keeps saves in the
// archive.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

var flags rootFlags

// exitCodeError carries the process exit code for a failed command.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

// userError marks a failure caused by bad input.
func userError(format string, args ...any) error {
	return &exitCodeError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// sysError marks a failure of the environment: files, the archive.
func sysError(format string, args ...any) error {
	return &exitCodeError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps a command error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var coded *exitCodeError
	if errors.As(err, &coded) {
		return coded.code
	}
	return exitUserError
}

// NewRootCmd creates the top-level "cyclehud" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cyclehud",
		Short: "Hotkey cycle and equipment preset controller",
		Long: "cyclehud replays host events through the cycle and preset controller\n" +
			"and keeps the resulting save payloads in a local archive.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newReplayCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newSavesCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newPresetCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
