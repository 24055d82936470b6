package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError carries a process exit code for an error that was already
// reported to the user
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewRootCommand creates the stall command tree
func NewRootCommand() *cobra.Command {
	flags := &GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "stall",
		Short: "Configuration file mirroring utility",
		Long: `stall keeps a directory of configuration files (the stall) in step with
the files they mirror elsewhere on the system. Files are collected into the
stall or distributed back out, and the newest modification time wins.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd, flags)

	// Add commands
	rootCmd.AddCommand(NewInitCommand(flags))
	rootCmd.AddCommand(NewAddCommand(flags))
	rootCmd.AddCommand(NewRemoveCommand(flags))
	rootCmd.AddCommand(NewRenameCommand(flags))
	rootCmd.AddCommand(NewStatusCommand(flags))
	rootCmd.AddCommand(NewCollectCommand(flags))
	rootCmd.AddCommand(NewDistributeCommand(flags))
	rootCmd.AddCommand(NewConfigCommand(flags))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
