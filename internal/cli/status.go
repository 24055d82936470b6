package cli

import (
	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command
func NewStatusCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status [PATH...]",
		Short: "Show the status of stall files",
		Long: `Compare each stall file with its remote and print whether either side is
missing, newer, older or the same. Nothing is copied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, flags, args)
		},
	}
}

func runStatus(cmd *cobra.Command, flags *GlobalFlags, selectors []string) error {
	ctx := commandContext(cmd)

	env, err := newEnvironment(cmd, flags, "")
	if err != nil {
		return err
	}
	defer env.Close()

	store, err := env.loadStore()
	if err != nil {
		return err
	}

	formatter, err := env.newFormatter()
	if err != nil {
		return err
	}
	engine, err := env.newEngine(formatter)
	if err != nil {
		return err
	}

	results, err := engine.Inspect(ctx, store, env.stallDir, selectors)
	if err != nil {
		formatter.Error(err)
		return &ExitError{Code: 1, Err: err}
	}
	return formatter.Status(env.stallDir, results)
}
