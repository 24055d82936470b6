package cli

import (
	"github.com/sdejongh/stall/pkg/models"
	"github.com/spf13/cobra"
)

// SyncFlags holds collect and distribute command flags
type SyncFlags struct {
	Force  bool
	DryRun bool
}

// NewCollectCommand creates the collect command
func NewCollectCommand(flags *GlobalFlags) *cobra.Command {
	return newSyncCommand(flags, models.DirectionCollect,
		"Copy remote files into the stall",
		`Copy each remote file over its stall copy when the remote is newer or the
stall copy is missing. Use --force to copy files that are current or older.`)
}

// NewDistributeCommand creates the distribute command
func NewDistributeCommand(flags *GlobalFlags) *cobra.Command {
	return newSyncCommand(flags, models.DirectionDistribute,
		"Copy stall files out to their remotes",
		`Copy each stall file over its remote when the stall copy is newer or the
remote is missing. Use --force to copy files that are current or older.`)
}

func newSyncCommand(flags *GlobalFlags, direction models.Direction, short, long string) *cobra.Command {
	var syncFlags SyncFlags

	cmd := &cobra.Command{
		Use:   string(direction) + " [flags] [PATH...]",
		Short: short,
		Long: long + `

PATH arguments select entries by local path and may be glob patterns
(e.g. "shell/**"). Without PATH every entry is processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, flags, direction, syncFlags, args)
		},
	}

	cmd.Flags().BoolVarP(&syncFlags.Force, "force", "f", false, "copy even when the destination is not older")
	cmd.Flags().BoolVar(&syncFlags.DryRun, "dry-run", false, "report actions without copying")

	return cmd
}

func runSync(cmd *cobra.Command, flags *GlobalFlags, direction models.Direction, syncFlags SyncFlags, selectors []string) error {
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

	return env.run(ctx, store, env.operation(direction, selectors, syncFlags.Force, syncFlags.DryRun))
}
