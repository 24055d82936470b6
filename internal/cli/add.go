package cli

import (
	"errors"
	"path/filepath"

	"github.com/sdejongh/stall/internal/platform"
	"github.com/sdejongh/stall/pkg/logging"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/spf13/cobra"
)

// AddFlags holds add command flags
type AddFlags struct {
	Rename  string
	Into    string
	Collect bool
	DryRun  bool
}

// NewAddCommand creates the add command
func NewAddCommand(flags *GlobalFlags) *cobra.Command {
	var addFlags AddFlags

	cmd := &cobra.Command{
		Use:   "add [flags] REMOTE...",
		Short: "Add files to the stall",
		Long: `Add entries mapping each REMOTE file to a file of the same name inside the
stall directory. Use --rename to pick another name and --into to place the
file in a subdirectory of the stall.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, flags, addFlags, args)
		},
	}

	cmd.Flags().StringVar(&addFlags.Rename, "rename", "", "local file name to use instead of the remote's")
	cmd.Flags().StringVar(&addFlags.Into, "into", "", "stall subdirectory to place the files in")
	cmd.Flags().BoolVar(&addFlags.Collect, "collect", false, "collect the added files into the stall")
	cmd.Flags().BoolVar(&addFlags.DryRun, "dry-run", false, "report without modifying the stall")

	return cmd
}

func runAdd(cmd *cobra.Command, flags *GlobalFlags, addFlags AddFlags, remotes []string) error {
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

	var added []string
	for _, arg := range remotes {
		env.logger.Debug(ctx, "Add entry", logging.Fields{"remote": arg})

		remote, err := platform.ResolveRemote(arg)
		if err != nil {
			return err
		}

		name := addFlags.Rename
		if name == "" {
			if name, err = platform.FileName(remote); err != nil {
				env.printf("Invalid remote file name: %s\n", arg)
				if werr := env.warn(ctx, "Invalid remote file name", err, logging.Fields{"remote": arg}); werr != nil {
					return errors.Join(werr, env.saveStore(ctx, store))
				}
				continue
			}
		}
		local := filepath.Join(addFlags.Into, name)

		if addFlags.DryRun {
			env.printf("add stall entry %s -> %s\n", local, remote)
			continue
		}

		if err := store.Insert(local, remote); err != nil {
			if werr := env.warn(ctx, "Invalid stall entry", err, logging.Fields{"local": local, "remote": remote}); werr != nil {
				return errors.Join(werr, env.saveStore(ctx, store))
			}
			continue
		}
		env.logger.Debug(ctx, "Added entry", logging.Fields{"local": local, "remote": remote})
		added = append(added, local)
	}

	if err := env.saveStore(ctx, store); err != nil {
		return err
	}

	if !addFlags.Collect || len(added) == 0 {
		return nil
	}
	return env.run(ctx, store, env.operation(models.DirectionCollect, added, false, false))
}
