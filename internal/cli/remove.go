package cli

import (
	"errors"
	"path/filepath"

	"github.com/sdejongh/stall/internal/platform"
	"github.com/sdejongh/stall/pkg/logging"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/sdejongh/stall/pkg/storage"
	"github.com/spf13/cobra"
)

// RemoveFlags holds remove command flags
type RemoveFlags struct {
	Remote bool
	Delete bool
	DryRun bool
}

// NewRemoveCommand creates the remove command
func NewRemoveCommand(flags *GlobalFlags) *cobra.Command {
	var removeFlags RemoveFlags

	cmd := &cobra.Command{
		Use:     "remove [flags] PATH...",
		Aliases: []string{"rm"},
		Short:   "Remove files from the stall",
		Long: `Remove the entries with the given local paths, or remote paths with
--remote. Remote files are never touched; --delete also deletes the copy
inside the stall directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, flags, removeFlags, args)
		},
	}

	cmd.Flags().BoolVar(&removeFlags.Remote, "remote", false, "look entries up by remote path")
	cmd.Flags().BoolVar(&removeFlags.Delete, "delete", false, "delete the stall copy of each removed file")
	cmd.Flags().BoolVar(&removeFlags.DryRun, "dry-run", false, "report without modifying the stall")

	return cmd
}

func runRemove(cmd *cobra.Command, flags *GlobalFlags, removeFlags RemoveFlags, paths []string) error {
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
	backend := storage.NewFS(env.fs)

	kind := "local"
	if removeFlags.Remote {
		kind = "remote"
	}

	for _, path := range paths {
		env.logger.Debug(ctx, "Remove entry", logging.Fields{kind: path})

		if removeFlags.Remote {
			if path, err = platform.ResolveRemote(path); err != nil {
				return errors.Join(err, env.saveStore(ctx, store))
			}
		}

		if removeFlags.DryRun {
			env.printf("remove stall entry with %s path %s\n", kind, path)
			continue
		}

		var entry models.Entry
		var ok bool
		if removeFlags.Remote {
			entry, ok = store.RemoveRemote(path)
		} else {
			entry, ok = store.RemoveLocal(path)
		}
		if !ok {
			if werr := env.warn(ctx, "No stall entry found", &models.UnknownEntryError{Path: path}, nil); werr != nil {
				return errors.Join(werr, env.saveStore(ctx, store))
			}
			continue
		}
		env.logger.Info(ctx, "Removed stall entry", logging.Fields{"local": entry.Local, "remote": entry.Remote})

		if !removeFlags.Delete {
			continue
		}
		stalled := filepath.Join(env.stallDir, entry.Local)
		if err := backend.Remove(ctx, stalled); err != nil {
			if werr := env.warn(ctx, "Failed to delete stall file", err, logging.Fields{"path": stalled}); werr != nil {
				return errors.Join(werr, env.saveStore(ctx, store))
			}
		}
	}

	return env.saveStore(ctx, store)
}
