package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sdejongh/stall/internal/platform"
	"github.com/sdejongh/stall/pkg/logging"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/sdejongh/stall/pkg/output"
	"github.com/sdejongh/stall/pkg/storage"
	"github.com/spf13/cobra"
)

// RenameFlags holds rename command flags
type RenameFlags struct {
	Move   bool
	Force  bool
	DryRun bool
}

// NewRenameCommand creates the rename command
func NewRenameCommand(flags *GlobalFlags) *cobra.Command {
	var renameFlags RenameFlags

	cmd := &cobra.Command{
		Use:     "rename [flags] FROM TO",
		Aliases: []string{"mv"},
		Short:   "Rename a file within the stall",
		Long: `Change the local path of the entry at FROM to TO, keeping its remote.
Use --move to also move the stall copy of the file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, flags, renameFlags, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&renameFlags.Move, "move", false, "move the stall copy of the file")
	cmd.Flags().BoolVarP(&renameFlags.Force, "force", "f", false, "replace an existing entry at TO")
	cmd.Flags().BoolVar(&renameFlags.DryRun, "dry-run", false, "report without modifying the stall")

	return cmd
}

func runRename(cmd *cobra.Command, flags *GlobalFlags, renameFlags RenameFlags, from, to string) error {
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

	if store.IsEmpty() {
		env.printf("%s\n", output.EmptyStallMessage)
		return nil
	}

	entry, ok := store.EntryLocal(from)
	if !ok {
		return &models.UnknownEntryError{Path: from}
	}
	if _, err := platform.FileName(to); err != nil {
		return err
	}
	if existing, ok := store.EntryLocal(to); ok && existing.Local != entry.Local && !renameFlags.Force {
		return fmt.Errorf("stall file already exists: %s (use --force to overwrite it)", to)
	}

	if renameFlags.DryRun {
		env.printf("rename stall entry %s -> %s\n", entry.Local, to)
		return nil
	}

	store.RemoveLocal(entry.Local)
	if err := store.Insert(to, entry.Remote); err != nil {
		return err
	}
	env.logger.Info(ctx, "Renamed stall entry", logging.Fields{"from": entry.Local, "to": to})

	if renameFlags.Move {
		oldPath := filepath.Join(env.stallDir, entry.Local)
		newPath := filepath.Join(env.stallDir, to)
		if err := storage.NewFS(env.fs).Rename(ctx, oldPath, newPath); err != nil {
			env.printf("Failed to move files.\n")
			if werr := env.warn(ctx, "Failed to move stall file", err, logging.Fields{"from": oldPath, "to": newPath}); werr != nil {
				return errors.Join(werr, env.saveStore(ctx, store))
			}
		}
	}

	return env.saveStore(ctx, store)
}
