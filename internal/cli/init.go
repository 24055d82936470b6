package cli

import (
	"errors"
	"fmt"

	"github.com/sdejongh/stall/pkg/stall"
	"github.com/sdejongh/stall/pkg/storage"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command
func NewInitCommand(flags *GlobalFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [DIR]",
		Short: "Create an empty stall",
		Long: `Create an empty stall file in DIR, or in the stall directory when DIR is
omitted. An existing stall file is left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, flags, dir, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without writing the stall file")

	return cmd
}

func runInit(cmd *cobra.Command, flags *GlobalFlags, dir string, dryRun bool) error {
	env, err := newEnvironment(cmd, flags, dir)
	if err != nil {
		return err
	}
	defer env.Close()

	store := stall.New()
	store.SetLoadPath(env.storePath)

	if dryRun {
		exists, err := storage.NewFS(env.fs).Exists(commandContext(cmd), env.storePath)
		if err != nil {
			return err
		}
		if exists {
			env.printf("Stall file already exists at %s\n", env.storePath)
		} else {
			env.printf("Created new stall file at %s\n", env.storePath)
		}
		return nil
	}

	if err := env.fs.MkdirAll(env.stallDir, 0755); err != nil {
		return fmt.Errorf("failed to create stall directory: %w", err)
	}

	if _, err := store.WriteToLoadPathIfNew(env.fs); err != nil {
		if errors.Is(err, stall.ErrStoreExists) {
			env.printf("Stall file already exists at %s\n", env.storePath)
			return nil
		}
		return err
	}

	env.printf("Created new stall file at %s\n", env.storePath)
	return nil
}
