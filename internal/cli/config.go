package cli

import (
	"fmt"
	"os"

	"github.com/sdejongh/stall/internal/platform"
	"github.com/sdejongh/stall/pkg/config"
	"github.com/sdejongh/stall/pkg/ratelimit"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command
func NewConfigCommand(flags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the stall configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand(flags))
	cmd.AddCommand(newConfigInitCommand(flags))

	return cmd
}

func newConfigShowCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.ConfigFile)
			if err != nil {
				return err
			}
			applyFlagsToConfig(cfg, flags)

			bandwidth, err := cfg.BandwidthBytes()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Stall File: %s\n", cfg.Stall.File)
			fmt.Fprintf(w, "Copy Method: %s\n", cfg.Stall.CopyMethod)
			fmt.Fprintf(w, "Promote Warnings: %t\n", cfg.Stall.PromoteWarnings)
			fmt.Fprintf(w, "Short Names: %t\n", cfg.Stall.ShortNames)
			fmt.Fprintf(w, "Mtime Tolerance: %s\n", cfg.Compare.MtimeTolerance)
			fmt.Fprintf(w, "Buffer Size: %s\n", cfg.Performance.BufferSize)
			fmt.Fprintf(w, "Bandwidth Limit: %s\n", ratelimit.FormatBandwidth(bandwidth))
			fmt.Fprintf(w, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(w, "Color: %s\n", cfg.Output.Color)
			fmt.Fprintf(w, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(w, "Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand(flags *GlobalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.ConfigFile
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			path, err := platform.ExpandHome(path)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file already exists at %s (use --force to overwrite it)", path)
			}

			if err := config.SaveToFile(config.Default(), path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")

	return cmd
}
