package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile      string
	Stall           string
	ShortNames      bool
	PromoteWarnings bool
	Verbose         bool
	Quiet           bool
	Output          string
	Report          string
	ReportFormat    string
	Color           string
}

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVar(
		&flags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/stall/config.yaml)",
	)
	cmd.PersistentFlags().StringVar(
		&flags.Stall,
		"stall",
		"",
		"stall directory or stall file (default is the current directory)",
	)
	cmd.PersistentFlags().BoolVar(
		&flags.ShortNames,
		"short-names",
		false,
		"print file names without their directories",
	)
	cmd.PersistentFlags().BoolVarP(
		&flags.PromoteWarnings,
		"error",
		"e",
		false,
		"treat warnings as errors",
	)
	cmd.PersistentFlags().BoolVarP(
		&flags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output",
	)
	cmd.PersistentFlags().BoolVarP(
		&flags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
	cmd.PersistentFlags().StringVarP(
		&flags.Output,
		"output",
		"o",
		"",
		"output format: human, json (default from config)",
	)
	cmd.PersistentFlags().StringVar(
		&flags.Report,
		"report",
		"",
		"write a run report to file",
	)
	cmd.PersistentFlags().StringVar(
		&flags.ReportFormat,
		"report-format",
		"human",
		"run report format: human, json",
	)
	cmd.PersistentFlags().StringVar(
		&flags.Color,
		"color",
		"",
		"colour output: auto, always, never (default from config)",
	)
}
