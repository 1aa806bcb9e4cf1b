package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the ClearStaff admin CLI. Subcommands
// (auth, bootstrap, tenant, employee) are attached here.
var rootCmd = &cobra.Command{
	Use:           "clearstaff",
	Short:         "ClearStaff admin CLI",
	Long:          "Administrative utilities for the ClearStaff HR back office (dev tokens, schema bootstrap, tenant/membership/employee management).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
