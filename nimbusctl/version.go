package main

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version number of nimbusctl",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("nimbusctl version %s (%s)\n", version, commit[:min(len(commit), 7)])
		cmd.Printf("codebase %s\n", codebase)
		return nil
	},
}
