package main

import (
	"bytes"
	"os"

	"github.com/nimbusio/nimbusctl/launch"
	"github.com/nimbusio/nimbusctl/launch/docs"
	"github.com/nimbusio/nimbusctl/nimbusctl/flags"
	"github.com/nimbusio/nimbusctl/nimbusctl/log"
	"github.com/nimbusio/nimbusctl/nimbusctl/ui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Builds the HTML documentation of the codebase",
	Args:  cobra.ArbitraryArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			log.Debug("Ignoring positional arguments", "args", args)
		}

		build := docs.Build{
			Codebase: codebase,
			Make:     lo.Must(cmd.Flags().GetString("make")),
			Targets:  lo.Must(cmd.Flags().GetStringArray("target")),
			Environ:  os.Environ(),
			Logger:   log.Base,
			Stdout:   cmd.OutOrStdout(),
			Stderr:   cmd.ErrOrStderr(),
		}

		if lo.Must(cmd.Flags().GetBool("dry-run")) {
			for _, step := range build.Steps() {
				cmd.Println(step.String())
			}
			return nil
		}

		if viper.GetBool(flags.Verbose) || !ui.Interactive() {
			return build.Run(cmd.Context())
		}

		// Output is only shown when a step fails
		return build.RunEach(cmd.Context(), func(step launch.Command, run func(launch.Command) error) error {
			var output bytes.Buffer
			step.Stdout, step.Stderr = &output, &output

			spinner := ui.NewSpinner("Running " + step.Name)
			if err := run(step); err != nil {
				spinner.Fail()
				cmd.PrintErr(output.String())
				return err
			}
			spinner.Success()
			return nil
		})
	},
}

func init() {
	docsCmd.Flags().String("make", docs.DefaultMake, "make program")
	docsCmd.Flags().StringArrayP("target", "t", docs.DefaultTargets, "make targets, run in order")
	docsCmd.Flags().BoolP("dry-run", "n", false, "show the commands without running them")
}
