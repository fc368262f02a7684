package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/nimbusio/nimbusctl/launch"
	"github.com/nimbusio/nimbusctl/launch/defrag"
	"github.com/nimbusio/nimbusctl/nimbusctl/flags"
	"github.com/nimbusio/nimbusctl/nimbusctl/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Versioning information set at build time
var version, commit = "dev", "n/a"

// codebase is the nimbus.io source tree the launched tools live in
var codebase string

var nimbusctlCmd = &cobra.Command{
	Use:   "nimbusctl",
	Short: "nimbusctl launches the tools of a simulated nimbus.io cluster.",

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := log.Init(cmd.ErrOrStderr()); err != nil {
			return err
		}

		if codebase = viper.GetString(flags.Codebase); codebase == "" {
			var err error
			if codebase, err = launch.ExecutableCodebase(); err != nil {
				return fmt.Errorf("failed to locate the codebase: %w", err)
			}
		}
		log.Debug("Resolved codebase", "path", codebase)
		return nil
	},
}

func init() {
	nimbusctlCmd.AddCommand(completionCmd)
	nimbusctlCmd.AddCommand(defragCmd)
	nimbusctlCmd.AddCommand(docsCmd)
	nimbusctlCmd.AddCommand(envCmd)
	nimbusctlCmd.AddCommand(versionCmd)

	flags.Register(nimbusctlCmd.PersistentFlags())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	nimbusctlCmd.SetOut(os.Stdout)
	err := nimbusctlCmd.ExecuteContext(ctx)
	stop()

	os.Exit(report(os.Stdout, os.Stderr, err))
}

// report prints err and returns the exit status of the command line.
// A launched tool that exited with an error already reported it, only its status is kept.
// A missing basedir is reported on the standard output, like the launcher scripts did.
func report(stdout io.Writer, stderr io.Writer, err error) int {
	var exitErr launch.ExitError
	var basedirErr defrag.BasedirError

	switch {
	case err == nil:
	case errors.As(err, &exitErr):
	case errors.As(err, &basedirErr):
		lo.Must(fmt.Fprintln(stdout, color.HiRedString(basedirErr.Error())))
	default:
		lo.Must(fmt.Fprintln(stderr, color.HiRedString(err.Error())))
	}

	return launch.ExitCode(err)
}
