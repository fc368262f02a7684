package main

import (
	"os"
	"path/filepath"

	"github.com/nimbusio/nimbusctl/launch/defrag"
	"github.com/nimbusio/nimbusctl/nimbusctl/log"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var defragCmd = &cobra.Command{
	Use:   "defrag BASEDIR",
	Short: "Runs the defragger against a node of a simulated cluster",
	Long: `Loads the node config found in BASEDIR/config, then runs the defragger with the
variables it defines added to the environment. The config file is parsed, never
executed: it may only contain variable assignments.`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		script := lo.Must(cmd.Flags().GetString("script"))
		if script == "" {
			script = filepath.Join(codebase, defrag.DefaultScript)
		}

		d := defrag.Defragger{
			Fs:          afero.NewOsFs(),
			Basedir:     args[0],
			Node:        lo.Must(cmd.Flags().GetInt("node")),
			Interpreter: lo.Must(cmd.Flags().GetString("interpreter")),
			Script:      script,
			Environ:     os.Environ(),
			Strict:      lo.Must(cmd.Flags().GetBool("strict")),
			Logger:      log.Base,
			Stdin:       cmd.InOrStdin(),
			Stdout:      cmd.OutOrStdout(),
			Stderr:      cmd.ErrOrStderr(),
		}

		if lo.Must(cmd.Flags().GetBool("dry-run")) {
			command, err := d.Command()
			if err != nil {
				return err
			}
			cmd.Println(command.String())
			return nil
		}

		return d.Run(cmd.Context())
	},
}

func init() {
	defragCmd.Flags().Int("node", 1, "node whose config is loaded")
	defragCmd.Flags().String("interpreter", defrag.DefaultInterpreter, "interpreter running the defragger")
	defragCmd.Flags().String("script", "", "defragger script (defaults to "+defrag.DefaultScript+" in the codebase)")
	defragCmd.Flags().Bool("strict", false, "validate the node config before launching")
	defragCmd.Flags().BoolP("dry-run", "n", false, "show the command without running it")
}
