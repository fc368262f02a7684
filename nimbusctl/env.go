package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alessio/shellescape"
	"github.com/nimbusio/nimbusctl/launch"
	"github.com/nimbusio/nimbusctl/nodeconfig"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var envCmd = &cobra.Command{
	Use:   "env BASEDIR",
	Short: "Shows the variables a node config defines",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := nodeconfig.Load(afero.NewOsFs(), args[0], lo.Must(cmd.Flags().GetInt("node")), func(name string) (string, bool) {
			return launch.Lookup(os.Environ(), name)
		})
		if err != nil {
			return err
		}

		typed := lo.Must(cmd.Flags().GetBool("typed"))
		strict := lo.Must(cmd.Flags().GetBool("strict"))
		var settings nodeconfig.Settings
		if typed || strict {
			if settings, err = config.Settings(); err != nil {
				return err
			}
		}
		if strict {
			if err := settings.Validate(); err != nil {
				return fmt.Errorf("invalid node config %s: %w", config.File, err)
			}
		}

		switch format := lo.Must(cmd.Flags().GetString("format")); format {
		case "shell":
			return renderShell(cmd.OutOrStdout(), config)
		case "json":
			return renderJSON(cmd.OutOrStdout(), lo.Ternary[any](typed, settings, config.Map()))
		case "yaml":
			if typed {
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(settings)
			}
			return renderYAML(cmd.OutOrStdout(), config)
		default:
			return fmt.Errorf("unknown format '%s'", format)
		}
	},
}

func init() {
	envCmd.Flags().Int("node", 1, "node whose config is loaded")
	envCmd.Flags().StringP("format", "o", "shell", "output format (shell, json, yaml)")
	envCmd.Flags().Bool("typed", false, "show the typed cluster settings instead of the raw variables (json, yaml)")
	envCmd.Flags().Bool("strict", false, "validate the node config")
}

// renderShell writes the variables as export statements that can be sourced back.
func renderShell(w io.Writer, config *nodeconfig.NodeConfig) error {
	for _, v := range config.Vars() {
		if _, err := fmt.Fprintf(w, "export %s=%s\n", v.Name, shellescape.Quote(v.Value)); err != nil {
			return err
		}
	}
	return nil
}

func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// renderYAML writes the variables as a mapping, keeping their source order.
func renderYAML(w io.Writer, config *nodeconfig.NodeConfig) error {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, v := range config.Vars() {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Value},
		)
	}

	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(mapping)
}
