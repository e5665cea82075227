package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/umlpad/pkg/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var yamlOut bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (defaults, file and environment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			syntax := config.SyntaxTOML
			if yamlOut {
				syntax = config.SyntaxYAML
			}
			return config.Encode(cmd.OutOrStdout(), cfg, syntax)
		},
	}

	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "print as YAML instead of TOML")
	return cmd
}
