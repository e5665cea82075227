package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/templates"
)

// newCommand creates the new command that writes a starter diagram.
func (c *CLI) newCommand() *cobra.Command {
	var (
		key    string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a diagram from a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := templates.Get(key)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "unknown template %q (available: %s)", key, strings.Join(templates.Keys(), ", "))
			}
			if output == "" {
				output = t.Filename()
			}
			if output == "-" {
				fmt.Fprint(cmd.OutOrStdout(), t.Code)
				return nil
			}
			if !force {
				if _, err := os.Stat(output); err == nil {
					return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", output)
				}
			}
			if err := os.WriteFile(output, []byte(t.Code), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeFileIO, err, "write %s", output)
			}

			printSuccess("Created %s", StyleHighlight.Render(t.Name))
			printFile(output)
			printNextStep("Preview it live", appName+" watch "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "template", "t", templates.DefaultKey, "template key (see `umlpad templates`)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	_ = cmd.RegisterFlagCompletionFunc("template", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return templates.Keys(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// templatesCommand creates the templates command that lists starter diagrams.
func (c *CLI) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in diagram templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, StyleTitle.Render("Templates"))
			for _, t := range templates.All() {
				printKeyValue(t.Key, t.Name+" "+StyleDim.Render("("+t.Engine+")"))
			}
			fmt.Fprintln(stdout)
			printNextStep("Create one", appName+" new -t class -o class.puml")
			return nil
		},
	}
}
