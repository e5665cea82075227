package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/umlpad/pkg/config"
	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/render/plantuml"
)

// doctorCommand checks that the render engine's dependencies are present.
func (c *CLI) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that PlantUML and the Java runtime can be found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			printKeyValue("engine", cfg.Render.Engine)
			if cfg.Render.Engine == config.EngineGraphviz {
				printSuccess("Graphviz is built in")
				return nil
			}

			paths := plantumlPaths(cfg)
			printKeyValue("jar", paths.JAR)
			printKeyValue("java", paths.Java)

			if err := plantuml.New(paths).Check(); err != nil {
				printError("%s", errors.UserMessage(err))
				printDetail("set plantuml.resources, plantuml.jar or plantuml.java in %s", config.DefaultPath())
				return errRenderFailed
			}
			printSuccess("PlantUML is ready")
			return nil
		},
	}
}
