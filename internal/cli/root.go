package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/einkplacer/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Every command loads the configuration file in PersistentPreRunE; --config
// selects a file other than $XDG_CONFIG_HOME/einkplacer/config.toml.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "einkplacer lays out e-ink display screens",
		Long: `einkplacer composes e-ink display screens from text, button and image
elements, converts them between the editor canvas and device coordinates,
and stores layouts for the display to pick up.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/einkplacer/config.toml)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.saveCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
