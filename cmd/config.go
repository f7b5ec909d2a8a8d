package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/opacbridge/config"
)

var configWorkflow string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the plugin mapping configuration",
	Long: `Inspect the plugin mapping configuration.

Subcommands:
  list  - List all config blocks in file order
  show  - Show the block selected for a catalogue and workflow`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List config blocks",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configShowCmd = &cobra.Command{
	Use:   "show <catalogue>",
	Short: "Show the config block selected for a catalogue",
	Long: `Show the config block selected for a catalogue as YAML.

The catalogue's database is used as the template name. Blocks are tried in
this order: workflow and template, workflow only, template only, and finally
the "*" template. The first block matching a rule is selected.

Examples:
  opacbridge config show GND-Places
  opacbridge config show GND-Places --workflow Manuscripts`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigShow,
}

func init() {
	configShowCmd.Flags().StringVarP(&configWorkflow, "workflow", "w", "", "Workflow name")
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configShowCmd)
}

func loadPluginConfig() (*config.App, *config.PluginConfig, error) {
	app, err := loadApp()
	if err != nil {
		return nil, nil, err
	}
	pc, err := config.LoadPlugin(app.PluginConfig)
	if err != nil {
		return nil, nil, err
	}
	return app, pc, nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	app, pc, err := loadPluginConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Plugin config: %s\n\n", app.PluginConfig)
	if len(pc.Blocks) == 0 {
		fmt.Println("No config blocks")
		return nil
	}

	for i, b := range pc.Blocks {
		fmt.Printf("  [%d] workflows=%s templates=%s\n", i,
			listOrDash(b.Workflows), listOrDash(b.Templates))
		fmt.Printf("      default type: %s, metadata: %d, persons: %d\n",
			b.Mapping.DefaultDocType, len(b.Mapping.Metadata), len(b.Mapping.Persons))
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	app, pc, err := loadPluginConfig()
	if err != nil {
		return err
	}

	c, err := app.Catalogue(args[0])
	if err != nil {
		return err
	}

	block, err := pc.Select(configWorkflow, c.Database)
	if err != nil {
		return fmt.Errorf("catalogue %s: %w", c.Name, err)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(block); err != nil {
		return fmt.Errorf("encoding config block: %w", err)
	}
	return enc.Close()
}

func listOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ",")
}
