package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/batteryshark/agentkit/internal/plugin"
	"github.com/batteryshark/agentkit/internal/ux"
)

var flagListFormat string

// pluginListing is the machine-readable shape of one loaded plugin.
type pluginListing struct {
	Metadata plugin.Metadata `json:"metadata" yaml:"metadata"`
	Tools    []plugin.Tool   `json:"tools,omitempty" yaml:"tools,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all plugins and their tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadPlugins()
		if err != nil {
			return err
		}
		registry := result.Registry

		if flagListFormat != "text" {
			listings := make([]pluginListing, 0, registry.PluginCount())
			for _, md := range registry.Plugins() {
				listings = append(listings, pluginListing{
					Metadata: md,
					Tools:    registry.ToolsFor(md.Identifier),
				})
			}
			formatter, err := ux.NewFormatter(flagListFormat, nil)
			if err != nil {
				return err
			}
			return formatter.Format(listings)
		}

		fmt.Println(ux.Heading(fmt.Sprintf("Loaded capabilities (%d)", registry.PluginCount())))
		fmt.Println()

		for _, md := range registry.Plugins() {
			fmt.Printf("%s v%s %s\n", md.Name, md.Version, ux.Dim("("+md.Identifier+")"))
			if md.Description != "" {
				fmt.Printf("   %s\n", md.Description)
			}

			if tools := registry.ToolsFor(md.Identifier); len(tools) > 0 {
				names := make([]string, 0, len(tools))
				for _, tool := range tools {
					names = append(names, tool.Name)
				}
				fmt.Printf("   Tools: %s\n", strings.Join(names, ", "))
			}

			var required, optional []string
			for _, spec := range md.EnvVars {
				if spec.Required {
					required = append(required, spec.Name)
				} else {
					optional = append(optional, spec.Name)
				}
			}
			if len(required) > 0 {
				fmt.Printf("   Required env vars: %s\n", strings.Join(required, ", "))
			}
			if len(optional) > 0 {
				fmt.Printf("   Optional env vars: %s\n", strings.Join(optional, ", "))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&flagListFormat, "format", "text",
		"output format (text, json, yaml)")
	rootCmd.AddCommand(listCmd)
}
