package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/batteryshark/agentkit/internal/envcheck"
	"github.com/batteryshark/agentkit/internal/ux"
)

var flagGenerateOutput string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an environment template file",
	Long: `Generate an env template covering every variable declared by the loaded
plugins, grouped by plugin with descriptions and suggested defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadPlugins()
		if err != nil {
			return err
		}

		engine := envcheck.New(result.Registry)
		digest, err := engine.WriteTemplate(flagGenerateOutput)
		if err != nil {
			return err
		}

		vars := engine.AllVars()
		required := 0
		for _, v := range vars {
			if v.Required {
				required++
			}
		}

		fmt.Println(ux.Success("generated %s", flagGenerateOutput))
		fmt.Println(ux.Bullet("%d capabilities loaded", result.Registry.PluginCount()))
		fmt.Println(ux.Bullet("%d environment variables (%d required)", len(vars), required))
		fmt.Println(ux.Dim("template digest: " + digest))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&flagGenerateOutput, "output", "o", ".env.template",
		"output file path")
	rootCmd.AddCommand(generateCmd)
}
