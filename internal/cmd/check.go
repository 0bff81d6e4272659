package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/batteryshark/agentkit/internal/envcheck"
	"github.com/batteryshark/agentkit/internal/ux"
)

var flagCheckEnvFile string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run all environment checks",
	Long:  `Load every plugin, then run validation and conflict detection in one pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadPlugins()
		if err != nil {
			return err
		}
		registry := result.Registry
		engine := envcheck.New(registry)

		lookup, err := environmentLookup(flagCheckEnvFile)
		if err != nil {
			return err
		}

		fmt.Println(ux.Heading("Running environment checks"))
		fmt.Println()

		vars := engine.AllVars()
		required := 0
		for _, v := range vars {
			if v.Required {
				required++
			}
		}
		fmt.Println(ux.Bullet("%d capabilities loaded", registry.PluginCount()))
		fmt.Println(ux.Bullet("%d tools registered", registry.ToolCount()))
		fmt.Println(ux.Bullet("%d environment variables (%d required)", len(vars), required))
		fmt.Println()

		missing := engine.Validate(lookup)
		conflicts := engine.Conflicts()

		if len(missing) > 0 {
			fmt.Println(ux.Fail("missing required environment variables:"))
			for _, name := range missing {
				fmt.Println(ux.Bullet("%s", name))
			}
		} else {
			fmt.Println(ux.Success("all required environment variables are set"))
		}

		if len(conflicts) > 0 {
			fmt.Println(ux.Warn("potential naming conflicts:"))
			for _, conflict := range conflicts {
				fmt.Println(ux.Bullet("%s", conflict))
			}
		} else {
			fmt.Println(ux.Success("no naming conflicts detected"))
		}

		if len(missing) > 0 || len(conflicts) > 0 {
			fmt.Println()
			fmt.Println(ux.Heading("Recommendations"))
			if len(missing) > 0 {
				fmt.Println(ux.Bullet("run 'agentkit generate' to create an env template"))
				fmt.Println(ux.Bullet("copy the template to .env and configure required variables"))
			}
			if len(conflicts) > 0 {
				fmt.Println(ux.Bullet("consider renaming conflicting variables for clarity"))
			}
		}

		return validationError(missing, conflicts)
	},
}

func init() {
	checkCmd.Flags().StringVar(&flagCheckEnvFile, "env-file", "",
		"dotenv file consulted for variables not set in the process environment")
	rootCmd.AddCommand(checkCmd)
}
