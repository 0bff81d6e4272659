package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/batteryshark/agentkit/internal/envcheck"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the environment variable summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadPlugins()
		if err != nil {
			return err
		}

		fmt.Print(envcheck.New(result.Registry).Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
