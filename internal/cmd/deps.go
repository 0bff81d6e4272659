package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/batteryshark/agentkit/internal/depcheck"
	"github.com/batteryshark/agentkit/internal/errors"
	"github.com/batteryshark/agentkit/internal/ux"
)

var (
	flagDepsOutput string
	flagDepsFormat string
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Report external library requirements across all plugins",
	Long: `Derive each plugin's external library requirements (declared dependencies
first, source-scan inference as fallback) and aggregate them into one
deduplicated, sorted requirements list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadPlugins()
		if err != nil {
			return err
		}

		extractor := depcheck.NewExtractor(nil)
		report, err := extractor.Aggregate(result.Registry)
		if err != nil {
			return err
		}

		if flagDepsFormat != "text" {
			formatter, err := ux.NewFormatter(flagDepsFormat, nil)
			if err != nil {
				return err
			}
			return formatter.Format(report)
		}

		requirements := report.Requirements()
		if flagDepsOutput != "" {
			if err := os.WriteFile(flagDepsOutput, requirements, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeFileWriteFailed,
					fmt.Sprintf("failed to write requirements file %q", flagDepsOutput), err)
			}
			fmt.Println(ux.Success("wrote %s (%d requirements)", flagDepsOutput, len(report.Combined)))
			return nil
		}

		os.Stdout.Write(requirements)
		return nil
	},
}

func init() {
	depsCmd.Flags().StringVarP(&flagDepsOutput, "output", "o", "",
		"write the requirements list to a file instead of stdout")
	depsCmd.Flags().StringVar(&flagDepsFormat, "format", "text",
		"output format (text, json, yaml)")
	rootCmd.AddCommand(depsCmd)
}
