// Package cmd implements the agentkit command-line front-end: a thin
// dispatcher over the plugin loader, environment reconciliation engine,
// and dependency extractor.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/batteryshark/agentkit/internal/errors"
	"github.com/batteryshark/agentkit/internal/log"
	"github.com/batteryshark/agentkit/internal/plugin"
	"github.com/batteryshark/agentkit/internal/ux"
)

var (
	flagPluginDirs []string
	flagVerbose    bool
	flagLogLevel   string
	flagLogFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "agentkit",
	Short: "Manage agent capabilities and environment",
	Long: `agentkit is a capability-extension layer for AI agents and MCP servers.
It discovers self-describing plugin bundles, aggregates the tools and
environment variables they declare, checks their external-library
dependencies, and reconciles everything into one validated configuration
surface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config := log.DefaultConfig()
		config.Level = log.ParseLevel(flagLogLevel)
		if flagVerbose {
			config = log.VerboseConfig()
		}
		config.Format = log.ParseFormat(flagLogFormat)
		log.SetDefault(log.New(config))
	},
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringArrayVar(&flagPluginDirs, "plugins-dir", nil,
		"plugin root directory (repeatable; default: ./plugins, ~/.agentkit/plugins, or $AGENTKIT_PLUGIN_DIRS)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug diagnostics")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", log.LevelWarn.String(),
		"minimum log severity (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text",
		"log output format (text, json)")

	// Flag parse failures exit with the usage code, not the general one.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(errors.ErrCodeUsage, "invalid command usage", err)
	})
}

// exactArgs mirrors cobra.ExactArgs but reports the failure as a usage
// error so the process exits with the usage code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return errors.Wrap(errors.ErrCodeUsage, "invalid command usage", err)
		}
		return nil
	}
}

// loadPlugins runs one load cycle over the configured roots. Per-plugin
// failures are reported on stderr but never abort the command.
func loadPlugins() (*plugin.Result, error) {
	roots := flagPluginDirs
	if len(roots) == 0 {
		roots = plugin.DefaultRoots()
	}

	loader := plugin.NewLoader(roots, log.Default())
	result, err := loader.Load()
	if err != nil {
		return nil, err
	}

	for _, failure := range result.Failures {
		fmt.Fprintln(os.Stderr, ux.Warn("skipped plugin %s: %v", failure.Candidate, failure.Err))
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(os.Stderr, ux.Warn("%s", warning))
	}
	return result, nil
}
