package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/batteryshark/agentkit/internal/errors"
	"github.com/batteryshark/agentkit/internal/plugin"
	"github.com/batteryshark/agentkit/internal/ux"
)

var (
	flagToolParams  []string
	flagToolTimeout time.Duration
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect and invoke registered tools",
}

var toolsRunCmd = &cobra.Command{
	Use:   "run <plugin.tool>",
	Short: "Invoke a tool through its plugin's entrypoint",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadPlugins()
		if err != nil {
			return err
		}

		params, err := parseParams(flagToolParams)
		if err != nil {
			return err
		}

		runner := plugin.NewRunner(result.Registry, flagToolTimeout)
		response, err := runner.Invoke(cmd.Context(), args[0], params)
		if err != nil {
			return err
		}

		if !response.Success {
			return errors.Newf(errors.ErrCodeToolExec, "tool reported failure: %s", response.Error)
		}

		output, err := json.MarshalIndent(response.Result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	},
}

// parseParams turns repeated key=value flags into an invocation payload.
// Values that parse as JSON keep their type; everything else is a string.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q (want key=value)", pair)
		}

		var typed any
		if err := json.Unmarshal([]byte(value), &typed); err == nil {
			params[key] = typed
		} else {
			params[key] = value
		}
	}
	return params, nil
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered tool by qualified name",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadPlugins()
		if err != nil {
			return err
		}

		for _, tool := range result.Registry.Tools() {
			line := tool.QualifiedName
			if tool.Description != "" {
				line += " " + ux.Dim("- "+tool.Description)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	toolsRunCmd.Flags().StringArrayVarP(&flagToolParams, "param", "p", nil,
		"tool parameter as key=value (repeatable)")
	toolsRunCmd.Flags().DurationVar(&flagToolTimeout, "timeout", plugin.DefaultInvokeTimeout,
		"maximum time to wait for the tool")
	toolsCmd.AddCommand(toolsRunCmd)
	toolsCmd.AddCommand(toolsListCmd)
	rootCmd.AddCommand(toolsCmd)
}
