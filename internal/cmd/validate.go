package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/batteryshark/agentkit/internal/envcheck"
	"github.com/batteryshark/agentkit/internal/errors"
	"github.com/batteryshark/agentkit/internal/ux"
)

var flagEnvFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the current environment configuration",
	Long: `Check that every required environment variable declared by the loaded
plugins is set, and that no plugins declare the same variable with
conflicting specs. Exits non-zero when problems are found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadPlugins()
		if err != nil {
			return err
		}

		engine := envcheck.New(result.Registry)

		lookup, err := environmentLookup(flagEnvFile)
		if err != nil {
			return err
		}

		missing := engine.Validate(lookup)
		conflicts := engine.Conflicts()

		if len(missing) == 0 && len(conflicts) == 0 {
			fmt.Println(ux.Success("environment configuration is valid"))
			return nil
		}

		if len(missing) > 0 {
			fmt.Println(ux.Fail("missing required environment variables:"))
			for _, name := range missing {
				fmt.Println(ux.Bullet("%s", name))
			}
		}
		if len(conflicts) > 0 {
			fmt.Println(ux.Warn("potential naming conflicts detected:"))
			for _, conflict := range conflicts {
				fmt.Println(ux.Bullet("%s", conflict))
			}
		}

		return validationError(missing, conflicts)
	},
}

// environmentLookup builds the variable resolver for validation. The process
// environment always wins; when an env file is given, its entries fill the
// gaps. godotenv.Read parses without mutating the environment.
func environmentLookup(envFile string) (envcheck.LookupFunc, error) {
	if envFile == "" {
		return nil, nil
	}

	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEnvFile,
			fmt.Sprintf("failed to read env file %q", envFile), err)
	}

	return func(name string) (string, bool) {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value, true
		}
		value, ok := fileVars[name]
		return value, ok
	}, nil
}

// validationError maps non-empty result lists to the coded errors the exit
// code layer understands.
func validationError(missing []string, conflicts []envcheck.Conflict) error {
	if len(missing) > 0 {
		return errors.Newf(errors.ErrCodeEnvMissing,
			"%d required environment variable(s) unset", len(missing))
	}
	if len(conflicts) > 0 {
		return errors.Newf(errors.ErrCodeEnvConflict,
			"%d environment variable naming conflict(s)", len(conflicts))
	}
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&flagEnvFile, "env-file", "",
		"dotenv file consulted for variables not set in the process environment")
	rootCmd.AddCommand(validateCmd)
}
