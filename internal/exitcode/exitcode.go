package exitcode

import (
	"errors"
	"os"

	kiterrors "github.com/batteryshark/agentkit/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// ValidationFailure indicates missing required environment variables or
	// naming conflicts; the environment data itself is the failure, not the run
	ValidationFailure = 2

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 3

	// Interrupted indicates the run was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var kitErr *kiterrors.AgentKitError
	if errors.As(err, &kitErr) {
		switch kitErr.Code {
		case kiterrors.ErrCodeEnvMissing, kiterrors.ErrCodeEnvConflict:
			return ValidationFailure
		case kiterrors.ErrCodeUsage, kiterrors.ErrCodePluginNotFound, kiterrors.ErrCodeToolNotFound:
			return UsageError
		}
	}

	return GeneralError
}

// Description returns a human-readable description of an exit code
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ValidationFailure:
		return "Environment validation failure"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case Interrupted:
		return "Interrupted by user"
	default:
		return "Unknown error"
	}
}
