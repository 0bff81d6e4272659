package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Plugin errors (PLUGIN-001 to PLUGIN-099)
	ErrCodePluginLoad          ErrorCode = "PLUGIN-001"
	ErrCodePluginMetadata      ErrorCode = "PLUGIN-002"
	ErrCodeDuplicateIdentifier ErrorCode = "PLUGIN-003"
	ErrCodeDuplicateTool       ErrorCode = "PLUGIN-004"
	ErrCodePluginNotFound      ErrorCode = "PLUGIN-005"
	ErrCodeToolNotFound        ErrorCode = "PLUGIN-006"
	ErrCodeNoEntrypoint        ErrorCode = "PLUGIN-007"
	ErrCodeToolExec            ErrorCode = "PLUGIN-008"

	// Environment errors (ENV-001 to ENV-099)
	ErrCodeEnvMissing  ErrorCode = "ENV-001"
	ErrCodeEnvConflict ErrorCode = "ENV-002"
	ErrCodeEnvFile     ErrorCode = "ENV-003"

	// Dependency errors (DEP-001 to DEP-099)
	ErrCodeDepScan ErrorCode = "DEP-001"

	// CLI errors (CLI-001 to CLI-099)
	ErrCodeUsage ErrorCode = "CLI-001"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirUnreadable   ErrorCode = "IO-004"
)

// AgentKitError represents an enhanced error with code and suggestions
type AgentKitError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *AgentKitError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *AgentKitError) Unwrap() error {
	return e.Cause
}

// New creates a new AgentKitError
func New(code ErrorCode, message string) *AgentKitError {
	return &AgentKitError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AgentKitError with a formatted message
func Newf(code ErrorCode, format string, args ...any) *AgentKitError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new AgentKitError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *AgentKitError {
	return &AgentKitError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *AgentKitError) WithSuggestion(suggestion string) *AgentKitError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// Common error constructors

// NewPluginLoadError marks a single bundle as failed without aborting the load cycle
func NewPluginLoadError(candidate string, cause error) *AgentKitError {
	return Wrap(ErrCodePluginLoad, fmt.Sprintf("failed to load plugin %q", candidate), cause)
}

// NewMetadataError reports every missing or malformed metadata field at once
func NewMetadataError(candidate string, problems []string) *AgentKitError {
	return New(ErrCodePluginMetadata,
		fmt.Sprintf("invalid metadata for plugin %q: %s", candidate, strings.Join(problems, "; "))).
		WithSuggestion("Check the plugin.yaml manifest against the bundle contract")
}

// NewDuplicateIdentifierError reports an identifier collision with an earlier bundle
func NewDuplicateIdentifierError(identifier string) *AgentKitError {
	return Newf(ErrCodeDuplicateIdentifier, "plugin identifier %q already registered", identifier).
		WithSuggestion("Rename the bundle directory to a unique identifier")
}

// NewTemplateWriteError reports a template file write failure, the one hard failure
// in the reconciliation engine
func NewTemplateWriteError(path string, cause error) *AgentKitError {
	return Wrap(ErrCodeFileWriteFailed, fmt.Sprintf("failed to write env template %q", path), cause).
		WithSuggestion("Check that the output directory exists and is writable")
}
