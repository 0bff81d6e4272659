package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodePluginLoad, "test error message")

	if err.Code != ErrCodePluginLoad {
		t.Errorf("expected code %s, got %s", ErrCodePluginLoad, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeFileReadFailed, "failed to read file", cause)

	if err.Code != ErrCodeFileReadFailed {
		t.Errorf("expected code %s, got %s", ErrCodeFileReadFailed, err.Code)
	}

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	// Test unwrapping
	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *AgentKitError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeEnvMissing, "missing required variable"),
			wantCode: "ENV-001",
			wantMsg:  "missing required variable",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeFileWriteFailed, "write failed", fmt.Errorf("permission denied")),
			wantCode: "IO-003",
			wantMsg:  "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}

			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain message %s, got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestMetadataErrorListsAllProblems(t *testing.T) {
	err := NewMetadataError("broken", []string{
		"metadata.name is required",
		"metadata.version is required",
		"environment_variables.API_KEY: description is required",
	})

	errStr := err.Error()
	for _, want := range []string{"metadata.name", "metadata.version", "API_KEY"} {
		if !strings.Contains(errStr, want) {
			t.Errorf("metadata error should mention %q, got: %s", want, errStr)
		}
	}
}

func TestErrorsAsExtractsCode(t *testing.T) {
	var kitErr *AgentKitError
	wrapped := fmt.Errorf("outer: %w", NewDuplicateIdentifierError("text_processor"))

	if !errors.As(wrapped, &kitErr) {
		t.Fatalf("errors.As should find AgentKitError")
	}
	if kitErr.Code != ErrCodeDuplicateIdentifier {
		t.Errorf("expected %s, got %s", ErrCodeDuplicateIdentifier, kitErr.Code)
	}
}

func TestWithSuggestion(t *testing.T) {
	err := New(ErrCodeEnvConflict, "conflicting declarations").
		WithSuggestion("Rename one of the variables")

	if len(err.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(err.Suggestions))
	}
	if !strings.Contains(err.Error(), "Rename one of the variables") {
		t.Errorf("suggestions should appear in error string")
	}
}
