package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/batteryshark/agentkit/internal/errors"
)

// DefaultInvokeTimeout bounds a single tool invocation.
const DefaultInvokeTimeout = 30 * time.Second

// InvokeRequest is the JSON message written to a bundle entrypoint's stdin.
type InvokeRequest struct {
	Action string         `json:"action"`
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params,omitempty"`
}

// InvokeResponse is the JSON message read from the entrypoint's stdout.
type InvokeResponse struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Runner invokes registered tools through their bundle's entrypoint using
// the JSON-over-stdio protocol. Invocation sits outside the reconciliation
// core; its failures never affect loading.
type Runner struct {
	registry *Registry
	timeout  time.Duration
}

// NewRunner creates a Runner over a loaded registry. A zero timeout means
// DefaultInvokeTimeout.
func NewRunner(registry *Registry, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultInvokeTimeout
	}
	return &Runner{registry: registry, timeout: timeout}
}

// Invoke runs the tool registered under qualifiedName with the given params.
func (r *Runner) Invoke(ctx context.Context, qualifiedName string, params map[string]any) (*InvokeResponse, error) {
	tool, ok := r.registry.Tool(qualifiedName)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeToolNotFound, "tool not found: %s", qualifiedName)
	}

	bundle, ok := r.registry.Bundle(tool.PluginIdentifier)
	if !ok {
		return nil, errors.Newf(errors.ErrCodePluginNotFound, "plugin not found: %s", tool.PluginIdentifier)
	}
	if bundle.Entrypoint == "" {
		return nil, errors.Newf(errors.ErrCodeNoEntrypoint,
			"plugin %q is declarative-only, tool %q cannot be invoked", tool.PluginIdentifier, tool.Name)
	}

	request := InvokeRequest{Action: "invoke", Tool: tool.Name, Params: params}
	requestData, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeToolExec, "serialize request", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	entrypointPath := filepath.Join(bundle.Path, bundle.Entrypoint)
	cmd := exec.CommandContext(execCtx, entrypointPath)
	cmd.Dir = bundle.Path
	cmd.Stdin = bytes.NewReader(requestData)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return nil, errors.Newf(errors.ErrCodeToolExec,
				"tool %s timed out after %v", qualifiedName, r.timeout)
		}
		return nil, errors.Wrap(errors.ErrCodeToolExec,
			fmt.Sprintf("tool %s failed (stderr: %s)", qualifiedName, stderr.String()), err)
	}

	var response InvokeResponse
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, errors.Wrap(errors.ErrCodeToolExec,
			fmt.Sprintf("unparseable response from %s (output: %s)", qualifiedName, stdout.String()), err)
	}

	return &response, nil
}
