// Package envcheck reconciles environment-variable declarations across all
// loaded plugins: merging, validation, conflict detection, template
// generation, and reporting.
package envcheck

import (
	"fmt"
	"os"
	"strings"

	"github.com/batteryshark/agentkit/internal/plugin"
)

// Declaration is one plugin's declaration of an environment variable.
type Declaration struct {
	PluginIdentifier string
	Spec             plugin.EnvVarSpec
}

// MergedVar is the reconciled view of one variable name across plugins.
// Required escalates via OR; Description and Default come from the first
// plugin (registry order, then declaration order) with a non-empty value.
type MergedVar struct {
	Name        string
	Description string
	Default     string
	Required    bool
	// DeclaredBy lists every declaring plugin, in registry order
	DeclaredBy []string
}

// Conflict reports one variable declared with materially different specs.
type Conflict struct {
	Name    string
	Plugins []string
	Reasons []string
}

// String renders the conflict for human-readable reports.
func (c Conflict) String() string {
	return fmt.Sprintf("%s: declared by %s (%s)",
		c.Name, strings.Join(c.Plugins, ", "), strings.Join(c.Reasons, ", "))
}

// LookupFunc resolves an environment variable, mirroring os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// Engine reconciles the env declarations of a loaded registry. The registry
// is read-only to the engine; none of the read operations fail.
type Engine struct {
	registry *plugin.Registry

	// names in first-declaration order; this order is the contract for
	// validation output
	names []string
	decls map[string][]Declaration
}

// New builds an engine over a loaded registry.
func New(registry *plugin.Registry) *Engine {
	e := &Engine{
		registry: registry,
		decls:    make(map[string][]Declaration),
	}

	for _, md := range registry.Plugins() {
		for _, spec := range md.EnvVars {
			if _, seen := e.decls[spec.Name]; !seen {
				e.names = append(e.names, spec.Name)
			}
			e.decls[spec.Name] = append(e.decls[spec.Name], Declaration{
				PluginIdentifier: md.Identifier,
				Spec:             spec,
			})
		}
	}
	return e
}

// VarNames returns every declared variable name in first-declaration order.
func (e *Engine) VarNames() []string {
	return append([]string(nil), e.names...)
}

// Declarations returns every declaration of name, grouped in registry order.
func (e *Engine) Declarations(name string) []Declaration {
	return append([]Declaration(nil), e.decls[name]...)
}

// AllVars returns the merged spec for every declared variable, in
// first-declaration order.
func (e *Engine) AllVars() []MergedVar {
	out := make([]MergedVar, 0, len(e.names))
	for _, name := range e.names {
		out = append(out, e.merge(name))
	}
	return out
}

// Var returns the merged spec for one variable name.
func (e *Engine) Var(name string) (MergedVar, bool) {
	if _, ok := e.decls[name]; !ok {
		return MergedVar{}, false
	}
	return e.merge(name), true
}

func (e *Engine) merge(name string) MergedVar {
	merged := MergedVar{Name: name}
	for _, decl := range e.decls[name] {
		merged.DeclaredBy = append(merged.DeclaredBy, decl.PluginIdentifier)
		merged.Required = merged.Required || decl.Spec.Required
		if merged.Description == "" {
			merged.Description = decl.Spec.Description
		}
		if merged.Default == "" {
			merged.Default = decl.Spec.Default
		}
	}
	return merged
}

// Validate returns the names of merged-required variables that are absent
// or empty, in first-declaration order. A nil lookup reads the process
// environment; the environment itself is never mutated.
func (e *Engine) Validate(lookup LookupFunc) []string {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var missing []string
	for _, name := range e.names {
		merged := e.merge(name)
		if !merged.Required {
			continue
		}
		if value, ok := lookup(name); !ok || value == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Conflicts reports every variable declared with materially different specs:
// differing required flags, or differing non-empty defaults. Identical
// redeclarations are not conflicts.
func (e *Engine) Conflicts() []Conflict {
	var conflicts []Conflict
	for _, name := range e.names {
		decls := e.decls[name]
		if len(decls) < 2 {
			continue
		}

		var reasons []string

		requiredMismatch := false
		for _, decl := range decls[1:] {
			if decl.Spec.Required != decls[0].Spec.Required {
				requiredMismatch = true
				break
			}
		}
		if requiredMismatch {
			reasons = append(reasons, "required mismatch")
		}

		defaults := make(map[string]struct{})
		for _, decl := range decls {
			if decl.Spec.Default != "" {
				defaults[decl.Spec.Default] = struct{}{}
			}
		}
		if len(defaults) > 1 {
			reasons = append(reasons, "default mismatch")
		}

		if len(reasons) == 0 {
			continue
		}

		conflict := Conflict{Name: name, Reasons: reasons}
		for _, decl := range decls {
			conflict.Plugins = append(conflict.Plugins, decl.PluginIdentifier)
		}
		conflicts = append(conflicts, conflict)
	}
	return conflicts
}
