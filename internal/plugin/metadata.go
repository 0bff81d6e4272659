// Package plugin implements plugin bundle discovery, metadata validation,
// and the registry shared by the dependency and environment subsystems.
package plugin

// EnvVarSpec is a single environment variable declared by a plugin.
type EnvVarSpec struct {
	// Name is the environment variable name (e.g. "API_KEY")
	Name string `json:"name" yaml:"name"`
	// Description explains what the variable configures
	Description string `json:"description" yaml:"description"`
	// Default is a suggested value for template generation; it does not
	// satisfy Required during validation
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
	// Required indicates the variable must be set in the process environment
	Required bool `json:"required" yaml:"required"`
}

// ToolParam describes one parameter of an exported tool. Signatures are
// data used for documentation and validation; the core never calls tools
// directly.
type ToolParam struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Tool is one exported capability, registered under its qualified name.
type Tool struct {
	// QualifiedName is "<plugin_identifier>.<tool_name>", unique per registry
	QualifiedName string `json:"qualified_name" yaml:"qualified_name"`
	// Name is the bare tool name within its plugin
	Name string `json:"name" yaml:"name"`
	// PluginIdentifier back-references the owning plugin
	PluginIdentifier string `json:"plugin_identifier" yaml:"plugin_identifier"`
	// Description is the tool's human-readable purpose
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Params describes the tool's parameters
	Params []ToolParam `json:"params,omitempty" yaml:"params,omitempty"`
	// Returns names the result type
	Returns string `json:"returns,omitempty" yaml:"returns,omitempty"`
}

// Metadata is a plugin bundle's validated self-description.
type Metadata struct {
	// Identifier is the unique registry key, derived from the bundle
	// directory name
	Identifier string `json:"identifier" yaml:"identifier"`
	// Name is the display name; not required to be unique
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	// Platform constrains the host platform ("any", "linux", ...)
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`
	// RuntimeRequires is the minimum host-runtime version constraint
	RuntimeRequires string `json:"runtime_requires,omitempty" yaml:"runtime_requires,omitempty"`
	// Dependencies are external library requirement specifiers, in
	// declaration order
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	// EnvVars are the declared environment variables in manifest
	// declaration order; order drives template output
	EnvVars []EnvVarSpec `json:"environment_variables,omitempty" yaml:"environment_variables,omitempty"`
}

// EnvVar returns the declared spec for name, if any.
func (m Metadata) EnvVar(name string) (EnvVarSpec, bool) {
	for _, v := range m.EnvVars {
		if v.Name == name {
			return v, true
		}
	}
	return EnvVarSpec{}, false
}
