package plugin

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest file names probed inside a bundle, in order.
var manifestNames = []string{"plugin.yaml", "plugin.yml", "plugin.json"}

var identifierPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// manifest mirrors the two required artifacts of the bundle contract:
// a metadata block and an exports block.
type manifest struct {
	Metadata manifestMetadata `yaml:"metadata"`
	Exports  manifestExports  `yaml:"exports"`
}

type manifestMetadata struct {
	Name            string   `yaml:"name"`
	Version         string   `yaml:"version"`
	Description     string   `yaml:"description"`
	Author          string   `yaml:"author"`
	Platform        string   `yaml:"platform"`
	RuntimeRequires string   `yaml:"runtime_requires"`
	Dependencies    []string `yaml:"dependencies"`
	// Decoded as a raw node so declaration order survives; yaml map
	// decoding would lose it and order drives template output.
	EnvironmentVariables yaml.Node `yaml:"environment_variables"`
}

type manifestEnvVar struct {
	Description string  `yaml:"description"`
	Default     *string `yaml:"default"`
	// Pointer so an absent key is distinguishable from an explicit false.
	Required *bool `yaml:"required"`
}

type manifestExports struct {
	Entrypoint string     `yaml:"entrypoint"`
	Tools      []toolDecl `yaml:"tools"`
}

type toolDecl struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Params      []ToolParam `yaml:"params"`
	Returns     string      `yaml:"returns"`
}

// parseManifest decodes manifest bytes. yaml.v3 accepts JSON input as well,
// so plugin.json goes through the same path and keeps key order.
func parseManifest(data []byte) (*manifest, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// deriveIdentifier normalizes a bundle directory name into a registry key.
func deriveIdentifier(dirName string) (string, error) {
	id := strings.ToLower(dirName)
	if !identifierPattern.MatchString(id) {
		return "", fmt.Errorf("directory name %q does not yield a valid identifier (want %s)",
			dirName, identifierPattern.String())
	}
	return id, nil
}

// buildMetadata validates a parsed manifest and assembles Metadata.
// Validation collects every problem instead of failing on the first one.
func buildMetadata(identifier string, m *manifest) (Metadata, []string) {
	var problems []string

	md := Metadata{
		Identifier:      identifier,
		Name:            m.Metadata.Name,
		Version:         m.Metadata.Version,
		Description:     m.Metadata.Description,
		Author:          m.Metadata.Author,
		Platform:        m.Metadata.Platform,
		RuntimeRequires: m.Metadata.RuntimeRequires,
		Dependencies:    append([]string(nil), m.Metadata.Dependencies...),
	}

	if md.Name == "" {
		problems = append(problems, "metadata.name is required")
	}
	if md.Version == "" {
		problems = append(problems, "metadata.version is required")
	}

	envVars, envProblems := decodeEnvVars(&m.Metadata.EnvironmentVariables)
	md.EnvVars = envVars
	problems = append(problems, envProblems...)

	// Duplicate tool names are not metadata problems: registration keeps
	// the first and records a warning for the rest.
	for i, tool := range m.Exports.Tools {
		if tool.Name == "" {
			problems = append(problems, fmt.Sprintf("exports.tools[%d]: name is required", i))
		}
	}

	return md, problems
}

// decodeEnvVars walks the environment_variables mapping node pairwise so
// declaration order is preserved.
func decodeEnvVars(node *yaml.Node) ([]EnvVarSpec, []string) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, []string{"metadata.environment_variables must be a mapping"}
	}

	var (
		specs    []EnvVarSpec
		problems []string
	)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		name := keyNode.Value
		if name == "" {
			problems = append(problems, "metadata.environment_variables: empty variable name")
			continue
		}

		var raw manifestEnvVar
		if err := valNode.Decode(&raw); err != nil {
			problems = append(problems, fmt.Sprintf("environment_variables.%s: %v", name, err))
			continue
		}
		if raw.Description == "" {
			problems = append(problems, fmt.Sprintf("environment_variables.%s: description is required", name))
		}
		if raw.Required == nil {
			problems = append(problems, fmt.Sprintf("environment_variables.%s: required must be specified", name))
		}

		spec := EnvVarSpec{
			Name:        name,
			Description: raw.Description,
		}
		if raw.Default != nil {
			spec.Default = *raw.Default
		}
		if raw.Required != nil {
			spec.Required = *raw.Required
		}
		specs = append(specs, spec)
	}
	return specs, problems
}
