package plugin

import (
	"github.com/google/uuid"

	"github.com/batteryshark/agentkit/internal/errors"
)

// BundleInfo records where a registered plugin lives on disk.
type BundleInfo struct {
	// Path is the bundle directory
	Path string
	// Entrypoint is the executable implementing the tool protocol,
	// relative to Path; empty for declarative-only bundles
	Entrypoint string
}

// Registry is the aggregate produced by one load cycle. It is built by the
// Loader and immutable afterwards; downstream components only read it. A
// refreshed view requires a new full load.
type Registry struct {
	loadID string

	order   []string
	plugins map[string]Metadata
	bundles map[string]BundleInfo

	toolOrder []string
	tools     map[string]Tool
}

func newRegistry() *Registry {
	return &Registry{
		loadID:  uuid.NewString(),
		plugins: make(map[string]Metadata),
		bundles: make(map[string]BundleInfo),
		tools:   make(map[string]Tool),
	}
}

// addPlugin registers a validated plugin. Identifier collisions fail the
// later entrant only.
func (r *Registry) addPlugin(md Metadata, bundle BundleInfo) error {
	if _, exists := r.plugins[md.Identifier]; exists {
		return errors.NewDuplicateIdentifierError(md.Identifier)
	}
	r.plugins[md.Identifier] = md
	r.bundles[md.Identifier] = bundle
	r.order = append(r.order, md.Identifier)
	return nil
}

// addTool registers a tool under its qualified name. On collision the
// first-registered tool is kept and the duplicate is rejected.
func (r *Registry) addTool(t Tool) error {
	if _, exists := r.tools[t.QualifiedName]; exists {
		return errors.Newf(errors.ErrCodeDuplicateTool,
			"tool %q already registered, keeping first registration", t.QualifiedName)
	}
	r.tools[t.QualifiedName] = t
	r.toolOrder = append(r.toolOrder, t.QualifiedName)
	return nil
}

// LoadID identifies this load cycle in diagnostics.
func (r *Registry) LoadID() string {
	return r.loadID
}

// Identifiers returns plugin identifiers in registration order. Registration
// order is deterministic (sorted candidate order per root), which anchors the
// "first plugin wins" merge semantics downstream.
func (r *Registry) Identifiers() []string {
	return append([]string(nil), r.order...)
}

// Plugin returns the metadata registered under identifier.
func (r *Registry) Plugin(identifier string) (Metadata, bool) {
	md, ok := r.plugins[identifier]
	return md, ok
}

// Plugins returns all plugin metadata in registration order.
func (r *Registry) Plugins() []Metadata {
	out := make([]Metadata, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.plugins[id])
	}
	return out
}

// Bundle returns the on-disk location of a registered plugin.
func (r *Registry) Bundle(identifier string) (BundleInfo, bool) {
	b, ok := r.bundles[identifier]
	return b, ok
}

// Tool returns the tool registered under qualifiedName.
func (r *Registry) Tool(qualifiedName string) (Tool, bool) {
	t, ok := r.tools[qualifiedName]
	return t, ok
}

// Tools returns all tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.toolOrder))
	for _, qn := range r.toolOrder {
		out = append(out, r.tools[qn])
	}
	return out
}

// ToolsFor returns the tools exported by one plugin, in registration order.
func (r *Registry) ToolsFor(identifier string) []Tool {
	var out []Tool
	for _, qn := range r.toolOrder {
		if t := r.tools[qn]; t.PluginIdentifier == identifier {
			out = append(out, t)
		}
	}
	return out
}

// PluginCount reports the number of registered plugins.
func (r *Registry) PluginCount() int {
	return len(r.order)
}

// ToolCount reports the number of registered tools.
func (r *Registry) ToolCount() int {
	return len(r.toolOrder)
}
