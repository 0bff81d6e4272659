package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/batteryshark/agentkit/internal/errors"
	"github.com/batteryshark/agentkit/internal/log"
)

// Loader discovers plugin bundles under one or more roots and assembles a
// Registry. A failure in one bundle never aborts the rest of the scan; that
// fault isolation is the loader's defining property.
type Loader struct {
	roots  []string
	logger *log.Logger
}

// Failure records one candidate bundle that was skipped and why.
type Failure struct {
	// Candidate is the bundle directory name
	Candidate string
	// Path is the full bundle path
	Path string
	// Err is the typed load failure
	Err error
}

// Result is the outcome of one load cycle. Failures and Warnings are always
// populated, even when the loader runs silently; callers decide whether to
// surface them.
type Result struct {
	Registry *Registry
	Failures []Failure
	// Warnings records non-fatal skips such as duplicate tool names
	Warnings []string
}

// NewLoader creates a loader over the given plugin roots. A nil logger
// silences diagnostics without discarding failures.
func NewLoader(roots []string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Discard()
	}
	return &Loader{roots: roots, logger: logger}
}

// DefaultRoots returns the plugin search path: the AGENTKIT_PLUGIN_DIRS
// list when set, otherwise ./plugins plus ~/.agentkit/plugins.
func DefaultRoots() []string {
	if env := os.Getenv("AGENTKIT_PLUGIN_DIRS"); env != "" {
		var roots []string
		for _, dir := range filepath.SplitList(env) {
			if dir != "" {
				roots = append(roots, dir)
			}
		}
		return roots
	}

	roots := []string{"plugins"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(homeDir, ".agentkit", "plugins"))
	}
	return roots
}

// Load runs one full load cycle. Missing roots are skipped; a root that
// exists but cannot be read is the one structural failure that propagates.
func (l *Loader) Load() (*Result, error) {
	registry := newRegistry()
	result := &Result{Registry: registry}
	logger := l.logger.With("load_id", registry.LoadID())

	for _, root := range l.roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			logger.Debug("plugin root does not exist, skipping", "root", root)
			continue
		}

		// ReadDir returns entries sorted by name, which fixes the
		// "first plugin wins" order for downstream merge rules.
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDirUnreadable,
				fmt.Sprintf("cannot read plugin root %q", root), err)
		}

		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || strings.HasPrefix(entry.Name(), "_") {
				continue
			}
			l.loadBundle(registry, result, logger, root, entry.Name())
		}
	}

	logger.Info("load cycle complete",
		"plugins", registry.PluginCount(),
		"tools", registry.ToolCount(),
		"failures", len(result.Failures),
	)
	return result, nil
}

// loadBundle imports one candidate in isolation; any failure becomes a
// Failure entry rather than an abort.
func (l *Loader) loadBundle(registry *Registry, result *Result, logger *log.Logger, root, name string) {
	path := filepath.Join(root, name)
	fail := func(err error) {
		result.Failures = append(result.Failures, Failure{Candidate: name, Path: path, Err: err})
		logger.WithError(err).Warn("skipping plugin", "candidate", name)
	}

	identifier, err := deriveIdentifier(name)
	if err != nil {
		fail(errors.NewPluginLoadError(name, err))
		return
	}

	data, manifestPath, err := readManifest(path)
	if err != nil {
		fail(errors.NewPluginLoadError(name, err))
		return
	}

	m, err := parseManifest(data)
	if err != nil {
		fail(errors.NewPluginLoadError(name, err))
		return
	}

	md, problems := buildMetadata(identifier, m)
	if len(problems) > 0 {
		fail(errors.NewMetadataError(name, problems))
		return
	}

	bundle := BundleInfo{Path: path, Entrypoint: m.Exports.Entrypoint}
	if bundle.Entrypoint != "" {
		entrypointPath := filepath.Join(path, bundle.Entrypoint)
		if _, err := os.Stat(entrypointPath); err != nil {
			fail(errors.Newf(errors.ErrCodeNoEntrypoint,
				"plugin %q declares entrypoint %q but it does not exist", name, bundle.Entrypoint))
			return
		}
	}

	if err := registry.addPlugin(md, bundle); err != nil {
		fail(err)
		return
	}

	for _, decl := range m.Exports.Tools {
		tool := Tool{
			QualifiedName:    identifier + "." + decl.Name,
			Name:             decl.Name,
			PluginIdentifier: identifier,
			Description:      decl.Description,
			Params:           decl.Params,
			Returns:          decl.Returns,
		}
		if err := registry.addTool(tool); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			logger.WithError(err).Warn("skipping duplicate tool", "candidate", name)
			continue
		}
	}

	logger.Debug("plugin registered",
		"identifier", identifier,
		"version", md.Version,
		"tools", len(m.Exports.Tools),
		"manifest", manifestPath,
	)
}

// readManifest locates and reads the bundle's descriptor file.
func readManifest(bundlePath string) ([]byte, string, error) {
	for _, name := range manifestNames {
		manifestPath := filepath.Join(bundlePath, name)
		data, err := os.ReadFile(manifestPath)
		if err == nil {
			return data, manifestPath, nil
		}
		if !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("read manifest: %w", err)
		}
	}
	return nil, "", fmt.Errorf("no plugin manifest found (tried %s)", strings.Join(manifestNames, ", "))
}
