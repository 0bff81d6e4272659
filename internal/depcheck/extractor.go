// Package depcheck derives the external library requirements of loaded
// plugins: declared metadata first, source-scan inference as fallback, plus
// registry-wide aggregation into a deduplicated requirements list.
package depcheck

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/batteryshark/agentkit/internal/errors"
	"github.com/batteryshark/agentkit/internal/plugin"
)

// ScanFunc extracts imported module roots from one source file.
type ScanFunc func(data []byte) []string

// Extractor derives per-plugin requirement sets.
type Extractor struct {
	classifier *Classifier
	// scanners maps file extensions to inference scanners; injectable so
	// bundles in other runtimes can plug in their own
	scanners map[string]ScanFunc
}

// Report maps each plugin to its requirement set, plus the deduplicated
// union used for requirements-file generation.
type Report struct {
	PerPlugin map[string][]string
	Combined  []string
}

// NewExtractor creates an extractor; a nil classifier means
// DefaultClassifier.
func NewExtractor(classifier *Classifier) *Extractor {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	return &Extractor{
		classifier: classifier,
		scanners:   map[string]ScanFunc{".py": pythonImports},
	}
}

// RegisterScanner adds or replaces the inference scanner for an extension.
func (x *Extractor) RegisterScanner(ext string, scan ScanFunc) {
	x.scanners[ext] = scan
}

// Extract returns the requirement set for one plugin, sorted. Declared
// dependencies win; source inference is the fallback when nothing is
// declared.
func (x *Extractor) Extract(registry *plugin.Registry, identifier string) ([]string, error) {
	md, ok := registry.Plugin(identifier)
	if !ok {
		return nil, errors.Newf(errors.ErrCodePluginNotFound, "plugin not found: %s", identifier)
	}

	if len(md.Dependencies) > 0 {
		return sortedSet(md.Dependencies), nil
	}

	bundle, ok := registry.Bundle(identifier)
	if !ok {
		return nil, nil
	}
	return x.inferFromSource(bundle.Path)
}

// Aggregate extracts every plugin's requirements and combines them.
func (x *Extractor) Aggregate(registry *plugin.Registry) (*Report, error) {
	report := &Report{PerPlugin: make(map[string][]string)}

	combined := make(map[string]struct{})
	for _, identifier := range registry.Identifiers() {
		reqs, err := x.Extract(registry, identifier)
		if err != nil {
			return nil, err
		}
		report.PerPlugin[identifier] = reqs
		for _, req := range reqs {
			combined[req] = struct{}{}
		}
	}

	for req := range combined {
		report.Combined = append(report.Combined, req)
	}
	sort.Strings(report.Combined)
	return report, nil
}

// Requirements renders the combined set one specifier per line, sorted
// lexicographically. Byte-identical across runs over the same registry.
func (r *Report) Requirements() []byte {
	if len(r.Combined) == 0 {
		return nil
	}
	return []byte(strings.Join(r.Combined, "\n") + "\n")
}

// inferFromSource walks the bundle and collects third-party import roots.
// Best effort: unreadable files are skipped, not failures.
func (x *Extractor) inferFromSource(bundlePath string) ([]string, error) {
	found := make(map[string]struct{})
	local := localModules(bundlePath)

	err := filepath.WalkDir(bundlePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		scan, ok := x.scanners[filepath.Ext(path)]
		if !ok {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		for _, root := range scan(data) {
			if x.classifier.IsStdlib(root) {
				continue
			}
			if _, isLocal := local[root]; isLocal {
				continue
			}
			found[x.classifier.Requirement(root)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDepScan, "scan bundle source", err)
	}

	var reqs []string
	for req := range found {
		reqs = append(reqs, req)
	}
	sort.Strings(reqs)
	return reqs, nil
}

// localModules lists top-level names the bundle itself provides, so its own
// modules are never mistaken for external requirements.
func localModules(bundlePath string) map[string]struct{} {
	local := make(map[string]struct{})
	entries, err := os.ReadDir(bundlePath)
	if err != nil {
		return local
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			local[name] = struct{}{}
			continue
		}
		local[strings.TrimSuffix(name, filepath.Ext(name))] = struct{}{}
	}
	return local
}

// pythonImports scans for import / from statements and returns module roots.
// Relative imports are skipped.
func pythonImports(data []byte) []string {
	var roots []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "import "):
			for _, clause := range strings.Split(strings.TrimPrefix(line, "import "), ",") {
				if fields := strings.Fields(clause); len(fields) > 0 {
					if root := moduleRoot(fields[0]); root != "" {
						roots = append(roots, root)
					}
				}
			}
		case strings.HasPrefix(line, "from "):
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				if root := moduleRoot(fields[1]); root != "" {
					roots = append(roots, root)
				}
			}
		}
	}
	return roots
}

func moduleRoot(module string) string {
	if module == "" || strings.HasPrefix(module, ".") {
		return ""
	}
	root, _, _ := strings.Cut(module, ".")
	return root
}

func sortedSet(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
