package depcheck

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/batteryshark/agentkit/internal/plugin"
)

type bundleFixture struct {
	manifest string
	files    map[string]string
}

func loadFixtures(t *testing.T, bundles map[string]bundleFixture) *plugin.Registry {
	t.Helper()
	root := t.TempDir()
	for name, fixture := range bundles {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.yaml"), []byte(fixture.manifest), 0o644))
		for file, content := range fixture.files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
		}
	}

	result, err := plugin.NewLoader([]string{root}, nil).Load()
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	return result.Registry
}

func manifestWithDeps(name string, deps ...string) string {
	m := "metadata:\n  name: " + name + "\n  version: \"1.0.0\"\n"
	if len(deps) > 0 {
		m += "  dependencies:\n"
		for _, dep := range deps {
			m += "    - " + dep + "\n"
		}
	}
	return m
}

func TestExtractDeclaredWins(t *testing.T) {
	registry := loadFixtures(t, map[string]bundleFixture{
		"declared": {
			manifest: manifestWithDeps("Declared", "pydantic>=2.0.0", "requests"),
			// Source imports should be ignored when deps are declared.
			files: map[string]string{"tool.py": "import numpy\n"},
		},
	})

	reqs, err := NewExtractor(nil).Extract(registry, "declared")
	require.NoError(t, err)
	assert.Equal(t, []string{"pydantic>=2.0.0", "requests"}, reqs)
}

func TestExtractInfersFromSource(t *testing.T) {
	registry := loadFixtures(t, map[string]bundleFixture{
		"inferred": {
			manifest: manifestWithDeps("Inferred"),
			files: map[string]string{
				"core.py": `import os
import requests
import yaml
from pydantic import Field
from utils import helper
from . import sibling
`,
				"utils.py": `import sys, json
import requests
`,
			},
		},
	})

	reqs, err := NewExtractor(nil).Extract(registry, "inferred")
	require.NoError(t, err)

	// stdlib (os, sys, json), local modules (utils, sibling-relative), and
	// duplicates are all filtered; yaml maps to its distribution name.
	assert.Equal(t, []string{"PyYAML", "pydantic", "requests"}, reqs)
}

func TestExtractUnknownPlugin(t *testing.T) {
	registry := loadFixtures(t, map[string]bundleFixture{
		"known": {manifest: manifestWithDeps("Known")},
	})

	_, err := NewExtractor(nil).Extract(registry, "nope")
	assert.Error(t, err)
}

func TestAggregateDeduplicatesAndSorts(t *testing.T) {
	registry := loadFixtures(t, map[string]bundleFixture{
		"a_one": {manifest: manifestWithDeps("One", "foo", "bar")},
		"b_two": {manifest: manifestWithDeps("Two", "bar", "baz")},
	})

	report, err := NewExtractor(nil).Aggregate(registry)
	require.NoError(t, err)

	assert.Equal(t, []string{"bar", "baz", "foo"}, report.Combined)
	assert.Equal(t, []string{"bar", "foo"}, report.PerPlugin["a_one"])
	assert.Equal(t, []string{"bar", "baz"}, report.PerPlugin["b_two"])
}

func TestRequirementsOutputIsDeterministic(t *testing.T) {
	registry := loadFixtures(t, map[string]bundleFixture{
		"a_one": {manifest: manifestWithDeps("One", "zlib-ng", "requests", "aiohttp")},
		"b_two": {manifest: manifestWithDeps("Two", "requests")},
	})

	extractor := NewExtractor(nil)
	first, err := extractor.Aggregate(registry)
	require.NoError(t, err)
	second, err := extractor.Aggregate(registry)
	require.NoError(t, err)

	assert.Equal(t, first.Requirements(), second.Requirements())
	assert.Equal(t, "aiohttp\nrequests\nzlib-ng\n", string(first.Requirements()))
}

func TestRequirementsEmptyReport(t *testing.T) {
	report := &Report{}
	assert.Empty(t, report.Requirements())
}

func TestPythonImports(t *testing.T) {
	roots := pythonImports([]byte(`
import os
import requests as r
import numpy, pandas
from yaml import safe_load
from .relative import thing
from package.sub import name
	indented = "import fake"
`))

	assert.Equal(t, []string{"os", "requests", "numpy", "pandas", "yaml", "package"}, roots)
}

func TestClassifier(t *testing.T) {
	c := DefaultClassifier()
	assert.True(t, c.IsStdlib("os"))
	assert.False(t, c.IsStdlib("requests"))
	assert.Equal(t, "PyYAML", c.Requirement("yaml"))
	assert.Equal(t, "requests", c.Requirement("requests"))

	custom := NewClassifier([]string{"fmt"}, map[string]string{"redis": "redis-py"})
	assert.True(t, custom.IsStdlib("fmt"))
	assert.Equal(t, "redis-py", custom.Requirement("redis"))
}

func TestCombinedSetSortedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		deps := rapid.SliceOfN(rapid.StringMatching(`[a-z][a-z0-9-]{0,8}`), 0, 12).Draw(t, "deps")

		set := make(map[string]struct{})
		for _, d := range deps {
			set[d] = struct{}{}
		}
		combined := make([]string, 0, len(set))
		for d := range set {
			combined = append(combined, d)
		}
		sort.Strings(combined)

		report := &Report{Combined: combined}
		rendered := string(report.Requirements())

		if len(combined) == 0 {
			if rendered != "" {
				t.Fatalf("empty combined set should render nothing")
			}
			return
		}

		lines := strings.Split(strings.TrimSuffix(rendered, "\n"), "\n")
		if !sort.StringsAreSorted(lines) {
			t.Fatalf("requirements output not sorted: %q", rendered)
		}
		if len(lines) != len(combined) {
			t.Fatalf("expected %d lines, got %d", len(combined), len(lines))
		}
	})
}
