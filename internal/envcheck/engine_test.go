package envcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/batteryshark/agentkit/internal/plugin"
)

// loadRegistry builds a real registry from manifest fixtures. Bundle
// directory names are chosen so lexicographic load order matches the
// intended registration order.
func loadRegistry(t *testing.T, bundles map[string]string) *plugin.Registry {
	t.Helper()
	root := t.TempDir()
	for name, manifest := range bundles {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.yaml"), []byte(manifest), 0o644))
	}

	result, err := plugin.NewLoader([]string{root}, nil).Load()
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	return result.Registry
}

func envManifest(name string, vars string) string {
	return fmt.Sprintf("metadata:\n  name: %s\n  version: \"1.0.0\"\n  environment_variables:\n%s", name, vars)
}

func TestAllVarsIsExactUnion(t *testing.T) {
	registry := loadRegistry(t, map[string]string{
		"a_text": envManifest("Text", `    TEXT_MAX_LENGTH:
      description: Maximum text length
      required: false
    SHARED_TOKEN:
      description: Shared auth token
      required: true
`),
		"b_search": envManifest("Search", `    SEARCH_API_KEY:
      description: Search backend key
      required: true
    SHARED_TOKEN:
      description: Shared auth token
      required: true
`),
	})

	engine := New(registry)

	names := engine.VarNames()
	assert.ElementsMatch(t, []string{"TEXT_MAX_LENGTH", "SHARED_TOKEN", "SEARCH_API_KEY"}, names)
	// First-declaration order.
	assert.Equal(t, []string{"TEXT_MAX_LENGTH", "SHARED_TOKEN", "SEARCH_API_KEY"}, names)

	merged, ok := engine.Var("SHARED_TOKEN")
	require.True(t, ok)
	assert.Equal(t, []string{"a_text", "b_search"}, merged.DeclaredBy)
}

func TestMergeRequiredEscalates(t *testing.T) {
	for _, tc := range []struct {
		name          string
		first, second bool
	}{
		{"optional then required", false, true},
		{"required then optional", true, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			registry := loadRegistry(t, map[string]string{
				"a_one": envManifest("One", fmt.Sprintf(`    SHARED:
      description: from one
      required: %v
`, tc.first)),
				"b_two": envManifest("Two", fmt.Sprintf(`    SHARED:
      description: from two
      required: %v
`, tc.second)),
			})

			merged, ok := New(registry).Var("SHARED")
			require.True(t, ok)
			assert.True(t, merged.Required, "required must escalate via OR")
		})
	}
}

func TestMergeFirstNonEmptyWins(t *testing.T) {
	registry := loadRegistry(t, map[string]string{
		// First declarer has no description or default.
		"a_one": envManifest("One", `    SHARED:
      description: " "
      required: false
`),
		"b_two": envManifest("Two", `    SHARED:
      description: from the second plugin
      default: "fallback"
      required: false
`),
	})

	merged, ok := New(registry).Var("SHARED")
	require.True(t, ok)
	// " " is non-empty, so the first declarer's description sticks;
	// the default comes from the first plugin declaring one.
	assert.Equal(t, " ", merged.Description)
	assert.Equal(t, "fallback", merged.Default)
}

func TestValidateReportsMissingRequired(t *testing.T) {
	registry := loadRegistry(t, map[string]string{
		"a_api": envManifest("API", `    API_KEY:
      description: backend key
      required: true
    OPTIONAL_FLAG:
      description: feature flag
      required: false
`),
	})

	env := map[string]string{}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	engine := New(registry)
	assert.Equal(t, []string{"API_KEY"}, engine.Validate(lookup))

	// An empty value counts as unset.
	env["API_KEY"] = ""
	assert.Equal(t, []string{"API_KEY"}, engine.Validate(lookup))

	env["API_KEY"] = "secret"
	assert.Empty(t, engine.Validate(lookup))
}

func TestValidateOrderFollowsFirstDeclaration(t *testing.T) {
	registry := loadRegistry(t, map[string]string{
		"a_one": envManifest("One", `    ZULU_KEY:
      description: declared first
      required: true
    ALPHA_KEY:
      description: declared second
      required: true
`),
		"b_two": envManifest("Two", `    MIKE_KEY:
      description: declared third
      required: true
`),
	})

	missing := New(registry).Validate(func(string) (string, bool) { return "", false })
	assert.Equal(t, []string{"ZULU_KEY", "ALPHA_KEY", "MIKE_KEY"}, missing)
}

func TestConflictsDetectsMaterialDifferences(t *testing.T) {
	registry := loadRegistry(t, map[string]string{
		"a_one": envManifest("One", `    TIMEOUT_SECONDS:
      description: request timeout
      default: "30"
      required: false
    RETRIES:
      description: retry budget
      default: "3"
      required: false
    MODE:
      description: runtime mode
      required: false
`),
		"b_two": envManifest("Two", `    TIMEOUT_SECONDS:
      description: request timeout
      default: "30"
      required: false
    RETRIES:
      description: retry budget
      default: "5"
      required: false
    MODE:
      description: runtime mode
      required: true
`),
	})

	conflicts := New(registry).Conflicts()
	require.Len(t, conflicts, 2)

	byName := make(map[string]Conflict)
	for _, c := range conflicts {
		byName[c.Name] = c
	}

	// Identical TIMEOUT_SECONDS declarations are not a conflict.
	assert.NotContains(t, byName, "TIMEOUT_SECONDS")

	retries := byName["RETRIES"]
	assert.Equal(t, []string{"a_one", "b_two"}, retries.Plugins)
	assert.Equal(t, []string{"default mismatch"}, retries.Reasons)
	assert.Contains(t, retries.String(), "a_one, b_two")

	mode := byName["MODE"]
	assert.Equal(t, []string{"required mismatch"}, mode.Reasons)
}

func TestConflictsEmptyDefaultIsNotMaterial(t *testing.T) {
	registry := loadRegistry(t, map[string]string{
		"a_one": envManifest("One", `    SHARED:
      description: shared setting
      default: "10"
      required: false
`),
		"b_two": envManifest("Two", `    SHARED:
      description: shared setting
      required: false
`),
	})

	// Only one non-empty default exists, so there is nothing to dispute.
	assert.Empty(t, New(registry).Conflicts())
}

func TestPluginWithoutEnvVarsContributesNothing(t *testing.T) {
	registry := loadRegistry(t, map[string]string{
		"a_bare": "metadata:\n  name: Bare\n  version: \"1.0.0\"\n",
	})

	engine := New(registry)
	assert.Empty(t, engine.AllVars())
	assert.Empty(t, engine.Validate(nil))
	assert.Empty(t, engine.Conflicts())
}

func TestRequiredEscalationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		firstRequired := rapid.Bool().Draw(t, "firstRequired")
		secondRequired := rapid.Bool().Draw(t, "secondRequired")

		decls := map[string][]Declaration{
			"VAR": {
				{PluginIdentifier: "a", Spec: plugin.EnvVarSpec{Name: "VAR", Required: firstRequired}},
				{PluginIdentifier: "b", Spec: plugin.EnvVarSpec{Name: "VAR", Required: secondRequired}},
			},
		}
		engine := &Engine{names: []string{"VAR"}, decls: decls}

		merged, ok := engine.Var("VAR")
		if !ok {
			t.Fatalf("merged var missing")
		}
		if merged.Required != (firstRequired || secondRequired) {
			t.Fatalf("required = %v, want OR of (%v, %v)", merged.Required, firstRequired, secondRequired)
		}
	})
}
