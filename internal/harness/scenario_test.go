package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tokenmeta/internal/metadata"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/entity_overrides.yaml")
	require.NoError(t, err)

	assert.Equal(t, "entity_overrides", s.Name)
	assert.Equal(t, BackendSQLite, s.Backend)
	require.Len(t, s.Steps, 6)
	assert.Equal(t, OpAdd, s.Steps[4].Op)
	assert.Equal(t, metadata.EntityID(1), s.Steps[4].Entity)
	assert.Equal(t, "KEY_EXISTS", s.Steps[5].ExpectError)

	require.Len(t, s.Documents, 3)
	require.NotNil(t, s.Documents[0].Entity)
	assert.Equal(t, "entity 1", s.Documents[0].Label())
	assert.Equal(t, "contract", s.Documents[2].Label())
}

func TestLoadScenario_ResolvesManifestPath(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/manifest_contract.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "manifests", "collection.yaml"), s.Manifest)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	_, err := LoadScenario("testdata/invalid/unknown_field.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "step")
}

func TestLoadScenario_UnknownOp(t *testing.T) {
	_, err := LoadScenario("testdata/invalid/bad_op.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown op "delete"`)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestValidateScenario(t *testing.T) {
	one := metadata.EntityID(1)
	base := func() Scenario {
		return Scenario{
			Name:        "s",
			Description: "d",
			Steps:       []Step{{Op: OpSet, Scope: "default", Key: "name"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{"valid", func(*Scenario) {}, ""},
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"bad backend", func(s *Scenario) { s.Backend = "redis" }, `unknown backend "redis"`},
		{"empty", func(s *Scenario) { s.Steps = nil }, "at least one of"},
		{"missing op", func(s *Scenario) { s.Steps[0].Op = "" }, "op is required"},
		{"bad scope", func(s *Scenario) { s.Steps[0].Scope = "global" }, `unknown scope "global"`},
		{"missing key", func(s *Scenario) { s.Steps[0].Key = "" }, "key is required"},
		{"missing manifest", func(s *Scenario) { s.Manifest = "/nonexistent/m.yaml" }, "manifest file not found"},
		{"document without target", func(s *Scenario) {
			s.Documents = []DocumentCheck{{JSON: "{}"}}
		}, "exactly one of entity or contract"},
		{"document with both targets", func(s *Scenario) {
			s.Documents = []DocumentCheck{{Entity: &one, Contract: true, JSON: "{}"}}
		}, "exactly one of entity or contract"},
		{"document without expectation", func(s *Scenario) {
			s.Documents = []DocumentCheck{{Contract: true}}
		}, "one of expect, json or expect_error"},
		{"assertion without type", func(s *Scenario) {
			s.Assertions = []Assertion{{}}
		}, "type is required"},
		{"unknown assertion", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: "trace_order"}}
		}, `unknown assertion type "trace_order"`},
		{"values without key", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertValues}}
		}, "key is required for values"},
		{"negative count", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertEventCount, Count: -1}}
		}, "count must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)
			err := validateScenario(&s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	files, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, files)
}
