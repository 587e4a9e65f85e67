package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tokenmeta/internal/manifest"
	"github.com/roach88/tokenmeta/internal/metadata"
)

// Scenario is one metadata test case.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Backend selects the storage backend: "memory" (default) or "sqlite".
	Backend string `yaml:"backend,omitempty"`

	// Manifest is an optional manifest file applied before the steps.
	// LoadScenario resolves it relative to the scenario file.
	Manifest string `yaml:"manifest,omitempty"`

	// Steps are store mutations executed in order.
	Steps []Step `yaml:"steps,omitempty"`

	// Documents are rendered after all steps and compared.
	Documents []DocumentCheck `yaml:"documents,omitempty"`

	// Assertions validate final store state and emitted events.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one mutation.
type Step struct {
	// Op is "set" or "add".
	Op string `yaml:"op"`

	// Scope is "contract", "default" or "entity".
	Scope string `yaml:"scope"`

	// Entity is the target entity for entity scope.
	Entity metadata.EntityID `yaml:"entity,omitempty"`

	// Key is the textual key, at most 32 bytes.
	Key string `yaml:"key"`

	// Values is written as-is; an empty list clears the key.
	Values manifest.Values `yaml:"values"`

	// ExpectError, when set, must be a substring of the step's error.
	// When empty the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// DocumentCheck renders one document and compares it.
type DocumentCheck struct {
	// Entity selects an entity document. Exactly one of Entity and
	// Contract must be set.
	Entity *metadata.EntityID `yaml:"entity,omitempty"`

	// Contract selects the contract document.
	Contract bool `yaml:"contract,omitempty"`

	// Expect is compared structurally with the decoded document.
	Expect map[string]any `yaml:"expect,omitempty"`

	// JSON is compared byte for byte with the document text.
	JSON string `yaml:"json,omitempty"`

	// ExpectError, when set, must be a substring of the build error.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Label names the document in errors and snapshots.
func (d DocumentCheck) Label() string {
	if d.Contract {
		return "contract"
	}
	if d.Entity == nil {
		return "entity ?"
	}
	return fmt.Sprintf("entity %d", *d.Entity)
}

// Assertion validates final state.
type Assertion struct {
	// Type is one of key_count, values, event_count.
	Type string `yaml:"type"`

	// Scope selects the tier for key_count and values. For values the
	// default "entity" scope resolves through overrides and defaults.
	Scope string `yaml:"scope,omitempty"`

	// Entity is the target entity for entity scope.
	Entity metadata.EntityID `yaml:"entity,omitempty"`

	// Key is the key read by values.
	Key string `yaml:"key,omitempty"`

	// Values is the expected list for values.
	Values manifest.Values `yaml:"values,omitempty"`

	// Count is the expected number for key_count and event_count.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertKeyCount   = "key_count"
	AssertValues     = "values"
	AssertEventCount = "event_count"
)

// Step operations.
const (
	OpSet = "set"
	OpAdd = "add"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Manifest != "" && !filepath.IsAbs(scenario.Manifest) {
		scenario.Manifest = filepath.Join(filepath.Dir(path), scenario.Manifest)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files directly inside dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	switch s.Backend {
	case "", BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}
	if len(s.Steps) == 0 && len(s.Documents) == 0 && s.Manifest == "" {
		return fmt.Errorf("at least one of manifest, steps or documents is required")
	}
	if s.Manifest != "" {
		if _, err := os.Stat(s.Manifest); os.IsNotExist(err) {
			return fmt.Errorf("manifest file not found: %s", s.Manifest)
		}
	}

	for i, step := range s.Steps {
		switch step.Op {
		case OpSet, OpAdd:
		case "":
			return fmt.Errorf("steps[%d]: op is required", i)
		default:
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if _, ok := metadata.ParseScope(step.Scope); !ok {
			return fmt.Errorf("steps[%d]: unknown scope %q", i, step.Scope)
		}
		if step.Key == "" {
			return fmt.Errorf("steps[%d]: key is required", i)
		}
	}

	for i, doc := range s.Documents {
		if doc.Contract == (doc.Entity != nil) {
			return fmt.Errorf("documents[%d]: exactly one of entity or contract is required", i)
		}
		if doc.Expect == nil && doc.JSON == "" && doc.ExpectError == "" {
			return fmt.Errorf("documents[%d]: one of expect, json or expect_error is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Scope != "" {
		if _, ok := metadata.ParseScope(a.Scope); !ok {
			return fmt.Errorf("assertions[%d]: unknown scope %q", index, a.Scope)
		}
	}
	switch a.Type {
	case AssertKeyCount, AssertEventCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertValues:
		if strings.TrimSpace(a.Key) == "" {
			return fmt.Errorf("assertions[%d]: key is required for values", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
