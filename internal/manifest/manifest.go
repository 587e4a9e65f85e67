package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tokenmeta/internal/keycodec"
	"github.com/roach88/tokenmeta/internal/metadata"
)

// Manifest is the decoded form of a manifest file.
type Manifest struct {
	Contract Fields                       `yaml:"contract,omitempty"`
	Defaults Fields                       `yaml:"defaults,omitempty"`
	Entities map[metadata.EntityID]Fields `yaml:"entities,omitempty"`
}

// Load reads, schema-checks and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := CheckSchema(path, data); err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses manifest YAML. Unknown top-level sections are rejected.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// EntityIDs returns the entity IDs in ascending order.
func (m *Manifest) EntityIDs() []metadata.EntityID {
	ids := make([]metadata.EntityID, 0, len(m.Entities))
	for id := range m.Entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Apply writes every field into svc with SetValues. Keys are written in
// sorted order within each tier: contract, then defaults, then entities by
// ascending ID.
func (m *Manifest) Apply(svc *metadata.Service) error {
	if err := applyFields(svc.Contract(), m.Contract); err != nil {
		return fmt.Errorf("contract: %w", err)
	}
	if err := applyFields(svc.Defaults(), m.Defaults); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for _, id := range m.EntityIDs() {
		if err := applyFields(svc.Entity(id), m.Entities[id]); err != nil {
			return fmt.Errorf("entity %d: %w", id, err)
		}
	}
	return nil
}

func applyFields(s metadata.Store, fields Fields) error {
	for _, name := range sortedNames(fields) {
		key, err := keycodec.FromString(name)
		if err != nil {
			return err
		}
		if err := s.SetValues(key, fields[name]); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

func sortedNames(fields Fields) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
