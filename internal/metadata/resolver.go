package metadata

import (
	"fmt"

	"github.com/roach88/tokenmeta/internal/keycodec"
)

// Resolver reads values with override precedence.
type Resolver struct {
	backend Backend
}

// NewResolver returns a Resolver over b.
func NewResolver(b Backend) *Resolver {
	return &Resolver{backend: b}
}

// Resolve returns the entity's own values for key when it has any, and the
// default tier's values otherwise. Reading never creates an entity store.
func (r *Resolver) Resolve(id EntityID, key keycodec.Key) ([]string, error) {
	s, ok, err := r.backend.LookupEntity(id)
	if err != nil {
		return nil, fmt.Errorf("resolve %s for entity %d: %w", key, id, err)
	}
	if ok {
		v, err := s.Values(key)
		if err != nil {
			return nil, fmt.Errorf("resolve %s for entity %d: %w", key, id, err)
		}
		if len(v) > 0 {
			return v, nil
		}
	}
	v, err := r.backend.Defaults().Values(key)
	if err != nil {
		return nil, fmt.Errorf("resolve default %s: %w", key, err)
	}
	return v, nil
}

// ResolveValue returns the first resolved value, or "".
func (r *Resolver) ResolveValue(id EntityID, key keycodec.Key) (string, error) {
	v, err := r.Resolve(id, key)
	if err != nil {
		return "", err
	}
	if len(v) == 0 {
		return "", nil
	}
	return v[0], nil
}

// ContractValues reads key from the contract tier only.
func (r *Resolver) ContractValues(key keycodec.Key) ([]string, error) {
	v, err := r.backend.Contract().Values(key)
	if err != nil {
		return nil, fmt.Errorf("resolve contract %s: %w", key, err)
	}
	return v, nil
}

// ContractValue returns the first contract-tier value for key, or "".
func (r *Resolver) ContractValue(key keycodec.Key) (string, error) {
	v, err := r.ContractValues(key)
	if err != nil {
		return "", err
	}
	if len(v) == 0 {
		return "", nil
	}
	return v[0], nil
}
