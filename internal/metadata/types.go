package metadata

import "github.com/roach88/tokenmeta/internal/keycodec"

// EntityID is the integer identity of an entity. Allocation and lifecycle
// belong to the owning collection.
type EntityID uint64

// Scope names a storage tier.
type Scope int

const (
	ScopeContract Scope = iota
	ScopeDefault
	ScopeEntity
)

func (s Scope) String() string {
	switch s {
	case ScopeContract:
		return "contract"
	case ScopeDefault:
		return "default"
	case ScopeEntity:
		return "entity"
	default:
		return "unknown"
	}
}

// ParseScope converts the String form back into a Scope.
func ParseScope(value string) (Scope, bool) {
	switch value {
	case "contract":
		return ScopeContract, true
	case "default", "defaults":
		return ScopeDefault, true
	case "entity":
		return ScopeEntity, true
	default:
		return 0, false
	}
}

// Store is one key -> ordered values map.
//
// Values and Value never fail for a key that was never written; they return
// an empty list and an empty string. Errors are reserved for backend faults
// and for AddValues on a populated key.
type Store interface {
	Values(key keycodec.Key) ([]string, error)
	Value(key keycodec.Key) (string, error)
	SetValues(key keycodec.Key, values []string) error
	SetValue(key keycodec.Key, value string) error
	AddValues(key keycodec.Key, values []string) error
	AddValue(key keycodec.Key, value string) error
	KeyCount() (int, error)
}

// Backend owns the three tiers.
type Backend interface {
	// Contract returns the collection-wide store.
	Contract() Store

	// Defaults returns the store consulted when an entity has no override.
	Defaults() Store

	// Entity returns the override store for id, creating it if needed.
	Entity(id EntityID) Store

	// LookupEntity returns the override store for id without creating it.
	// ok is false when id has no store; err reports a backend failure.
	LookupEntity(id EntityID) (s Store, ok bool, err error)
}
