package harness

import (
	"fmt"
	"reflect"

	"github.com/roach88/tokenmeta/internal/keycodec"
	"github.com/roach88/tokenmeta/internal/metadata"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s\n  Expected: %s\n  Actual: %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against svc and result and
// returns one message per failure.
func EvaluateAssertions(svc *metadata.Service, result *Result, assertions []Assertion) []string {
	var msgs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertKeyCount:
			err = assertKeyCount(svc.Backend(), a)
		case AssertValues:
			err = assertValues(svc, a)
		case AssertEventCount:
			err = assertEventCount(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return msgs
}

// assertKeyCount reads the tier's key count. An entity that was never
// written has a count of zero.
func assertKeyCount(b metadata.Backend, a Assertion) error {
	scope, _ := metadata.ParseScope(a.Scope)
	if a.Scope == "" {
		scope = metadata.ScopeEntity
	}

	var s metadata.Store
	switch scope {
	case metadata.ScopeContract:
		s = b.Contract()
	case metadata.ScopeDefault:
		s = b.Defaults()
	default:
		var ok bool
		var err error
		s, ok, err = b.LookupEntity(a.Entity)
		if err != nil {
			return err
		}
		if !ok {
			if a.Count == 0 {
				return nil
			}
			return &AssertionError{
				Type:     AssertKeyCount,
				Expected: fmt.Sprintf("%d keys for entity %d", a.Count, a.Entity),
				Actual:   "entity has no store",
			}
		}
	}

	n, err := s.KeyCount()
	if err != nil {
		return err
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertKeyCount,
			Expected: fmt.Sprintf("%d keys in %s tier", a.Count, scope),
			Actual:   fmt.Sprintf("%d keys", n),
		}
	}
	return nil
}

// assertValues compares a key's values. Entity scope (the default) reads
// through the resolver; contract and default scopes read their tier
// directly.
func assertValues(svc *metadata.Service, a Assertion) error {
	key, err := keycodec.FromString(a.Key)
	if err != nil {
		return err
	}

	scope, _ := metadata.ParseScope(a.Scope)
	if a.Scope == "" {
		scope = metadata.ScopeEntity
	}

	var got []string
	switch scope {
	case metadata.ScopeContract:
		got, err = svc.Resolver().ContractValues(key)
	case metadata.ScopeDefault:
		got, err = svc.Backend().Defaults().Values(key)
	default:
		got, err = svc.Resolver().Resolve(a.Entity, key)
	}
	if err != nil {
		return err
	}

	want := []string(a.Values)
	if len(want) == 0 && len(got) == 0 {
		return nil
	}
	if !reflect.DeepEqual(want, got) {
		return &AssertionError{
			Type:     AssertValues,
			Expected: fmt.Sprintf("%s = %q", a.Key, want),
			Actual:   fmt.Sprintf("%s = %q", a.Key, got),
		}
	}
	return nil
}

func assertEventCount(result *Result, a Assertion) error {
	if len(result.Events) != a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d events", a.Count),
			Actual:   fmt.Sprintf("%d events", len(result.Events)),
		}
	}
	return nil
}
