package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tokenmeta/internal/keycodec"
	"github.com/roach88/tokenmeta/internal/metadata"
)

func seededService(t *testing.T) *metadata.Service {
	t.Helper()
	svc := metadata.NewService(metadata.NewMemoryBackend())
	require.NoError(t, svc.Contract().SetValue(keycodec.Name, "c"))
	require.NoError(t, svc.Defaults().SetValues(keycodec.TraitType, []string{"Mood"}))
	require.NoError(t, svc.Entity(2).SetValue(keycodec.Image, "ipfs://2"))
	return svc
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	svc := seededService(t)
	result := NewResult()
	result.Events = make([]metadata.Event, 3)

	msgs := EvaluateAssertions(svc, result, []Assertion{
		{Type: AssertKeyCount, Scope: "contract", Count: 1},
		{Type: AssertKeyCount, Scope: "default", Count: 1},
		{Type: AssertKeyCount, Entity: 2, Count: 1},
		{Type: AssertKeyCount, Entity: 9, Count: 0},
		{Type: AssertValues, Entity: 9, Key: "trait_type", Values: []string{"Mood"}},
		{Type: AssertValues, Entity: 2, Key: "image", Values: []string{"ipfs://2"}},
		{Type: AssertValues, Scope: "contract", Key: "name", Values: []string{"c"}},
		{Type: AssertValues, Scope: "default", Key: "image"},
		{Type: AssertEventCount, Count: 3},
	})
	assert.Empty(t, msgs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	svc := seededService(t)
	result := NewResult()

	msgs := EvaluateAssertions(svc, result, []Assertion{
		{Type: AssertKeyCount, Scope: "contract", Count: 5},
		{Type: AssertKeyCount, Entity: 9, Count: 1},
		{Type: AssertValues, Entity: 2, Key: "image", Values: []string{"other"}},
		{Type: AssertValues, Key: "this_key_does_not_fit_in_thirty_two"},
		{Type: AssertEventCount, Count: 1},
		{Type: "bogus"},
	})
	require.Len(t, msgs, 6)
	assert.Contains(t, msgs[0], "assertions[0]: Assertion failed: key_count")
	assert.Contains(t, msgs[0], "Actual: 1 keys")
	assert.Contains(t, msgs[1], "entity has no store")
	assert.Contains(t, msgs[2], `image = ["other"]`)
	assert.Contains(t, msgs[3], "key exceeds 32 bytes")
	assert.Contains(t, msgs[4], "0 events")
	assert.Contains(t, msgs[5], `unknown assertion type "bogus"`)
}

func TestAssertionError(t *testing.T) {
	err := &AssertionError{Type: AssertEventCount, Expected: "2 events", Actual: "1 events"}
	assert.Equal(t, "Assertion failed: event_count\n  Expected: 2 events\n  Actual: 1 events", err.Error())
}
