package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tokenmeta/internal/keycodec"
	"github.com/roach88/tokenmeta/internal/metadata"
)

// BackendFactory returns a fresh, empty backend for one subtest.
type BackendFactory func(t *testing.T) metadata.Backend

// RunBackendConformance checks the store and tier behavior every
// metadata.Backend must share.
func RunBackendConformance(t *testing.T, newBackend BackendFactory) {
	t.Helper()

	stores := map[string]func(metadata.Backend) metadata.Store{
		"contract": func(b metadata.Backend) metadata.Store { return b.Contract() },
		"default":  func(b metadata.Backend) metadata.Store { return b.Defaults() },
		"entity":   func(b metadata.Backend) metadata.Store { return b.Entity(7) },
	}

	for name, pick := range stores {
		t.Run(name, func(t *testing.T) {
			runStoreConformance(t, func(t *testing.T) metadata.Store {
				return pick(newBackend(t))
			})
		})
	}

	t.Run("tiers are independent", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Contract().SetValue(keycodec.Name, "contract"))
		require.NoError(t, b.Defaults().SetValue(keycodec.Name, "default"))
		require.NoError(t, b.Entity(1).SetValue(keycodec.Name, "one"))

		assertValue(t, b.Contract(), keycodec.Name, "contract")
		assertValue(t, b.Defaults(), keycodec.Name, "default")
		assertValue(t, b.Entity(1), keycodec.Name, "one")
		assertValue(t, b.Entity(2), keycodec.Name, "")
	})

	t.Run("entity stores are created lazily", func(t *testing.T) {
		b := newBackend(t)
		_, ok, err := b.LookupEntity(3)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, b.Entity(3).SetValue(keycodec.Image, "ipfs://x"))

		s, ok, err := b.LookupEntity(3)
		require.NoError(t, err)
		require.True(t, ok)
		assertValue(t, s, keycodec.Image, "ipfs://x")
	})

	t.Run("entity stores do not alias", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Entity(1).AddValue(keycodec.Name, "first"))
		require.NoError(t, b.Entity(2).AddValue(keycodec.Name, "second"))

		assertValue(t, b.Entity(1), keycodec.Name, "first")
		assertValue(t, b.Entity(2), keycodec.Name, "second")
	})
}

func runStoreConformance(t *testing.T, newStore func(t *testing.T) metadata.Store) {
	t.Helper()

	t.Run("unset key is empty", func(t *testing.T) {
		s := newStore(t)
		for _, k := range keycodec.Vocabulary() {
			v, err := s.Values(k)
			require.NoError(t, err)
			assert.Empty(t, v)
			assertValue(t, s, k, "")
		}
		n, err := s.KeyCount()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("set then get preserves order", func(t *testing.T) {
		s := newStore(t)
		values := []string{"Sad", "152", "76", "Quirky", ""}
		require.NoError(t, s.SetValues(keycodec.TraitValue, values))

		got, err := s.Values(keycodec.TraitValue)
		require.NoError(t, err)
		assert.Equal(t, values, got)
		assertValue(t, s, keycodec.TraitValue, "Sad")
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetValues(keycodec.TraitType, []string{"a", "b", "c"}))
		require.NoError(t, s.SetValues(keycodec.TraitType, []string{"z"}))

		got, err := s.Values(keycodec.TraitType)
		require.NoError(t, err)
		assert.Equal(t, []string{"z"}, got)
	})

	t.Run("add twice fails and keeps first", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddValues(keycodec.Description, []string{"v1", "v1b"}))

		err := s.AddValues(keycodec.Description, []string{"v2"})
		require.Error(t, err)
		assert.True(t, metadata.IsKeyExists(err))
		assert.Contains(t, err.Error(), "description")

		err = s.AddValue(keycodec.Description, "v3")
		assert.True(t, metadata.IsKeyExists(err))

		got, err := s.Values(keycodec.Description)
		require.NoError(t, err)
		assert.Equal(t, []string{"v1", "v1b"}, got)
	})

	t.Run("add after set fails", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetValue(keycodec.Image, "a"))
		assert.True(t, metadata.IsKeyExists(s.AddValue(keycodec.Image, "b")))
		assertValue(t, s, keycodec.Image, "a")
	})

	t.Run("set after add succeeds", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddValue(keycodec.Image, "a"))
		require.NoError(t, s.SetValue(keycodec.Image, "b"))
		assertValue(t, s, keycodec.Image, "b")
	})

	t.Run("key count grows once per key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetValue(keycodec.Name, "a"))
		require.NoError(t, s.SetValue(keycodec.Name, "b"))
		require.NoError(t, s.SetValues(keycodec.Name, []string{"c", "d"}))
		require.NoError(t, s.AddValue(keycodec.Image, "img"))

		n, err := s.KeyCount()
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("empty set does not count", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetValues(keycodec.Name, nil))

		n, err := s.KeyCount()
		require.NoError(t, err)
		assert.Zero(t, n)

		// an emptied key may be defined again
		require.NoError(t, s.AddValue(keycodec.Name, "x"))
		n, err = s.KeyCount()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		s := newStore(t)
		in := []string{"a", "b"}
		require.NoError(t, s.SetValues(keycodec.TraitType, in))
		in[0] = "mutated"

		got, err := s.Values(keycodec.TraitType)
		require.NoError(t, err)
		got[1] = "mutated"

		again, err := s.Values(keycodec.TraitType)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, again)
	})
}

func assertValue(t *testing.T, s metadata.Store, key keycodec.Key, want string) {
	t.Helper()
	got, err := s.Value(key)
	require.NoError(t, err)
	assert.Equal(t, want, got, "value of %s", key)
}
