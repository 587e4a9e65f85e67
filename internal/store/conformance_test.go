package store

import (
	"testing"

	"github.com/roach88/tokenmeta/internal/metadata"
	"github.com/roach88/tokenmeta/internal/testutil"
)

func TestSQLiteBackendConformance(t *testing.T) {
	testutil.RunBackendConformance(t, func(t *testing.T) metadata.Backend {
		return createTestStore(t)
	})
}
