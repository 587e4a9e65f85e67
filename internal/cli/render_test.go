package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tokenmeta/internal/document"
)

const (
	collectionManifest = "testdata/manifests/collection.yaml"
	entityTwoJSON      = `{"name":"Awesome NFT!","description":"Awesome Description!","attributes":[{"trait_type":"Mood","value":"Happy"}]}`
	contractJSON       = `{"name":"Awesome Collection","description":"Every awesome thing","image":"ipfs://collection","external_link":"https://example.com"}`
)

func TestRenderEntityRaw(t *testing.T) {
	for _, backend := range ValidBackends {
		t.Run(backend, func(t *testing.T) {
			out, _, err := executeRoot(t, "render", collectionManifest, "--entity", "2", "--raw", "--backend", backend)
			require.NoError(t, err)
			assert.Equal(t, entityTwoJSON+"\n", out)
		})
	}
}

func TestRenderEntityURI(t *testing.T) {
	out, _, err := executeRoot(t, "render", collectionManifest, "--entity", "2")
	require.NoError(t, err)

	uri := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(uri, document.URIPrefix))
	text, err := document.DecodeURI(uri)
	require.NoError(t, err)
	assert.Equal(t, entityTwoJSON, text)
}

func TestRenderEntityWithoutOverrides(t *testing.T) {
	out, _, err := executeRoot(t, "render", collectionManifest, "--entity", "40", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, `"value":"Sad"`)
}

func TestRenderContract(t *testing.T) {
	out, _, err := executeRoot(t, "render", collectionManifest, "--contract", "--raw")
	require.NoError(t, err)
	assert.Equal(t, contractJSON+"\n", out)
}

func TestRenderJSONFormat(t *testing.T) {
	out, _, err := executeRoot(t, "render", collectionManifest, "--entity", "2", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "entity 2", resp.Data.Target)
	assert.Equal(t, entityTwoJSON, resp.Data.JSON)
	assert.Equal(t, document.EncodeURI(entityTwoJSON), resp.Data.URI)
}

func TestRenderSQLiteFile(t *testing.T) {
	db := filepath.Join(t.TempDir(), "meta.db")
	args := []string{"render", collectionManifest, "--backend", "sqlite", "--db", db, "--contract", "--raw"}

	out, _, err := executeRoot(t, args...)
	require.NoError(t, err)
	assert.Equal(t, contractJSON+"\n", out)

	out, _, err = executeRoot(t, args...)
	require.NoError(t, err)
	assert.Equal(t, contractJSON+"\n", out, "re-applying the manifest is idempotent")
}

func TestRenderMissingRequiredField(t *testing.T) {
	out, _, err := executeRoot(t, "render", "testdata/manifests/no_contract.yaml", "--contract")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E006]")
	assert.Contains(t, out, `missing required field "name"`)
}

func TestRenderTraitMismatch(t *testing.T) {
	_, _, err := executeRoot(t, "render", "testdata/manifests/mismatch.yaml", "--entity", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "trait_value has 1 entries but trait_type has 2")
}

func TestRenderMissingManifest(t *testing.T) {
	out, _, err := executeRoot(t, "render", "testdata/manifests/nope.yaml", "--entity", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestRenderSchemaViolation(t *testing.T) {
	out, _, err := executeRoot(t, "render", "testdata/manifests/bad_schema.yaml", "--entity", "1", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSchema, resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)
}

func TestRenderTargetFlags(t *testing.T) {
	_, _, err := executeRoot(t, "render", collectionManifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[entity contract]")

	_, _, err = executeRoot(t, "render", collectionManifest, "--entity", "1", "--contract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestRenderVerboseCountsWrites(t *testing.T) {
	_, errOut, err := executeRoot(t, "render", collectionManifest, "--entity", "2", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Loaded "+collectionManifest+" (1 entities, 9 writes) into memory backend")
}
