package token

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tokenmeta/internal/document"
	"github.com/roach88/tokenmeta/internal/jsonenc"
	"github.com/roach88/tokenmeta/internal/keycodec"
	"github.com/roach88/tokenmeta/internal/metadata"
	"github.com/roach88/tokenmeta/internal/testutil"
)

const admin = "0xadmin"

func newTestCollection(t *testing.T) (*Collection, *testutil.Recorder) {
	t.Helper()
	rec := &testutil.Recorder{}
	svc := metadata.NewService(metadata.NewMemoryBackend(),
		metadata.WithNotifier(rec),
		metadata.WithIDGenerator(testutil.NewSequenceGenerator("")),
	)
	return NewCollection(svc, NewAdminSet(admin)), rec
}

func decodeDocument(t *testing.T, uri string) map[string]any {
	t.Helper()
	text, err := document.DecodeURI(uri)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &doc))
	return doc
}

func TestMintAllocatesSequentialIDs(t *testing.T) {
	c, _ := newTestCollection(t)
	assert.Equal(t, metadata.EntityID(1), c.Mint("alice"))
	assert.Equal(t, metadata.EntityID(2), c.Mint("bob"))

	owner, err := c.OwnerOf(2)
	require.NoError(t, err)
	assert.Equal(t, "bob", owner)
}

func TestTransferAndBurn(t *testing.T) {
	c, _ := newTestCollection(t)
	id := c.Mint("alice")

	require.NoError(t, c.Transfer(id, "carol"))
	owner, err := c.OwnerOf(id)
	require.NoError(t, err)
	assert.Equal(t, "carol", owner)

	require.NoError(t, c.Burn(id))
	assert.False(t, c.Exists(id))
	assert.True(t, IsNotFound(c.Burn(id)))
	assert.True(t, IsNotFound(c.Transfer(id, "dave")))

	_, err = c.OwnerOf(id)
	assert.True(t, IsNotFound(err))
}

func TestBurnedIDsAreNotReused(t *testing.T) {
	c, _ := newTestCollection(t)
	id := c.Mint("alice")
	require.NoError(t, c.Burn(id))
	assert.NotEqual(t, id, c.Mint("bob"))
}

func TestTokenURIDefaultsOnly(t *testing.T) {
	c, _ := newTestCollection(t)
	require.NoError(t, c.SetDefaultValue(admin, keycodec.Name, "Awesome NFT!"))
	require.NoError(t, c.SetDefaultValue(admin, keycodec.Description, "Awesome Description!"))
	id := c.Mint("alice")

	uri, err := c.TokenURI(id)
	require.NoError(t, err)

	text, err := document.DecodeURI(uri)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Awesome NFT!","description":"Awesome Description!"}`, text)
}

func TestTokenURIWithOverrides(t *testing.T) {
	c, _ := newTestCollection(t)
	require.NoError(t, c.SetDefaultValue(admin, keycodec.Name, "Awesome NFT!"))
	require.NoError(t, c.SetDefaultValue(admin, keycodec.Description, "Awesome Description!"))
	require.NoError(t, c.SetDefaultValues(admin, keycodec.TraitType, []string{"Mood"}))
	require.NoError(t, c.SetDefaultValues(admin, keycodec.TraitValue, []string{"Sad"}))

	a := c.Mint("alice")
	b := c.Mint("bob")
	require.NoError(t, c.SetEntityValue(admin, b, keycodec.Description, "Bob's own"))
	require.NoError(t, c.AddEntityValues(admin, b, keycodec.TraitValue, []string{"Happy"}))

	docA := decodeDocument(t, mustURI(t, c, a))
	docB := decodeDocument(t, mustURI(t, c, b))

	assert.Equal(t, "Awesome Description!", docA["description"])
	assert.Equal(t, "Bob's own", docB["description"])
	assert.Equal(t, "Awesome NFT!", docB["name"])

	attrsB := docB["attributes"].([]any)
	assert.Equal(t, "Happy", attrsB[0].(map[string]any)["value"])
}

func mustURI(t *testing.T, c *Collection, id metadata.EntityID) string {
	t.Helper()
	uri, err := c.TokenURI(id)
	require.NoError(t, err)
	return uri
}

func TestTokenURIUnknownEntity(t *testing.T) {
	c, _ := newTestCollection(t)
	_, err := c.TokenURI(42)
	assert.True(t, IsNotFound(err))
}

func TestTokenURIMissingName(t *testing.T) {
	c, _ := newTestCollection(t)
	id := c.Mint("alice")
	_, err := c.TokenURI(id)
	assert.True(t, document.IsMissingField(err, "name"))
}

func TestContractURI(t *testing.T) {
	c, _ := newTestCollection(t)
	require.NoError(t, c.SetContractValue(admin, keycodec.Name, "Collection"))
	require.NoError(t, c.SetContractValue(admin, keycodec.Description, "All of them"))
	require.NoError(t, c.SetContractValue(admin, keycodec.Image, "ipfs://logo"))
	require.NoError(t, c.SetContractValue(admin, keycodec.ExternalLink, "https://c.io"))
	require.NoError(t, c.SetDefaultValue(admin, keycodec.Name, "Entity name"))
	require.NoError(t, c.SetDefaultValue(admin, keycodec.Description, "Entity description"))

	uri, err := c.ContractURI()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":          "Collection",
		"description":   "All of them",
		"image":         "ipfs://logo",
		"external_link": "https://c.io",
	}, decodeDocument(t, uri))
}

func TestUnauthorizedMutations(t *testing.T) {
	c, rec := newTestCollection(t)
	id := c.Mint("alice")
	const intruder = "0xintruder"

	errs := []error{
		c.SetContractValue(intruder, keycodec.Name, "x"),
		c.SetDefaultValue(intruder, keycodec.Name, "x"),
		c.SetEntityValue(intruder, id, keycodec.Name, "x"),
		c.AddEntityValue(intruder, id, keycodec.Name, "x"),
	}
	for i, err := range errs {
		assert.True(t, IsUnauthorized(err), "call %d", i)
		assert.Contains(t, err.Error(), intruder)
	}
	assert.Zero(t, rec.Len(), "rejected calls must not notify")
}

func TestEntityMutationsRequireExistingEntity(t *testing.T) {
	c, _ := newTestCollection(t)
	assert.True(t, IsNotFound(c.SetEntityValue(admin, 7, keycodec.Name, "x")))
	assert.True(t, IsNotFound(c.AddEntityValue(admin, 7, keycodec.Name, "x")))

	_, created, err := c.Metadata().Backend().LookupEntity(7)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestAddEntityValueTwice(t *testing.T) {
	c, rec := newTestCollection(t)
	id := c.Mint("alice")
	require.NoError(t, c.AddEntityValue(admin, id, keycodec.Image, "first"))

	err := c.AddEntityValue(admin, id, keycodec.Image, "second")
	assert.True(t, metadata.IsKeyExists(err))
	assert.Equal(t, 1, rec.Len())
}

func TestBurnKeepsOverrides(t *testing.T) {
	c, _ := newTestCollection(t)
	id := c.Mint("alice")
	require.NoError(t, c.SetEntityValue(admin, id, keycodec.Name, "kept"))
	require.NoError(t, c.Burn(id))

	v, err := c.Metadata().Resolver().ResolveValue(id, keycodec.Name)
	require.NoError(t, err)
	assert.Equal(t, "kept", v)

	_, err = c.TokenURI(id)
	assert.True(t, IsNotFound(err))
}

func TestMutationsNotify(t *testing.T) {
	c, rec := newTestCollection(t)
	id := c.Mint("alice")
	require.NoError(t, c.SetContractValue(admin, keycodec.Name, "c"))
	require.NoError(t, c.SetEntityValue(admin, id, keycodec.Name, "e"))

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, metadata.ScopeContract, events[0].Scope)
	assert.Equal(t, metadata.ScopeEntity, events[1].Scope)
	assert.Equal(t, id, events[1].Entity)
}

type fixedBuilder struct{}

func (fixedBuilder) EntityJSON(id metadata.EntityID) (string, error) {
	return jsonenc.EncodeProperties([]jsonenc.Property{jsonenc.String(keycodec.Name, "fixed")}), nil
}

func (fixedBuilder) ContractJSON() (string, error) { return "{}", nil }

func TestWithBuilder(t *testing.T) {
	svc := metadata.NewService(metadata.NewMemoryBackend())
	c := NewCollection(svc, AllowAll, WithBuilder(fixedBuilder{}))
	id := c.Mint("x")

	uri, err := c.TokenURI(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "fixed"}, decodeDocument(t, uri))
}
