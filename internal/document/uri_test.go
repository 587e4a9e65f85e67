package document

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeURI(t *testing.T) {
	uri := EncodeURI(`{"name":"x"}`)
	assert.Equal(t, "data:application/json;charset=utf-8;base64,eyJuYW1lIjoieCJ9", uri)
}

func TestEncodeURIEmptyDocument(t *testing.T) {
	assert.Equal(t, URIPrefix+"e30=", EncodeURI("{}"))
}

func TestEncodeURINoLineWrapping(t *testing.T) {
	long := `{"description":"` + strings.Repeat("abcdefgh", 200) + `"}`
	uri := EncodeURI(long)
	assert.NotContains(t, uri, "\n")
	assert.NotContains(t, uri, "\r")
}

func TestEncodeURIUTF8(t *testing.T) {
	text := `{"name":"Ünïcødé ✓"}`
	uri := EncodeURI(text)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, URIPrefix))
	require.NoError(t, err)
	assert.Equal(t, []byte(text), raw)
}

func TestDecodeURIRoundTrip(t *testing.T) {
	for _, text := range []string{"{}", `{"name":"a"}`, `{"name":"✓ <&>"}`} {
		got, err := DecodeURI(EncodeURI(text))
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestDecodeURIRejectsOtherSchemes(t *testing.T) {
	_, err := DecodeURI("data:text/plain;base64,eyJ9")
	assert.True(t, errors.Is(err, ErrNotDocumentURI))

	_, err = DecodeURI("https://example.com/1.json")
	assert.True(t, errors.Is(err, ErrNotDocumentURI))
}

func TestDecodeURIBadPayload(t *testing.T) {
	_, err := DecodeURI(URIPrefix + "not base64!")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotDocumentURI))
}
