package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// URIPrefix identifies a base64 JSON document.
const URIPrefix = "data:application/json;charset=utf-8;base64,"

// ErrNotDocumentURI is returned by DecodeURI for input without URIPrefix.
var ErrNotDocumentURI = errors.New("not a JSON document URI")

// EncodeURI base64-encodes the UTF-8 bytes of jsonText and prepends
// URIPrefix. The payload is not wrapped or chunked.
func EncodeURI(jsonText string) string {
	return URIPrefix + base64.StdEncoding.EncodeToString([]byte(jsonText))
}

// DecodeURI returns the JSON text carried by a document URI.
func DecodeURI(uri string) (string, error) {
	payload, ok := strings.CutPrefix(uri, URIPrefix)
	if !ok {
		return "", ErrNotDocumentURI
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode document payload: %w", err)
	}
	return string(raw), nil
}
