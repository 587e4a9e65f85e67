package jsonenc

import (
	"bytes"

	"github.com/roach88/tokenmeta/internal/keycodec"
)

// Property is one member of an encoded object. It is never stored.
type Property struct {
	Key      keycodec.Key
	Value    string
	IsString bool
}

// String returns a Property whose value is written as a JSON string.
func String(key keycodec.Key, value string) Property {
	return Property{Key: key, Value: value, IsString: true}
}

// Raw returns a Property whose value is already JSON, such as an encoded
// attribute array.
func Raw(key keycodec.Key, value string) Property {
	return Property{Key: key, Value: value}
}

// EncodeProperties renders props as one JSON object in the given order.
// Properties with an empty Value are omitted entirely.
func EncodeProperties(props []Property) string {
	var buf bytes.Buffer
	w := newObjectWriter(&buf)
	for _, p := range props {
		if p.Value == "" {
			continue
		}
		w.member(p.Key.String(), p.Value, p.IsString)
	}
	w.close()
	return buf.String()
}
