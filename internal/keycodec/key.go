package keycodec

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Size is the width of an encoded key in bytes.
const Size = 32

// Key is the fixed-width representation of a metadata identifier.
type Key [Size]byte

// ErrKeyTooLong is returned when an identifier does not fit in Size bytes.
var ErrKeyTooLong = errors.New("key exceeds 32 bytes")

// KeyError describes an identifier that could not be encoded.
type KeyError struct {
	Input string
	Err   error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("encode key %q: %v", e.Input, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// FromString encodes s by copying its bytes and zero-padding to Size.
func FromString(s string) (Key, error) {
	var k Key
	if len(s) > Size {
		return k, &KeyError{Input: s, Err: ErrKeyTooLong}
	}
	copy(k[:], s)
	return k, nil
}

// MustFromString is FromString for package-level vocabulary; it panics on
// identifiers longer than Size.
func MustFromString(s string) Key {
	k, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return k
}

// String decodes the key. The length is the index of the first zero byte,
// or Size if there is none.
func (k Key) String() string {
	n := 0
	for n < Size && k[n] != 0 {
		n++
	}
	return string(k[:n])
}

// IsZero reports whether every byte of the key is zero.
func (k Key) IsZero() bool {
	return k == Key{}
}

// Hex renders all 32 bytes as 0x-prefixed lowercase hex.
func (k Key) Hex() string {
	return "0x" + hex.EncodeToString(k[:])
}

// FromHex parses the output of Hex. The 0x prefix is optional.
func FromHex(s string) (Key, error) {
	var k Key
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return k, fmt.Errorf("decode key hex: %w", err)
	}
	if len(raw) != Size {
		return k, fmt.Errorf("decode key hex: got %d bytes, want %d", len(raw), Size)
	}
	copy(k[:], raw)
	return k, nil
}
