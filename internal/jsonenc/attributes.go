package jsonenc

import (
	"bytes"
	"fmt"
)

// numericDisplays are the display hints whose trait value is written
// unquoted. The value text itself is not inspected.
var numericDisplays = map[string]bool{
	"numeric":          true,
	"boost_percentage": true,
	"boost_number":     true,
	"display_type":     true,
}

// IsNumericDisplay reports whether a trait with this display hint has its
// value written unquoted.
func IsNumericDisplay(hint string) bool {
	return numericDisplays[hint]
}

// Traits holds the four index-aligned lists that describe an attribute
// array. Trait i is Names[i], Values[i], Displays[i], MaxValues[i].
type Traits struct {
	Names     []string
	Values    []string
	Displays  []string
	MaxValues []string
}

// LengthMismatchError reports trait value and name lists of different
// lengths.
type LengthMismatchError struct {
	Names  int
	Values int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("trait_value has %d entries but trait_type has %d", e.Values, e.Names)
}

// EncodeAttributes renders t as a JSON array of trait objects.
//
// An empty Names list yields "" so the caller omits the attributes member.
// Values must be exactly as long as Names. Displays and MaxValues may be
// shorter; missing entries read as "".
//
// For each trait:
//   - trait_type is written only when the name is non-empty.
//   - value is always written, unquoted iff the display hint is numeric.
//   - display_type is written only when the hint is non-empty.
//   - max_value is written unquoted, only when non-empty.
func EncodeAttributes(t Traits) (string, error) {
	if len(t.Names) == 0 {
		return "", nil
	}
	if len(t.Values) != len(t.Names) {
		return "", &LengthMismatchError{Names: len(t.Names), Values: len(t.Values)}
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, name := range t.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		display := at(t.Displays, i)
		maxValue := at(t.MaxValues, i)

		w := newObjectWriter(&buf)
		if name != "" {
			w.member("trait_type", name, true)
		}
		w.member("value", t.Values[i], !IsNumericDisplay(display))
		if display != "" {
			w.member("display_type", display, true)
		}
		if maxValue != "" {
			w.member("max_value", maxValue, false)
		}
		w.close()
	}
	buf.WriteByte(']')
	return buf.String(), nil
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
