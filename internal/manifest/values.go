package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Values is an ordered value list. In YAML it may be written as a single
// scalar or as a sequence of scalars.
type Values []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Values) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = Values{node.Value}
		return nil
	case yaml.SequenceNode:
		out := make(Values, 0, len(node.Content))
		for i, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: item %d must be a scalar", item.Line, i)
			}
			out = append(out, item.Value)
		}
		*v = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a scalar or a list of scalars", node.Line)
	}
}

// Fields maps key strings to their values.
type Fields map[string]Values
