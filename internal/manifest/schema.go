package manifest

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource []byte

// SchemaError lists the positions where a manifest breaks the schema.
type SchemaError struct {
	File     string
	Problems []string
}

func (e *SchemaError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: schema violation: %s", e.File, e.Problems[0])
	}
	return fmt.Sprintf("%s: %d schema violations, first: %s", e.File, len(e.Problems), e.Problems[0])
}

// CheckSchema validates manifest YAML against the embedded CUE schema.
// filename is used only in messages.
func CheckSchema(filename string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile manifest schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("failed to build manifest: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Manifest")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		problems := make([]string, 0)
		for _, e := range errors.Errors(err) {
			if pos := e.Position(); pos.IsValid() {
				problems = append(problems, fmt.Sprintf("%s: %v", pos, e))
				continue
			}
			problems = append(problems, e.Error())
		}
		return &SchemaError{File: filename, Problems: problems}
	}
	return nil
}
