package manifest

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tokenmeta/internal/document"
	"github.com/roach88/tokenmeta/internal/jsonenc"
	"github.com/roach88/tokenmeta/internal/keycodec"
	"github.com/roach88/tokenmeta/internal/metadata"
)

// Severity classifies a lint issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding from Lint.
type Issue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Lint checks m for problems that would surface when documents are built.
//
// Errors: keys longer than 32 bytes, and trait_value lists whose resolved
// length differs from trait_type for the default view or any listed entity.
// Warnings: keys outside the recognized vocabulary, values that are not
// NFC-normalized, and documents missing name or description.
func Lint(m *Manifest) []Issue {
	var issues []Issue
	add := func(sev Severity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	sections := []struct {
		path   string
		fields Fields
	}{
		{"contract", m.Contract},
		{"defaults", m.Defaults},
	}
	for _, id := range m.EntityIDs() {
		sections = append(sections, struct {
			path   string
			fields Fields
		}{fmt.Sprintf("entities.%d", id), m.Entities[id]})
	}

	keysOK := true
	for _, sec := range sections {
		for _, name := range sortedNames(sec.fields) {
			path := sec.path + "." + name
			key, err := keycodec.FromString(name)
			if err != nil {
				keysOK = false
				add(SeverityError, path, "key is %d bytes, limit is %d", len(name), keycodec.Size)
				continue
			}
			if !keycodec.Recognized(key) {
				add(SeverityWarning, path, "key is not part of the document vocabulary")
			}
			for i, v := range sec.fields[name] {
				if !norm.NFC.IsNormalString(v) {
					add(SeverityWarning, fmt.Sprintf("%s[%d]", path, i), "value is not NFC-normalized")
				}
			}
		}
	}
	if !keysOK {
		return issues
	}

	svc := metadata.NewService(metadata.NewMemoryBackend())
	if err := m.Apply(svc); err != nil {
		add(SeverityError, "", "%v", err)
		return issues
	}
	builder := document.NewStandardBuilder(svc.Resolver())

	if len(m.Contract) > 0 {
		if _, err := builder.ContractJSON(); err != nil {
			lintBuildError(err, "contract", add)
		}
	}

	// The default view is an entity with no overrides.
	var unlisted metadata.EntityID
	for _, ok := m.Entities[unlisted]; ok; _, ok = m.Entities[unlisted] {
		unlisted++
	}
	views := []struct {
		path string
		id   metadata.EntityID
	}{{"defaults", unlisted}}
	for _, id := range m.EntityIDs() {
		views = append(views, struct {
			path string
			id   metadata.EntityID
		}{fmt.Sprintf("entities.%d", id), id})
	}
	for _, v := range views {
		if v.path == "defaults" && len(m.Defaults) == 0 {
			continue
		}
		if _, err := builder.EntityJSON(v.id); err != nil {
			lintBuildError(err, v.path, add)
		}
	}
	return issues
}

func lintBuildError(err error, path string, add func(Severity, string, string, ...any)) {
	var mismatch *jsonenc.LengthMismatchError
	var missing *document.MissingFieldError
	switch {
	case errors.As(err, &mismatch):
		add(SeverityError, path, "%v", mismatch)
	case errors.As(err, &missing):
		add(SeverityWarning, path, "document would fail: missing %s", missing.Field)
	default:
		add(SeverityError, path, "%v", err)
	}
}
