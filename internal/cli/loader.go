package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/tokenmeta/internal/manifest"
	"github.com/roach88/tokenmeta/internal/metadata"
	"github.com/roach88/tokenmeta/internal/store"
)

// LoadError is a manifest or backend failure with its CLI error code.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadManifest reads, schema-checks and decodes a manifest, classifying
// failures by error code.
func loadManifest(path string) (*manifest.Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("manifest not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: "failed to read manifest", Err: err}
	}

	if err := manifest.CheckSchema(path, data); err != nil {
		var se *manifest.SchemaError
		if errors.As(err, &se) {
			return nil, &LoadError{Code: ErrCodeSchema, Message: "manifest does not match schema", Err: se}
		}
		return nil, &LoadError{Code: ErrCodeParse, Message: "failed to parse manifest", Err: err}
	}

	m, err := manifest.Decode(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "failed to parse manifest", Err: err}
	}
	return m, nil
}

// openService opens the configured backend and wraps it in a
// metadata.Service logging to the CLI logger. The returned func releases
// the backend.
func openService(opts *RootOptions, svcOpts ...metadata.Option) (*metadata.Service, func(), error) {
	var backend metadata.Backend
	closeFn := func() {}

	switch opts.Backend {
	case "sqlite":
		dsn := opts.DB
		if dsn == "" {
			dsn = store.MemoryDSN
		}
		st, err := store.Open(dsn)
		if err != nil {
			return nil, nil, &LoadError{Code: ErrCodeBackendError, Message: "failed to open sqlite backend", Err: err}
		}
		backend = st
		closeFn = func() { st.Close() }
	default:
		backend = metadata.NewMemoryBackend()
	}

	opts.logger().Debug("backend opened", "backend", backendName(opts.Backend), "db", opts.DB)
	svcOpts = append([]metadata.Option{metadata.WithLogger(opts.logger())}, svcOpts...)
	return metadata.NewService(backend, svcOpts...), closeFn, nil
}

func backendName(b string) string {
	if b == "" {
		return "memory"
	}
	return b
}

// failLoad reports a LoadError through the formatter. Missing files and
// unreadable backends are command errors; bad content is a failure.
func failLoad(f *OutputFormatter, err error) error {
	var le *LoadError
	if !errors.As(err, &le) {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to load manifest", err, nil)
	}
	exit := ExitFailure
	switch le.Code {
	case ErrCodeNotFound, ErrCodeReadFailed, ErrCodeBackendError:
		exit = ExitCommandError
	}
	var details any
	var se *manifest.SchemaError
	if errors.As(err, &se) {
		details = se.Problems
	}
	return f.Fail(exit, le.Code, le.Message, le.Err, details)
}
