package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/roach88/tokenmeta/internal/document"
	"github.com/roach88/tokenmeta/internal/keycodec"
	"github.com/roach88/tokenmeta/internal/manifest"
	"github.com/roach88/tokenmeta/internal/metadata"
	"github.com/roach88/tokenmeta/internal/store"
	"github.com/roach88/tokenmeta/internal/testutil"
)

// Harness executes one scenario against a fresh backend.
type Harness struct {
	svc      *metadata.Service
	builder  *document.StandardBuilder
	recorder *testutil.Recorder
	logger   *slog.Logger
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger routes service and builder logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// The returned error covers setup failures only (backend, manifest).
// Mismatches are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	backend, closeBackend, err := openBackend(scenario.Backend)
	if err != nil {
		return nil, err
	}
	defer closeBackend()

	h := &Harness{recorder: &testutil.Recorder{}, logger: cfg.logger}
	events, flushEvents := h.deliverEvents()
	defer flushEvents()
	h.svc = metadata.NewService(backend,
		metadata.WithNotifier(events),
		metadata.WithIDGenerator(testutil.NewSequenceGenerator("evt")),
		metadata.WithLogger(cfg.logger),
	)
	h.builder = document.NewStandardBuilder(h.svc.Resolver(), document.WithLogger(cfg.logger))

	if scenario.Manifest != "" {
		m, err := manifest.Load(scenario.Manifest)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest: %w", err)
		}
		if err := m.Apply(h.svc); err != nil {
			return nil, fmt.Errorf("failed to apply manifest: %w", err)
		}
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(i, step, result)
	}
	for _, check := range scenario.Documents {
		h.checkDocument(check, result)
	}
	flushEvents()
	result.Events = h.recorder.Events()

	for _, msg := range EvaluateAssertions(h.svc, result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished", "scenario", scenario.Name, "pass", result.Pass, "errors", len(result.Errors))
	return result, nil
}

// deliverEvents queues service events for the recorder. The returned func
// closes the queue and waits until every queued event is recorded; it is
// safe to call more than once.
func (h *Harness) deliverEvents() (metadata.Notifier, func()) {
	q := metadata.NewQueuedNotifier(h.recorder, h.logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := q.Run(context.Background()); err != nil {
			h.logger.Warn("event delivery stopped", "error", err)
		}
	}()

	var once sync.Once
	return q, func() {
		once.Do(func() {
			q.Close()
			<-done
		})
	}
}

func openBackend(name string) (metadata.Backend, func(), error) {
	switch name {
	case "", BackendMemory:
		return metadata.NewMemoryBackend(), func() {}, nil
	case BackendSQLite:
		st, err := store.Open(store.MemoryDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		return st, func() { st.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
}

func (h *Harness) executeStep(i int, step Step, result *Result) {
	scope, _ := metadata.ParseScope(step.Scope)
	entry := TraceEntry{
		Seq:    i + 1,
		Op:     step.Op,
		Scope:  scope.String(),
		Key:    step.Key,
		Values: []string(step.Values),
	}
	if scope == metadata.ScopeEntity {
		entry.Entity = uint64(step.Entity)
	}
	if entry.Values == nil {
		entry.Values = []string{}
	}

	err := h.apply(scope, step)
	if err != nil {
		entry.Error = err.Error()
	}
	result.Trace = append(result.Trace, entry)

	switch {
	case step.ExpectError == "" && err != nil:
		result.AddError(fmt.Sprintf("steps[%d]: unexpected error: %v", i, err))
	case step.ExpectError != "" && err == nil:
		result.AddError(fmt.Sprintf("steps[%d]: expected error containing %q, got success", i, step.ExpectError))
	case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
		result.AddError(fmt.Sprintf("steps[%d]: expected error containing %q, got %q", i, step.ExpectError, err))
	}
}

func (h *Harness) apply(scope metadata.Scope, step Step) error {
	key, err := keycodec.FromString(step.Key)
	if err != nil {
		return err
	}
	s := h.svc.Scoped(scope, step.Entity)
	if step.Op == OpAdd {
		return s.AddValues(key, step.Values)
	}
	return s.SetValues(key, step.Values)
}

func (h *Harness) checkDocument(check DocumentCheck, result *Result) {
	label := check.Label()
	var text string
	var err error
	if check.Contract {
		text, err = h.builder.ContractJSON()
	} else {
		text, err = h.builder.EntityJSON(*check.Entity)
	}

	rendered := RenderedDocument{Label: label}
	if err != nil {
		rendered.Error = err.Error()
	} else {
		rendered.JSON = text
		rendered.URI = document.EncodeURI(text)
	}
	result.Documents = append(result.Documents, rendered)

	if check.ExpectError != "" {
		switch {
		case err == nil:
			result.AddError(fmt.Sprintf("%s: expected error containing %q, got document %s", label, check.ExpectError, text))
		case !strings.Contains(err.Error(), check.ExpectError):
			result.AddError(fmt.Sprintf("%s: expected error containing %q, got %q", label, check.ExpectError, err))
		}
		return
	}
	if err != nil {
		result.AddError(fmt.Sprintf("%s: unexpected error: %v", label, err))
		return
	}

	if check.JSON != "" && check.JSON != text {
		result.AddError(fmt.Sprintf("%s: document mismatch\n  expected: %s\n  actual:   %s", label, check.JSON, text))
	}
	if check.Expect != nil {
		if msg := compareDocument(check.Expect, text); msg != "" {
			result.AddError(fmt.Sprintf("%s: %s", label, msg))
		}
	}
}

// compareDocument decodes both sides through encoding/json so YAML
// integers and JSON numbers compare equal.
func compareDocument(expect map[string]any, text string) string {
	want, err := normalizeJSON(expect)
	if err != nil {
		return fmt.Sprintf("invalid expect: %v", err)
	}
	var got any
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		return fmt.Sprintf("document is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		return fmt.Sprintf("document mismatch\n  expected: %v\n  actual:   %s", want, text)
	}
	return ""
}

func normalizeJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
