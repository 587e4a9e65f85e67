package metadata

import (
	"io"
	"log/slog"

	"github.com/roach88/tokenmeta/internal/keycodec"
)

// Service is the mutation surface over a Backend. Stores handed out by
// Service emit an Event after each successful write.
type Service struct {
	backend  Backend
	resolver *Resolver
	notifier Notifier
	ids      IDGenerator
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the mutation subscriber.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithIDGenerator overrides the UUIDv7 event ID source.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) {
		s.ids = g
	}
}

// WithLogger sets the logger. Mutations are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService wraps b. Without options, events are discarded and nothing is
// logged.
func NewService(b Backend, opts ...Option) *Service {
	s := &Service{
		backend:  b,
		resolver: NewResolver(b),
		notifier: nopNotifier{},
		ids:      UUIDv7Generator{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the wrapped backend. Writes made through it bypass
// notification.
func (s *Service) Backend() Backend { return s.backend }

// Resolver returns the read side.
func (s *Service) Resolver() *Resolver { return s.resolver }

// Logger returns the configured logger.
func (s *Service) Logger() *slog.Logger { return s.logger }

// Contract returns the contract tier.
func (s *Service) Contract() Store {
	return &notifyingStore{Store: s.backend.Contract(), svc: s, scope: ScopeContract}
}

// Defaults returns the default tier.
func (s *Service) Defaults() Store {
	return &notifyingStore{Store: s.backend.Defaults(), svc: s, scope: ScopeDefault}
}

// Entity returns the override tier for id, creating it if needed.
func (s *Service) Entity(id EntityID) Store {
	return &notifyingStore{Store: s.backend.Entity(id), svc: s, scope: ScopeEntity, entity: id}
}

// Scoped returns the store for scope. id is ignored unless scope is
// ScopeEntity.
func (s *Service) Scoped(scope Scope, id EntityID) Store {
	switch scope {
	case ScopeContract:
		return s.Contract()
	case ScopeDefault:
		return s.Defaults()
	default:
		return s.Entity(id)
	}
}

func (s *Service) emit(kind EventKind, scope Scope, id EntityID, key keycodec.Key, values []string) {
	ev := Event{
		ID:     s.ids.Generate(),
		Kind:   kind,
		Scope:  scope,
		Entity: id,
		Key:    key,
		Values: cloneValues(values),
	}
	s.logger.Debug("metadata updated",
		"event", ev.ID,
		"kind", string(kind),
		"scope", scope.String(),
		"entity", uint64(id),
		"key", key.String(),
		"values", len(values),
	)
	s.notifier.Notify(ev)
}

type notifyingStore struct {
	Store
	svc    *Service
	scope  Scope
	entity EntityID
}

func (n *notifyingStore) SetValues(key keycodec.Key, values []string) error {
	if err := n.Store.SetValues(key, values); err != nil {
		return err
	}
	n.svc.emit(EventSet, n.scope, n.entity, key, values)
	return nil
}

func (n *notifyingStore) SetValue(key keycodec.Key, value string) error {
	return n.SetValues(key, []string{value})
}

func (n *notifyingStore) AddValues(key keycodec.Key, values []string) error {
	if err := n.Store.AddValues(key, values); err != nil {
		n.svc.logger.Debug("metadata add rejected",
			"scope", n.scope.String(),
			"entity", uint64(n.entity),
			"key", key.String(),
			"error", err,
		)
		return err
	}
	n.svc.emit(EventAdd, n.scope, n.entity, key, values)
	return nil
}

func (n *notifyingStore) AddValue(key keycodec.Key, value string) error {
	return n.AddValues(key, []string{value})
}
