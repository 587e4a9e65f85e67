package document

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/tokenmeta/internal/jsonenc"
	"github.com/roach88/tokenmeta/internal/keycodec"
	"github.com/roach88/tokenmeta/internal/metadata"
)

// Builder produces document JSON from current store contents.
type Builder interface {
	EntityJSON(id metadata.EntityID) (string, error)
	ContractJSON() (string, error)
}

// EntityURI builds the entity document for id and wraps it as a data URI.
func EntityURI(b Builder, id metadata.EntityID) (string, error) {
	text, err := b.EntityJSON(id)
	if err != nil {
		return "", err
	}
	return EncodeURI(text), nil
}

// ContractURI builds the contract document and wraps it as a data URI.
func ContractURI(b Builder) (string, error) {
	text, err := b.ContractJSON()
	if err != nil {
		return "", err
	}
	return EncodeURI(text), nil
}

// entityScalars are the string members of an entity document, in output
// order. The attribute array follows them.
var entityScalars = []keycodec.Key{
	keycodec.Name,
	keycodec.Description,
	keycodec.Image,
	keycodec.AnimationURL,
	keycodec.ExternalURL,
	keycodec.BackgroundColor,
	keycodec.YoutubeURL,
}

var contractScalars = []keycodec.Key{
	keycodec.Name,
	keycodec.Description,
	keycodec.Image,
	keycodec.ExternalLink,
}

// StandardBuilder renders the fixed entity and contract schemas.
type StandardBuilder struct {
	resolver *metadata.Resolver
	logger   *slog.Logger
}

// BuilderOption configures a StandardBuilder.
type BuilderOption func(*StandardBuilder)

// WithLogger sets the logger used to report failed builds.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *StandardBuilder) {
		b.logger = l
	}
}

// NewStandardBuilder returns a builder reading through r.
func NewStandardBuilder(r *metadata.Resolver, opts ...BuilderOption) *StandardBuilder {
	b := &StandardBuilder{
		resolver: r,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attributes renders the entity's trait arrays, each resolved
// independently. It returns "" when the entity has no trait names.
func (b *StandardBuilder) Attributes(id metadata.EntityID) (string, error) {
	var t jsonenc.Traits
	lists := []struct {
		key keycodec.Key
		dst *[]string
	}{
		{keycodec.TraitType, &t.Names},
		{keycodec.TraitValue, &t.Values},
		{keycodec.TraitDisplay, &t.Displays},
		{keycodec.MaxValue, &t.MaxValues},
	}
	for _, l := range lists {
		v, err := b.resolver.Resolve(id, l.key)
		if err != nil {
			return "", err
		}
		*l.dst = v
	}
	return jsonenc.EncodeAttributes(t)
}

// EntityProperties resolves the entity document members in output order.
func (b *StandardBuilder) EntityProperties(id metadata.EntityID) ([]jsonenc.Property, error) {
	props := make([]jsonenc.Property, 0, len(entityScalars)+1)
	for _, key := range entityScalars {
		v, err := b.resolver.ResolveValue(id, key)
		if err != nil {
			return nil, err
		}
		props = append(props, jsonenc.String(key, v))
	}
	if err := requireFields("entity", props); err != nil {
		return nil, err
	}

	attrs, err := b.Attributes(id)
	if err != nil {
		return nil, err
	}
	return append(props, jsonenc.Raw(keycodec.Attributes, attrs)), nil
}

// EntityJSON renders the entity document for id.
func (b *StandardBuilder) EntityJSON(id metadata.EntityID) (string, error) {
	props, err := b.EntityProperties(id)
	if err != nil {
		b.logger.Warn("entity document build failed", "entity", uint64(id), "error", err)
		return "", fmt.Errorf("build entity %d document: %w", id, err)
	}
	return jsonenc.EncodeProperties(props), nil
}

// ContractProperties resolves the contract document members from the
// contract tier only.
func (b *StandardBuilder) ContractProperties() ([]jsonenc.Property, error) {
	props := make([]jsonenc.Property, 0, len(contractScalars))
	for _, key := range contractScalars {
		v, err := b.resolver.ContractValue(key)
		if err != nil {
			return nil, err
		}
		props = append(props, jsonenc.String(key, v))
	}
	if err := requireFields("contract", props); err != nil {
		return nil, err
	}
	return props, nil
}

// ContractJSON renders the contract document.
func (b *StandardBuilder) ContractJSON() (string, error) {
	props, err := b.ContractProperties()
	if err != nil {
		b.logger.Warn("contract document build failed", "error", err)
		return "", fmt.Errorf("build contract document: %w", err)
	}
	return jsonenc.EncodeProperties(props), nil
}

// requireFields checks name then description, which lead both schemas.
func requireFields(docKind string, props []jsonenc.Property) error {
	for _, p := range props[:2] {
		if p.Value == "" {
			return &MissingFieldError{Document: docKind, Field: p.Key.String()}
		}
	}
	return nil
}
