package token

import (
	"sync"

	"github.com/roach88/tokenmeta/internal/document"
	"github.com/roach88/tokenmeta/internal/keycodec"
	"github.com/roach88/tokenmeta/internal/metadata"
)

// Collection is a set of owned entities with attached metadata.
type Collection struct {
	meta    *metadata.Service
	builder document.Builder
	auth    Authorizer

	mu     sync.Mutex
	nextID metadata.EntityID
	owners map[metadata.EntityID]string
}

// CollectionOption configures a Collection.
type CollectionOption func(*Collection)

// WithBuilder replaces the standard document schema.
func WithBuilder(b document.Builder) CollectionOption {
	return func(c *Collection) {
		c.builder = b
	}
}

// NewCollection composes meta with auth. The first minted entity gets ID 1.
func NewCollection(meta *metadata.Service, auth Authorizer, opts ...CollectionOption) *Collection {
	c := &Collection{
		meta:    meta,
		auth:    auth,
		nextID:  1,
		owners:  make(map[metadata.EntityID]string),
		builder: document.NewStandardBuilder(meta.Resolver(), document.WithLogger(meta.Logger())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metadata returns the composed metadata service.
func (c *Collection) Metadata() *metadata.Service { return c.meta }

// Mint allocates the next entity ID for owner.
func (c *Collection) Mint(owner string) metadata.EntityID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.owners[id] = owner
	c.meta.Logger().Debug("entity minted", "entity", uint64(id), "owner", owner)
	return id
}

// Burn removes id. Its metadata overrides stay in storage.
func (c *Collection) Burn(id metadata.EntityID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.owners[id]; !ok {
		return newNotFoundError(id)
	}
	delete(c.owners, id)
	return nil
}

// Transfer changes the owner of id.
func (c *Collection) Transfer(id metadata.EntityID, to string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.owners[id]; !ok {
		return newNotFoundError(id)
	}
	c.owners[id] = to
	return nil
}

// OwnerOf returns the owner of id.
func (c *Collection) OwnerOf(id metadata.EntityID) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	owner, ok := c.owners[id]
	if !ok {
		return "", newNotFoundError(id)
	}
	return owner, nil
}

// Exists reports whether id is minted and not burned.
func (c *Collection) Exists(id metadata.EntityID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.owners[id]
	return ok
}

func (c *Collection) authorize(caller string) error {
	if !c.auth.Authorized(caller) {
		return newUnauthorizedError(caller)
	}
	return nil
}

func (c *Collection) entityStore(caller string, id metadata.EntityID) (metadata.Store, error) {
	if err := c.authorize(caller); err != nil {
		return nil, err
	}
	if !c.Exists(id) {
		return nil, newNotFoundError(id)
	}
	return c.meta.Entity(id), nil
}

// SetContractValues replaces key in the contract tier.
func (c *Collection) SetContractValues(caller string, key keycodec.Key, values []string) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	return c.meta.Contract().SetValues(key, values)
}

// SetContractValue replaces key in the contract tier with one value.
func (c *Collection) SetContractValue(caller string, key keycodec.Key, value string) error {
	return c.SetContractValues(caller, key, []string{value})
}

// SetDefaultValues replaces key in the default tier.
func (c *Collection) SetDefaultValues(caller string, key keycodec.Key, values []string) error {
	if err := c.authorize(caller); err != nil {
		return err
	}
	return c.meta.Defaults().SetValues(key, values)
}

// SetDefaultValue replaces key in the default tier with one value.
func (c *Collection) SetDefaultValue(caller string, key keycodec.Key, value string) error {
	return c.SetDefaultValues(caller, key, []string{value})
}

// SetEntityValues replaces key in id's override tier.
func (c *Collection) SetEntityValues(caller string, id metadata.EntityID, key keycodec.Key, values []string) error {
	s, err := c.entityStore(caller, id)
	if err != nil {
		return err
	}
	return s.SetValues(key, values)
}

// SetEntityValue replaces key in id's override tier with one value.
func (c *Collection) SetEntityValue(caller string, id metadata.EntityID, key keycodec.Key, value string) error {
	return c.SetEntityValues(caller, id, key, []string{value})
}

// AddEntityValues defines key once in id's override tier.
func (c *Collection) AddEntityValues(caller string, id metadata.EntityID, key keycodec.Key, values []string) error {
	s, err := c.entityStore(caller, id)
	if err != nil {
		return err
	}
	return s.AddValues(key, values)
}

// AddEntityValue defines key once in id's override tier with one value.
func (c *Collection) AddEntityValue(caller string, id metadata.EntityID, key keycodec.Key, value string) error {
	return c.AddEntityValues(caller, id, key, []string{value})
}

// TokenURI returns the document URI for an existing entity.
func (c *Collection) TokenURI(id metadata.EntityID) (string, error) {
	if !c.Exists(id) {
		return "", newNotFoundError(id)
	}
	return document.EntityURI(c.builder, id)
}

// ContractURI returns the collection document URI.
func (c *Collection) ContractURI() (string, error) {
	return document.ContractURI(c.builder)
}
