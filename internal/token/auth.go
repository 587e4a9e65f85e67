package token

// Authorizer decides whether a caller may mutate collection metadata.
type Authorizer interface {
	Authorized(caller string) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(caller string) bool

func (f AuthorizerFunc) Authorized(caller string) bool { return f(caller) }

// AdminSet authorizes a fixed set of callers.
type AdminSet map[string]bool

// NewAdminSet returns an AdminSet containing callers.
func NewAdminSet(callers ...string) AdminSet {
	s := make(AdminSet, len(callers))
	for _, c := range callers {
		s[c] = true
	}
	return s
}

func (s AdminSet) Authorized(caller string) bool { return s[caller] }

// AllowAll authorizes every caller.
var AllowAll = AuthorizerFunc(func(string) bool { return true })
