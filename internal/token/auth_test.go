package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminSet(t *testing.T) {
	s := NewAdminSet("a", "b")
	assert.True(t, s.Authorized("a"))
	assert.True(t, s.Authorized("b"))
	assert.False(t, s.Authorized("c"))
	assert.False(t, NewAdminSet().Authorized(""))
}

func TestAuthorizerFunc(t *testing.T) {
	var seen string
	f := AuthorizerFunc(func(caller string) bool {
		seen = caller
		return caller == "ok"
	})
	assert.True(t, f.Authorized("ok"))
	assert.False(t, f.Authorized("no"))
	assert.Equal(t, "no", seen)
	assert.True(t, AllowAll.Authorized("anyone"))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: entity does not exist (entity=3)", newNotFoundError(3).Error())
	assert.Equal(t, "UNAUTHORIZED: caller is not authorized (caller=x)", newUnauthorizedError("x").Error())
	assert.False(t, IsNotFound(newUnauthorizedError("x")))
	assert.False(t, IsUnauthorized(newNotFoundError(1)))
}
