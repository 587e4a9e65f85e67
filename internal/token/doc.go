// Package token is a small identity-bearing collection that composes the
// metadata module.
//
// Collection allocates sequential entity IDs, tracks owners, and exposes the
// metadata mutations behind an Authorizer. It holds a metadata.Service and a
// document.Builder as fields and forwards to them.
package token
