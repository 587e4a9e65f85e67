// Package metadata holds the three-tier key/value store behind entity
// documents.
//
// A Backend provides one contract-level Store, one default Store and one
// Store per entity. Every Store maps a keycodec.Key to an ordered list of
// string values:
//
//   - SetValues replaces a key's list wholesale.
//   - AddValues defines a key once; it fails with KEY_EXISTS if the key
//     already holds values.
//   - KeyCount grows the first time a key goes from zero values to at least
//     one. Overwriting a populated key leaves it unchanged.
//
// The Resolver applies override precedence for entity reads: an entity's own
// values win, otherwise the default tier answers. The rule is applied per key,
// so one field of a document may come from the entity while its sibling comes
// from the defaults. Contract reads never fall back.
//
// Service wraps a Backend so that every successful mutation is reported to a
// Notifier. Failed mutations report nothing and leave the store unchanged.
package metadata
