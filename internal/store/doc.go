// Package store provides a SQLite-backed metadata.Backend.
//
// All three tiers live in one database, distinguished by a scope column:
//
//   - metadata_stores: one row per tier instance, holding its key count.
//     Entity rows are inserted the first time Entity(id) is called.
//   - metadata_keys: current value count per (tier, key).
//   - metadata_values: one row per value, ordered by idx.
//
// Every mutation runs in a single transaction, so a failed AddValues leaves
// the tier untouched.
//
// # Database Configuration
//
//   - One open connection. SQLite has a single writer, and ":memory:"
//     databases are private to their connection.
//   - busy_timeout=5000 for lock contention on file databases.
//
// The default DSN is ":memory:"; the data lives as long as the process.
package store
