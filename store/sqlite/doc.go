// Package sqlite implements the store over database/sql with the
// modernc.org/sqlite driver. Semantics match the postgres backend:
// database-enforced uniqueness and ordering, conflict-aware upsert,
// and a transactional messages-first cascade delete.
package sqlite
