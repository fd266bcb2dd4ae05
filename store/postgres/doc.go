// Package postgres implements the store using pgx/v5 with raw SQL.
// Uniqueness, ordering, and upsert semantics are delegated to the
// database; the two-step cascade delete (messages, then session) runs
// inside a single transaction so a partial failure can never leave
// orphaned messages.
package postgres
