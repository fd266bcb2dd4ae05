// Package chatstore provides the persistence core for a chat application:
// users, chat sessions, and messages behind one uniform store contract.
//
// Chatstore is designed as a library, not a service. Import it, pick a
// backend, and hand the store to whatever needs it.
//
// # Quick Start
//
//	st, err := store.Open(ctx, chatstore.DefaultConfig())
//	c, err := chatstore.New(chatstore.WithStore(st))
//
// # Architecture
//
// Chatstore follows a composable store pattern where each entity package
// (user, session, message) defines its own store interface. A single
// backend implements all of them: Postgres and SQLite are durable and
// lean on the database for constraints and ordering; Memory and Redis
// are volatile and maintain every secondary index by hand.
//
// Session and message IDs are TypeIDs: a type prefix over a K-sortable
// UUIDv7 suffix. User IDs are supplied by the caller.
package chatstore
