// Package user defines the user entity and its store interface.
//
// Users sit at the top of the chatstore ownership hierarchy:
// a user owns chat sessions, which own messages. Users are written
// exclusively through upsert (insert-or-replace keyed by the external
// identifier), so repeated logins from an identity provider converge
// on one record.
package user
