// Package session defines the chat session entity and its store
// interface.
//
// A session belongs to exactly one user and owns an ordered set of
// messages. Its UpdatedAt timestamp is the recency signal the listing
// order is built on: creating a message refreshes the owning session's
// UpdatedAt to the message's own timestamp, so a user's session list
// always surfaces the most recently active conversation first.
//
// Deletion cascades downward one level: removing a session removes all
// of its messages first. It never cascades upward to the user.
package session
