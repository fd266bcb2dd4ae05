// Package message defines the message entity and its store interface.
//
// Messages are the leaves of the ownership hierarchy. They carry a
// single timestamp (CreatedAt) and are always listed in chronological
// order. Creating a message has one side effect: the owning session's
// UpdatedAt is refreshed to the message's timestamp.
package message
