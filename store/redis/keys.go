package redis

// Redis key naming conventions for chatstore data.
// All keys are prefixed with "chatstore:" to avoid collisions.

const keyPrefix = "chatstore:"

// userKey returns the Hash key for a user entity: chatstore:user:{id}
func userKey(id string) string { return keyPrefix + "user:" + id }

// sessionKey returns the Hash key for a session entity: chatstore:session:{id}
func sessionKey(id string) string { return keyPrefix + "session:" + id }

// messageKey returns the Hash key for a message entity: chatstore:message:{id}
func messageKey(id string) string { return keyPrefix + "message:" + id }

// userSessionsKey returns the Sorted Set key indexing a user's
// sessions, scored by session updated_at: chatstore:user_sessions:{userID}
func userSessionsKey(userID string) string { return keyPrefix + "user_sessions:" + userID }

// sessionMessagesKey returns the Sorted Set key indexing a session's
// messages, scored by message created_at: chatstore:session_messages:{sessionID}
func sessionMessagesKey(sessionID string) string {
	return keyPrefix + "session_messages:" + sessionID
}
