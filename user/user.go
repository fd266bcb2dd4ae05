package user

import (
	"github.com/convohq/chatstore"
)

// User is an identity record. The ID is supplied by the caller
// (typically an external identity provider) and is globally unique.
// Profile fields are opaque to the store: it persists and returns them
// without interpretation.
type User struct {
	chatstore.Entity

	ID              string `json:"id"`
	Email           string `json:"email,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}
