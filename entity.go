package chatstore

import "time"

// Entity carries the timestamp pair shared by stored records.
// CreatedAt is set once at first insert and never changes; UpdatedAt
// advances on every mutation of the record (or, for sessions, whenever
// a message lands in them).
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity returns an Entity with both timestamps set to the current
// UTC time.
func NewEntity() Entity {
	now := time.Now().UTC()
	return Entity{CreatedAt: now, UpdatedAt: now}
}

// Touch advances UpdatedAt to the given instant.
func (e *Entity) Touch(at time.Time) {
	e.UpdatedAt = at
}
