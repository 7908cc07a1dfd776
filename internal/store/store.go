// Package store persists calculator session snapshots.
package store

import (
	"time"

	"github.com/google/uuid"
)

// Record is the saved snapshot of one calculator session.
type Record struct {
	Expression   string
	Status       string
	Result       string
	ErrorMessage string
	UpdatedAt    time.Time
}

// Store is the interface for session persistence.
type Store interface {
	// Get retrieves a session by id. Returns nil if not found.
	Get(id string) (*Record, error)
	// Put stores a session, overwriting if it exists. A zero UpdatedAt is
	// set to the current time.
	Put(id string, r Record) error
	// Delete removes a session.
	Delete(id string) error
	// List returns all session ids in ascending order.
	List() ([]string, error)
	// Close releases resources.
	Close() error
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}

func stamp(r Record) Record {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}
	return r
}
