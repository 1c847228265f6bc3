// Package reservation holds the authoritative collection of reservations.
//
// Every Store implementation enforces "at most one reservation per SlotKey" itself, through a single
// atomic create-if-absent step. Callers never check for a free slot before inserting.
package reservation

import (
	"context"
	"time"
)

// Store is the persistence contract of the booking engine.
type Store interface {
	// TryCreate atomically inserts a reservation for slot if none exists.
	// It returns ErrConflict, without mutating anything, when the slot is already taken.
	TryCreate(ctx context.Context, slot SlotKey, userID int64) (*Reservation, error)

	// Delete removes the reservation with the given id or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// Find returns the reservation occupying slot, or nil when the slot is free.
	Find(ctx context.Context, slot SlotKey) (*Reservation, error)

	// FindByID returns the reservation with the given id or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*Reservation, error)

	// ListAll returns every reservation ordered by ascending id.
	ListAll(ctx context.Context) ([]*Reservation, error)

	// ListRange returns reservations dated from..to inclusive, ordered by ascending id.
	ListRange(ctx context.Context, from, to time.Time) ([]*Reservation, error)
}
