package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dadasys/parkovaci-app/internal/calendar"
	"github.com/dadasys/parkovaci-app/internal/reservation"
	"github.com/dadasys/parkovaci-app/internal/user"
)

// DefaultWindow is the number of working days ahead a non-priority user may book.
const DefaultWindow = 2

// BookingPolicy admits reservations under the advance-booking window and hands them to the store.
type BookingPolicy struct {
	store  reservation.Store
	window int
}

// NewBookingPolicy creates a policy allowing non-priority users to book window working days ahead.
func NewBookingPolicy(store reservation.Store, window int) (*BookingPolicy, error) {
	if window < 1 {
		return nil, fmt.Errorf("booking window must be at least 1 working day, got %d", window)
	}
	return &BookingPolicy{store: store, window: window}, nil
}

// Window returns the configured advance-booking window.
func (p *BookingPolicy) Window() int {
	return p.window
}

// Reserve books slot for requestor. today is the caller's current date.
// Priority users are not bound by the window. Past dates are not rejected.
func (p *BookingPolicy) Reserve(ctx context.Context, today time.Time, requestor user.Identity, slot reservation.SlotKey) (*reservation.Reservation, error) {
	if !requestor.Priority {
		if d := calendar.WorkingDaysBetween(today, slot.Date); d > p.window {
			return nil, newWindowExceeded(p.window, d)
		}
	}

	r, err := p.store.TryCreate(ctx, slot, requestor.ID)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrConflict):
			return nil, ErrSlotTaken
		case errors.Is(err, reservation.ErrUnknownUser):
			return nil, ErrUnknownUser
		default:
			return nil, storeError(err)
		}
	}
	return r, nil
}

// storeError turns a failure the policies cannot resolve into the error returned to callers.
func storeError(err error) error {
	if errors.Is(err, reservation.ErrUnavailable) {
		return ErrStoreUnavailable.WithErr(err)
	}
	return fmt.Errorf("reservation store: %w", err)
}
