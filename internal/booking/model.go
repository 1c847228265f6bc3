package booking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dadasys/parkovaci-app/internal/calendar"
	"github.com/dadasys/parkovaci-app/internal/pkg/apperror"
	"github.com/dadasys/parkovaci-app/internal/reservation"
)

var (
	ErrSlotTaken        = apperror.New(http.StatusConflict, "slot is already reserved")
	ErrWindowExceeded   = apperror.New(http.StatusUnprocessableEntity, "slot is outside the booking window")
	ErrForbidden        = apperror.New(http.StatusForbidden, "only the owner or an administrator can cancel this reservation")
	ErrAlreadyCancelled = apperror.New(http.StatusConflict, "reservation was already cancelled")
	ErrNotFound         = apperror.New(http.StatusNotFound, "reservation not found")
	ErrInvalidSlot      = apperror.New(http.StatusBadRequest, "slot is not part of the booking grid")
	ErrUnknownUser      = apperror.New(http.StatusUnprocessableEntity, "unknown user")
	ErrStoreUnavailable = apperror.New(http.StatusServiceUnavailable, "reservation store is temporarily unavailable")
)

// WindowExceededError reports how far ahead a non-priority user tried to book.
type WindowExceededError struct {
	Allowed   int
	Requested int
}

func (e *WindowExceededError) Error() string {
	return fmt.Sprintf("booking window exceeded: %d working days ahead, at most %d allowed", e.Requested, e.Allowed)
}

func (e *WindowExceededError) Is(target error) bool {
	return target == ErrWindowExceeded
}

func newWindowExceeded(allowed, requested int) error {
	cause := &WindowExceededError{Allowed: allowed, Requested: requested}
	return apperror.Wrap(cause, ErrWindowExceeded.Code,
		fmt.Sprintf("you can book at most %d working days ahead (requested %d)", allowed, requested))
}

// Cell is one slot of a week view together with its reservation, if any.
type Cell struct {
	Slot        reservation.SlotKey
	Reservation *reservation.Reservation
}

// Free reports whether nobody holds the slot.
func (c Cell) Free() bool {
	return c.Reservation == nil
}

// Week is the booking grid of one work week, ordered by date, then time slot, then place.
type Week struct {
	Offset int
	Label  string
	Dates  [calendar.DaysPerWeek]time.Time
	Cells  []Cell
}
