package reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/dadasys/parkovaci-app/internal/calendar"
)

// Storage-level outcomes. The booking package translates them into user-facing errors.
var (
	ErrConflict    = errors.New("slot already reserved")
	ErrNotFound    = errors.New("reservation not found")
	ErrUnknownUser = errors.New("reservation references unknown user")
	ErrUnavailable = errors.New("reservation store unavailable")
)

// TimeSlot is the half-day part of a bookable slot.
type TimeSlot string

const (
	Morning   TimeSlot = "morning"
	Afternoon TimeSlot = "afternoon"
)

// TimeSlots lists the slots of a day in display order.
var TimeSlots = []TimeSlot{Morning, Afternoon}

// Valid reports whether ts is one of the known slots.
func (ts TimeSlot) Valid() bool {
	return ts == Morning || ts == Afternoon
}

// Label returns the hour range shown to users.
func (ts TimeSlot) Label() string {
	switch ts {
	case Morning:
		return "7-13"
	case Afternoon:
		return "13-00"
	default:
		return string(ts)
	}
}

// SlotKey is a coordinate in the booking grid.
// Date is always normalized (see calendar.Normalize) so that keys compare with ==.
type SlotKey struct {
	Place    int
	Date     time.Time
	TimeSlot TimeSlot
}

// NewSlotKey builds a SlotKey with a normalized date.
func NewSlotKey(place int, date time.Time, ts TimeSlot) SlotKey {
	return SlotKey{Place: place, Date: calendar.Normalize(date), TimeSlot: ts}
}

// Equal compares keys by calendar date rather than by instant.
func (k SlotKey) Equal(other SlotKey) bool {
	return k.Place == other.Place && k.TimeSlot == other.TimeSlot && k.DateString() == other.DateString()
}

// DateString returns the ISO date of the slot.
func (k SlotKey) DateString() string {
	return calendar.FormatDate(k.Date)
}

func (k SlotKey) String() string {
	return fmt.Sprintf("place %d %s %s", k.Place, k.DateString(), k.TimeSlot)
}

// Reservation is an active booking of one slot by one user. It is never mutated after creation.
type Reservation struct {
	ID        int64
	Slot      SlotKey
	UserID    int64
	CreatedAt time.Time
}
