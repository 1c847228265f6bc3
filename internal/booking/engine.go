// Package booking implements the parking reservation rules on top of a reservation.Store:
// the advance-booking window, cancellation rights and the weekly grid.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dadasys/parkovaci-app/internal/calendar"
	"github.com/dadasys/parkovaci-app/internal/logging"
	"github.com/dadasys/parkovaci-app/internal/pkg/apperror"
	"github.com/dadasys/parkovaci-app/internal/reservation"
	"github.com/dadasys/parkovaci-app/internal/user"
)

// Options configure an Engine. Zero values fall back to the defaults.
type Options struct {
	Window   int
	Places   []int
	Location *time.Location
	Clock    Clock
	Logger   logging.Logger
}

// Engine is the entry point used by the transport layer.
type Engine struct {
	store        reservation.Store
	grid         *Grid
	booking      *BookingPolicy
	cancellation *CancellationPolicy
	clock        Clock
	loc          *time.Location
	log          logging.Logger
}

func NewEngine(store reservation.Store, opts Options) (*Engine, error) {
	if opts.Window == 0 {
		opts.Window = DefaultWindow
	}
	if len(opts.Places) == 0 {
		opts.Places = DefaultPlaces
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	grid, err := NewGrid(opts.Places)
	if err != nil {
		return nil, err
	}
	bp, err := NewBookingPolicy(store, opts.Window)
	if err != nil {
		return nil, err
	}

	return &Engine{
		store:        store,
		grid:         grid,
		booking:      bp,
		cancellation: NewCancellationPolicy(store),
		clock:        opts.Clock,
		loc:          opts.Location,
		log:          opts.Logger.With("component", "booking"),
	}, nil
}

// Today returns the current date in the engine's time zone.
func (e *Engine) Today() time.Time {
	return calendar.Normalize(e.clock.Now().In(e.loc))
}

// Location returns the time zone used for calendar dates.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Places returns the bookable places.
func (e *Engine) Places() []int {
	return e.grid.Places()
}

// Window returns the advance-booking window for non-priority users.
func (e *Engine) Window() int {
	return e.booking.Window()
}

// Reserve books slot for requestor.
func (e *Engine) Reserve(ctx context.Context, requestor user.Identity, slot reservation.SlotKey) (*reservation.Reservation, error) {
	if slot.Date.IsZero() {
		return nil, ErrInvalidSlot.WithErr(errors.New("missing date"))
	}

	slot = reservation.NewSlotKey(slot.Place, slot.Date.In(e.loc), slot.TimeSlot)
	if err := e.grid.Validate(slot); err != nil {
		e.logRejected(ctx, "reservation rejected", err, "user_id", requestor.ID, "slot", slot.String())
		return nil, err
	}

	r, err := e.booking.Reserve(ctx, e.Today(), requestor, slot)
	if err != nil {
		e.logRejected(ctx, "reservation rejected", err, "user_id", requestor.ID, "slot", slot.String())
		return nil, err
	}

	e.log.Info(ctx, "reservation created",
		"reservation_id", r.ID,
		"user_id", r.UserID,
		"slot", r.Slot.String(),
	)
	return r, nil
}

// Cancel removes the reservation with the given id on behalf of requestor.
func (e *Engine) Cancel(ctx context.Context, requestor user.Identity, reservationID int64) error {
	r, err := e.Get(ctx, reservationID)
	if err != nil {
		e.logRejected(ctx, "cancellation rejected", err, "user_id", requestor.ID, "reservation_id", reservationID)
		return err
	}

	if err := e.cancellation.Cancel(ctx, requestor, r); err != nil {
		e.logRejected(ctx, "cancellation rejected", err, "user_id", requestor.ID, "reservation_id", reservationID)
		return err
	}

	e.log.Info(ctx, "reservation cancelled",
		"reservation_id", r.ID,
		"user_id", requestor.ID,
		"owner_id", r.UserID,
		"slot", r.Slot.String(),
	)
	return nil
}

// Get returns a single reservation.
func (e *Engine) Get(ctx context.Context, id int64) (*reservation.Reservation, error) {
	r, err := e.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservation.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError(err)
	}
	return r, nil
}

// Snapshot returns every active reservation ordered by id.
func (e *Engine) Snapshot(ctx context.Context) ([]*reservation.Reservation, error) {
	all, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return all, nil
}

// Week returns the grid of the work week offset weeks away from the current one.
func (e *Engine) Week(ctx context.Context, offset int) (*Week, error) {
	dates := calendar.WeekDates(e.Today(), offset)

	booked, err := e.store.ListRange(ctx, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, storeError(err)
	}

	bySlot := make(map[string]*reservation.Reservation, len(booked))
	for _, r := range booked {
		bySlot[r.Slot.String()] = r
	}

	places := e.grid.Places()
	w := &Week{
		Offset: offset,
		Label:  calendar.WeekLabel(dates),
		Dates:  dates,
		Cells:  make([]Cell, 0, len(dates)*len(reservation.TimeSlots)*len(places)),
	}
	for _, d := range dates {
		for _, ts := range reservation.TimeSlots {
			for _, p := range places {
				slot := reservation.NewSlotKey(p, d, ts)
				w.Cells = append(w.Cells, Cell{Slot: slot, Reservation: bySlot[slot.String()]})
			}
		}
	}
	return w, nil
}

// logRejected logs expected rule violations at info and store failures at error.
func (e *Engine) logRejected(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code < 500 {
		e.log.Info(ctx, msg, args...)
		return
	}
	e.log.Error(ctx, fmt.Sprintf("%s: store failure", msg), args...)
}

// Service is the booking API consumed by the HTTP layer.
type Service interface {
	Reserve(ctx context.Context, requestor user.Identity, slot reservation.SlotKey) (*reservation.Reservation, error)
	Cancel(ctx context.Context, requestor user.Identity, reservationID int64) error
	Get(ctx context.Context, id int64) (*reservation.Reservation, error)
	Snapshot(ctx context.Context) ([]*reservation.Reservation, error)
	Week(ctx context.Context, offset int) (*Week, error)
	Location() *time.Location
}

var _ Service = (*Engine)(nil)
