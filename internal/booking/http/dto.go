package http

import (
	"time"

	"github.com/dadasys/parkovaci-app/internal/booking"
	"github.com/dadasys/parkovaci-app/internal/calendar"
	"github.com/dadasys/parkovaci-app/internal/reservation"
)

type CreateReservationRequest struct {
	Place    int    `json:"place" binding:"required,min=1"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	TimeSlot string `json:"time_slot" binding:"required,oneof=morning afternoon"`
}

// Slot converts the request to a grid coordinate in loc.
func (r *CreateReservationRequest) Slot(loc *time.Location) (reservation.SlotKey, error) {
	date, err := calendar.ParseDate(r.Date, loc)
	if err != nil {
		return reservation.SlotKey{}, booking.ErrInvalidSlot.WithErr(err)
	}
	return reservation.NewSlotKey(r.Place, date, reservation.TimeSlot(r.TimeSlot)), nil
}

// WeekRequest selects a week relative to the current one.
type WeekRequest struct {
	Offset int `uri:"offset" binding:"min=-104,max=104"`
}

type ReservationResponse struct {
	ID        int64     `json:"id"`
	Place     int       `json:"place"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	SlotLabel string    `json:"slot_label"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:        r.ID,
		Place:     r.Slot.Place,
		Date:      r.Slot.DateString(),
		TimeSlot:  string(r.Slot.TimeSlot),
		SlotLabel: r.Slot.TimeSlot.Label(),
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}
}

type TimeSlotResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type CellResponse struct {
	Place       int                  `json:"place"`
	Date        string               `json:"date"`
	TimeSlot    string               `json:"time_slot"`
	Reservation *ReservationResponse `json:"reservation"`
}

type WeekResponse struct {
	Offset    int                `json:"offset"`
	Label     string             `json:"label"`
	Dates     []string           `json:"dates"`
	TimeSlots []TimeSlotResponse `json:"time_slots"`
	Cells     []CellResponse     `json:"cells"`
}

func NewWeekResponse(w *booking.Week) WeekResponse {
	resp := WeekResponse{
		Offset:    w.Offset,
		Label:     w.Label,
		Dates:     make([]string, len(w.Dates)),
		TimeSlots: make([]TimeSlotResponse, len(reservation.TimeSlots)),
		Cells:     make([]CellResponse, len(w.Cells)),
	}
	for i, d := range w.Dates {
		resp.Dates[i] = calendar.FormatDate(d)
	}
	for i, ts := range reservation.TimeSlots {
		resp.TimeSlots[i] = TimeSlotResponse{ID: string(ts), Label: ts.Label()}
	}
	for i, cell := range w.Cells {
		cr := CellResponse{
			Place:    cell.Slot.Place,
			Date:     cell.Slot.DateString(),
			TimeSlot: string(cell.Slot.TimeSlot),
		}
		if cell.Reservation != nil {
			r := NewReservationResponse(cell.Reservation)
			cr.Reservation = &r
		}
		resp.Cells[i] = cr
	}
	return resp
}
