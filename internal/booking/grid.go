package booking

import (
	"fmt"
	"sort"

	"github.com/dadasys/parkovaci-app/internal/calendar"
	"github.com/dadasys/parkovaci-app/internal/reservation"
)

// DefaultPlaces are the parking places bookable when none are configured.
var DefaultPlaces = []int{1, 2, 3, 4, 5, 6}

// Grid is the set of bookable coordinates: places x working days x time slots.
type Grid struct {
	places []int
	index  map[int]struct{}
}

// NewGrid builds a grid over places. Places must be positive and unique.
func NewGrid(places []int) (*Grid, error) {
	if len(places) == 0 {
		return nil, fmt.Errorf("grid needs at least one place")
	}

	g := &Grid{
		places: append([]int(nil), places...),
		index:  make(map[int]struct{}, len(places)),
	}
	for _, p := range places {
		if p <= 0 {
			return nil, fmt.Errorf("invalid place %d", p)
		}
		if _, dup := g.index[p]; dup {
			return nil, fmt.Errorf("duplicate place %d", p)
		}
		g.index[p] = struct{}{}
	}
	sort.Ints(g.places)
	return g, nil
}

// Places returns the places in ascending order.
func (g *Grid) Places() []int {
	return append([]int(nil), g.places...)
}

// Validate returns ErrInvalidSlot unless slot lies on the grid.
func (g *Grid) Validate(slot reservation.SlotKey) error {
	if _, ok := g.index[slot.Place]; !ok {
		return ErrInvalidSlot.WithErr(fmt.Errorf("unknown place %d", slot.Place))
	}
	if !slot.TimeSlot.Valid() {
		return ErrInvalidSlot.WithErr(fmt.Errorf("unknown time slot %q", slot.TimeSlot))
	}
	if !calendar.IsWorkingDay(slot.Date) {
		return ErrInvalidSlot.WithErr(fmt.Errorf("%s is not a working day", slot.DateString()))
	}
	return nil
}
