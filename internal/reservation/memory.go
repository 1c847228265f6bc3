package reservation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dadasys/parkovaci-app/internal/calendar"
)

type slotIndex struct {
	place    int
	date     string
	timeSlot TimeSlot
}

func indexOf(k SlotKey) slotIndex {
	return slotIndex{place: k.Place, date: k.DateString(), timeSlot: k.TimeSlot}
}

// MemoryStore keeps reservations in process memory. The check and the insert of TryCreate
// happen under one lock, which gives the same guarantee as a unique index.
type MemoryStore struct {
	mu     sync.RWMutex
	bySlot map[slotIndex]*Reservation
	byID   map[int64]*Reservation
	nextID int64
	now    func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bySlot: make(map[slotIndex]*Reservation),
		byID:   make(map[int64]*Reservation),
		now:    time.Now,
	}
}

func (s *MemoryStore) TryCreate(ctx context.Context, slot SlotKey, userID int64) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := indexOf(slot)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.bySlot[idx]; taken {
		return nil, ErrConflict
	}

	s.nextID++
	r := &Reservation{
		ID:        s.nextID,
		Slot:      NewSlotKey(slot.Place, slot.Date, slot.TimeSlot),
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}
	s.bySlot[idx] = r
	s.byID[r.ID] = r

	return copyOf(r), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	delete(s.bySlot, indexOf(r.Slot))
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, slot SlotKey) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.bySlot[indexOf(slot)]
	if !ok {
		return nil, nil
	}
	return copyOf(r), nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id int64) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyOf(r), nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]*Reservation, error) {
	return s.list(ctx, func(*Reservation) bool { return true })
}

func (s *MemoryStore) ListRange(ctx context.Context, from, to time.Time) ([]*Reservation, error) {
	lo, hi := calendar.FormatDate(from), calendar.FormatDate(to)
	return s.list(ctx, func(r *Reservation) bool {
		d := r.Slot.DateString()
		return d >= lo && d <= hi
	})
}

func (s *MemoryStore) list(ctx context.Context, keep func(*Reservation) bool) ([]*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]*Reservation, 0, len(s.byID))
	for _, r := range s.byID {
		if keep(r) {
			out = append(out, copyOf(r))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func copyOf(r *Reservation) *Reservation {
	c := *r
	return &c
}
