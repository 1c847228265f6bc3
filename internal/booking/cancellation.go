package booking

import (
	"context"
	"errors"

	"github.com/dadasys/parkovaci-app/internal/reservation"
	"github.com/dadasys/parkovaci-app/internal/user"
)

// CancellationPolicy lets owners and administrators remove reservations.
type CancellationPolicy struct {
	store reservation.Store
}

func NewCancellationPolicy(store reservation.Store) *CancellationPolicy {
	return &CancellationPolicy{store: store}
}

// Cancel deletes r on behalf of requestor. A reservation removed concurrently
// by someone else yields ErrAlreadyCancelled.
func (p *CancellationPolicy) Cancel(ctx context.Context, requestor user.Identity, r *reservation.Reservation) error {
	if !requestor.IsAdmin() && requestor.ID != r.UserID {
		return ErrForbidden
	}

	if err := p.store.Delete(ctx, r.ID); err != nil {
		if errors.Is(err, reservation.ErrNotFound) {
			return ErrAlreadyCancelled
		}
		return storeError(err)
	}
	return nil
}
