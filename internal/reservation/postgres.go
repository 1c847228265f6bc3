package reservation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var reservationColumns = []string{"id", "place", "date", "time_slot", "user_id", "created_at"}

// PostgresStore persists reservations in public.reservations.
// Uniqueness is enforced by the UNIQUE (place, date, time_slot) constraint; TryCreate relies on
// INSERT ... ON CONFLICT DO NOTHING so that the check and the insert are one statement.
type PostgresStore struct {
	pool  *pgxpool.Pool
	loc   *time.Location
	retry RetryConfig
}

// NewPostgresStore creates a store backed by pool. Dates read back are placed in loc.
func NewPostgresStore(pool *pgxpool.Pool, loc *time.Location, retry RetryConfig) *PostgresStore {
	if loc == nil {
		loc = time.Local
	}
	return &PostgresStore{pool: pool, loc: loc, retry: retry}
}

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (s *PostgresStore) TryCreate(ctx context.Context, slot SlotKey, userID int64) (*Reservation, error) {
	query, args, err := psql().Insert("public.reservations").
		Columns("place", "date", "time_slot", "user_id").
		Values(slot.Place, civilDate(slot.Date), string(slot.TimeSlot), userID).
		Suffix("ON CONFLICT (place, date, time_slot) DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create reservation query failed: %w", err)
	}

	r := &Reservation{
		Slot:   NewSlotKey(slot.Place, slot.Date, slot.TimeSlot),
		UserID: userID,
	}

	err = s.retry.do(ctx, isRetryableWrite, func(ctx context.Context) error {
		return s.pool.QueryRow(ctx, query, args...).Scan(&r.ID, &r.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// ON CONFLICT swallowed the insert: the slot is taken.
			return nil, ErrConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return nil, ErrConflict
			case pgerrcode.ForeignKeyViolation:
				return nil, ErrUnknownUser
			}
		}
		return nil, fmt.Errorf("create reservation failed: %w", err)
	}

	return r, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	query, args, err := psql().Delete("public.reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete reservation query failed: %w", err)
	}

	return deleteRows(ctx, s.retry, func(ctx context.Context) (int64, error) {
		ct, err := s.pool.Exec(ctx, query, args...)
		return ct.RowsAffected(), err
	})
}

// deleteRows runs exec and maps zero affected rows to ErrNotFound. A DELETE whose reply was lost
// may already be committed, and repeating it would report the row as missing, so only failures
// where the statement certainly did not run are retried.
func deleteRows(ctx context.Context, retry RetryConfig, exec func(ctx context.Context) (int64, error)) error {
	var affected int64
	err := retry.do(ctx, isRetryableWrite, func(ctx context.Context) error {
		n, err := exec(ctx)
		if err != nil {
			return err
		}
		affected = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete reservation failed: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, slot SlotKey) (*Reservation, error) {
	r, err := s.getOne(ctx, squirrel.Eq{
		"place":     slot.Place,
		"date":      civilDate(slot.Date),
		"time_slot": string(slot.TimeSlot),
	})
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return r, err
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Reservation, error) {
	return s.getOne(ctx, squirrel.Eq{"id": id})
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*Reservation, error) {
	return s.list(ctx, nil)
}

func (s *PostgresStore) ListRange(ctx context.Context, from, to time.Time) ([]*Reservation, error) {
	return s.list(ctx, squirrel.And{
		squirrel.GtOrEq{"date": civilDate(from)},
		squirrel.LtOrEq{"date": civilDate(to)},
	})
}

func (s *PostgresStore) getOne(ctx context.Context, where squirrel.Sqlizer) (*Reservation, error) {
	query, args, err := psql().Select(reservationColumns...).
		From("public.reservations").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	var r *Reservation
	err = s.retry.do(ctx, isTransientPg, func(ctx context.Context) error {
		var scanErr error
		r, scanErr = s.scan(s.pool.QueryRow(ctx, query, args...))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) list(ctx context.Context, where squirrel.Sqlizer) ([]*Reservation, error) {
	builder := psql().Select(reservationColumns...).From("public.reservations")
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reservations query failed: %w", err)
	}

	var out []*Reservation
	err = s.retry.do(ctx, isTransientPg, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			r, err := s.scan(rows)
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list reservations failed: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) scan(row pgx.Row) (*Reservation, error) {
	var (
		r        Reservation
		date     time.Time
		timeSlot string
	)
	if err := row.Scan(&r.ID, &r.Slot.Place, &date, &timeSlot, &r.UserID, &r.CreatedAt); err != nil {
		return nil, err
	}
	// date columns come back as midnight UTC; rebuild the civil date in the configured location.
	y, m, d := date.Date()
	r.Slot.Date = time.Date(y, m, d, 12, 0, 0, 0, s.loc)
	r.Slot.TimeSlot = TimeSlot(timeSlot)
	return &r, nil
}

// civilDate converts t to the midnight-UTC value pgx encodes as a date without shifting the day.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isTransientPg reports failures worth repeating: lost connections, serialization conflicts and deadlocks.
func isTransientPg(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected ||
			pgErr.Code == pgerrcode.AdminShutdown
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// isRetryableWrite is isTransientPg without the generic network fallback: a write whose outcome is
// unknown must not be repeated, or a committed insert would come back as a conflict and a committed
// delete as not found.
func isRetryableWrite(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected
	}
	return false
}
