package reservation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dadasys/parkovaci-app/internal/calendar"
)

// createScript claims the slot key and writes the record in one server-side step.
// KEYS: slot, record, index. ARGV: id, place, date, time_slot, user_id, created_at.
// It returns 0 when the slot key already exists.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('HSET', KEYS[2],
	'id', ARGV[1], 'place', ARGV[2], 'date', ARGV[3], 'time_slot', ARGV[4],
	'user_id', ARGV[5], 'created_at', ARGV[6])
redis.call('ZADD', KEYS[3], ARGV[1], ARGV[1])
return 1
`)

// deleteScript drops the record and its index entry, and releases the slot key if it still points at the record.
// KEYS: record, slot, index. ARGV: id. Returns 0 when the record is absent.
var deleteScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
if redis.call('GET', KEYS[2]) == ARGV[1] then
	redis.call('DEL', KEYS[2])
end
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[3], ARGV[1])
return 1
`)

// RedisStore keeps reservations in Redis:
//
//	{<prefix>}:slot:<place>:<date>:<time_slot>  -> reservation id
//	{<prefix>}:reservation:<id>                 -> hash with the reservation fields
//	{<prefix>}:reservations                     -> sorted set of ids (score = id)
//	{<prefix>}:reservation:seq                  -> id sequence
//
// The braces are a cluster hash tag: every key of one store lives in the same slot, so the
// scripts, which declare all their keys, also run on Redis Cluster.
type RedisStore struct {
	client *redis.Client
	prefix string
	loc    *time.Location
	retry  RetryConfig
}

// NewRedisStore creates a store using client. An empty prefix defaults to "parking".
func NewRedisStore(client *redis.Client, prefix string, loc *time.Location, retry RetryConfig) *RedisStore {
	if prefix == "" {
		prefix = "parking"
	}
	if loc == nil {
		loc = time.Local
	}
	return &RedisStore{client: client, prefix: prefix, loc: loc, retry: retry}
}

func (s *RedisStore) tag() string          { return "{" + s.prefix + "}" }
func (s *RedisStore) slotPrefix() string   { return s.tag() + ":slot:" }
func (s *RedisStore) recordPrefix() string { return s.tag() + ":reservation:" }
func (s *RedisStore) seqKey() string       { return s.tag() + ":reservation:seq" }
func (s *RedisStore) indexKey() string     { return s.tag() + ":reservations" }

func (s *RedisStore) slotKey(slot SlotKey) string {
	return fmt.Sprintf("%s%d:%s:%s", s.slotPrefix(), slot.Place, slot.DateString(), slot.TimeSlot)
}

func (s *RedisStore) recordKey(id int64) string {
	return s.recordPrefix() + strconv.FormatInt(id, 10)
}

func (s *RedisStore) TryCreate(ctx context.Context, slot SlotKey, userID int64) (*Reservation, error) {
	createdAt := time.Now().UTC()

	// A sequence value lost to a conflict or a repeated INCR only leaves a gap.
	var id int64
	err := s.retry.do(ctx, isTransientRedis, func(ctx context.Context) error {
		var err error
		id, err = s.client.Incr(ctx, s.seqKey()).Result()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("allocate reservation id failed: %w", err)
	}

	var created int64
	err = s.retry.do(ctx, isRetryableRedisWrite, func(ctx context.Context) error {
		var err error
		created, err = createScript.Run(ctx, s.client,
			[]string{s.slotKey(slot), s.recordKey(id), s.indexKey()},
			id, slot.Place, slot.DateString(), string(slot.TimeSlot),
			userID, createdAt.Format(time.RFC3339Nano),
		).Int64()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create reservation failed: %w", err)
	}
	if created == 0 {
		return nil, ErrConflict
	}

	return &Reservation{
		ID:        id,
		Slot:      NewSlotKey(slot.Place, slot.Date, slot.TimeSlot),
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, id int64) error {
	r, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	var removed int64
	err = s.retry.do(ctx, isRetryableRedisWrite, func(ctx context.Context) error {
		var err error
		removed, err = deleteScript.Run(ctx, s.client,
			[]string{s.recordKey(id), s.slotKey(r.Slot), s.indexKey()},
			id,
		).Int64()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete reservation failed: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, slot SlotKey) (*Reservation, error) {
	var id int64
	err := s.retry.do(ctx, isTransientRedis, func(ctx context.Context) error {
		var err error
		id, err = s.client.Get(ctx, s.slotKey(slot)).Int64()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find reservation failed: %w", err)
	}

	r, err := s.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		// Deleted between the two reads.
		return nil, nil
	}
	return r, err
}

func (s *RedisStore) FindByID(ctx context.Context, id int64) (*Reservation, error) {
	var fields map[string]string
	err := s.retry.do(ctx, isTransientRedis, func(ctx context.Context) error {
		var err error
		fields, err = s.client.HGetAll(ctx, s.recordKey(id)).Result()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return s.decode(fields)
}

func (s *RedisStore) ListAll(ctx context.Context) ([]*Reservation, error) {
	return s.list(ctx, func(*Reservation) bool { return true })
}

func (s *RedisStore) ListRange(ctx context.Context, from, to time.Time) ([]*Reservation, error) {
	lo, hi := calendar.FormatDate(from), calendar.FormatDate(to)
	return s.list(ctx, func(r *Reservation) bool {
		d := r.Slot.DateString()
		return d >= lo && d <= hi
	})
}

func (s *RedisStore) list(ctx context.Context, keep func(*Reservation) bool) ([]*Reservation, error) {
	var records []map[string]string
	err := s.retry.do(ctx, isTransientRedis, func(ctx context.Context) error {
		ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			records = nil
			return nil
		}

		pipe := s.client.Pipeline()
		cmds := make([]*redis.MapStringStringCmd, len(ids))
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.recordPrefix()+id)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}

		records = make([]map[string]string, 0, len(cmds))
		for _, cmd := range cmds {
			// Records deleted after ZRANGE come back empty.
			if m := cmd.Val(); len(m) > 0 {
				records = append(records, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list reservations failed: %w", err)
	}

	out := make([]*Reservation, 0, len(records))
	for _, fields := range records {
		r, err := s.decode(fields)
		if err != nil {
			return nil, err
		}
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RedisStore) decode(f map[string]string) (*Reservation, error) {
	id, err := strconv.ParseInt(f["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode reservation id %q: %w", f["id"], err)
	}
	place, err := strconv.Atoi(f["place"])
	if err != nil {
		return nil, fmt.Errorf("decode reservation %d place: %w", id, err)
	}
	date, err := calendar.ParseDate(f["date"], s.loc)
	if err != nil {
		return nil, fmt.Errorf("decode reservation %d: %w", id, err)
	}
	userID, err := strconv.ParseInt(f["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode reservation %d user: %w", id, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, f["created_at"])
	if err != nil {
		return nil, fmt.Errorf("decode reservation %d created_at: %w", id, err)
	}

	return &Reservation{
		ID:        id,
		Slot:      SlotKey{Place: place, Date: date, TimeSlot: TimeSlot(f["time_slot"])},
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil
}

// serverBusy matches replies for commands the server refused to run.
func serverBusy(err error) bool {
	var rerr redis.Error
	if !errors.As(err, &rerr) {
		return false
	}
	msg := rerr.Error()
	for _, p := range []string{"LOADING ", "BUSY ", "TRYAGAIN ", "CLUSTERDOWN ", "MASTERDOWN "} {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}

func isTransientRedis(err error) bool {
	if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if serverBusy(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// isRetryableRedisWrite only retries when the script certainly did not run:
// a refused command or a connection that was never established.
func isRetryableRedisWrite(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if serverBusy(err) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
