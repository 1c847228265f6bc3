package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dadasys/parkovaci-app/internal/config"
	"github.com/dadasys/parkovaci-app/internal/db"
	"github.com/dadasys/parkovaci-app/internal/logging"
	"github.com/dadasys/parkovaci-app/internal/reservation"
	"github.com/dadasys/parkovaci-app/internal/user"
)

// Backend is the storage selected by STORE_DRIVER.
type Backend struct {
	Store  reservation.Store
	Users  user.Repository
	closer []func()
}

// Close releases connections in reverse order of opening.
func (b *Backend) Close() {
	for i := len(b.closer) - 1; i >= 0; i-- {
		b.closer[i]()
	}
}

// OpenBackend connects the reservation store and user directory described by cfg.
// For postgres it also applies pending migrations.
func OpenBackend(ctx context.Context, cfg *config.Config, log logging.Logger) (*Backend, error) {
	retry := reservation.RetryConfig{
		Attempts: uint64(cfg.StoreRetries),
		Base:     cfg.StoreRetryBase,
	}
	b := &Backend{}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if err := db.Migrate(ctx, cfg.DBDSN); err != nil {
			return nil, err
		}
		log.Info(ctx, "database migrations applied")

		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		b.closer = append(b.closer, pool.Close)

		if cfg.UsersFile != "" {
			if err := importRoster(ctx, pool, cfg.UsersFile); err != nil {
				b.Close()
				return nil, err
			}
			log.Info(ctx, "user roster imported", "file", cfg.UsersFile)
		}

		b.Store = reservation.NewPostgresStore(pool, cfg.Location, retry)
		b.Users = user.NewPgxRepository(pool)

	case config.DriverRedis:
		client, err := db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		b.closer = append(b.closer, func() { _ = client.Close() })
		b.Store = reservation.NewRedisStore(client, "", cfg.Location, retry)

	case config.DriverMemory:
		log.Warn(ctx, "using in-memory reservation store; reservations are lost on restart")
		b.Store = reservation.NewMemoryStore()

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	// Only postgres keeps the roster next to the reservations.
	if b.Users == nil {
		roster, err := user.LoadRosterFile(cfg.UsersFile)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Users = roster
	}

	log.Info(ctx, "reservation store ready", "driver", cfg.StoreDriver)
	return b, nil
}

func importRoster(ctx context.Context, pool *pgxpool.Pool, path string) error {
	roster, err := user.LoadRosterFile(path)
	if err != nil {
		return err
	}
	users, err := roster.List(ctx)
	if err != nil {
		return err
	}
	return user.ImportRoster(ctx, pool, users)
}
