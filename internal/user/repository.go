package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines read access to the user roster.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxUserRepository{
		pool: pool,
	}
}

func selectUsers() squirrel.SelectBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id", "role", "priority", "display_name", "plate_number").
		From("public.users")
}

func (r *pgxUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query, args, err := selectUsers().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query failed: %w", err)
	}

	var u User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Role,
		&u.Priority,
		&u.DisplayName,
		&u.PlateNumber,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByID query failed: %w", err)
	}

	return &u, nil
}

func (r *pgxUserRepository) List(ctx context.Context) ([]*User, error) {
	query, args, err := selectUsers().OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID,
			&u.Role,
			&u.Priority,
			&u.DisplayName,
			&u.PlateNumber,
		); err != nil {
			return nil, fmt.Errorf("scan user failed: %w", err)
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}

// ImportRoster upserts users into public.users in one transaction. Existing users not listed are kept.
func ImportRoster(ctx context.Context, pool *pgxpool.Pool, users []*User) error {
	if len(users) == 0 {
		return nil
	}

	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert("public.users").
		Columns("id", "role", "priority", "display_name", "plate_number")
	for _, u := range users {
		builder = builder.Values(u.ID, string(u.Role), u.Priority, u.DisplayName, u.PlateNumber)
	}
	query, args, err := builder.
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			role = EXCLUDED.role,
			priority = EXCLUDED.priority,
			display_name = EXCLUDED.display_name,
			plate_number = EXCLUDED.plate_number`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build import roster query failed: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin roster import failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("import roster failed: %w", err)
	}
	return tx.Commit(ctx)
}
