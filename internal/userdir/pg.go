package userdir

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgDirectory reads the users table maintained by the account service.
type PgDirectory struct {
	pool *pgxpool.Pool
}

func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

var _ Directory = (*PgDirectory)(nil)

func (d *PgDirectory) FindByID(ctx context.Context, id string) (User, error) {
	if d == nil || d.pool == nil {
		return User{}, errors.New("userdir: nil pool")
	}
	var u User
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, first_name, last_name, user_type
		FROM users
		WHERE id = $1::uuid
	`, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.UserType)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
