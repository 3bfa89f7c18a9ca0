package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const userColumns = `id, email, password_hash, first_name, last_name, role,
	is_email_verified, is_password_set, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&u.IsEmailVerified, &u.IsPasswordSet, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and returns the stored row.
//
// Returns repository.ErrConflict when the email is already taken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	const op = "postgres.UserRepo.Create"

	db := r.handle()

	row := db.QueryRow(ctx,
		`INSERT INTO users(id, email, password_hash, first_name, last_name, role,
			is_email_verified, is_password_set)
		 VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8)
		 RETURNING `+userColumns,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role,
		u.IsEmailVerified, u.IsPasswordSet,
	)

	out, err := scanUser(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "postgres.UserRepo.GetByID"

	db := r.handle()

	out, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "postgres.UserRepo.GetByEmail"

	db := r.handle()

	out, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// EmailExists reports whether an account with the email already exists.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	const op = "postgres.UserRepo.EmailExists"

	db := r.handle()

	var exists bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = lower($1))`, email,
	).Scan(&exists); err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

func (r *UserRepo) SetEmailVerified(ctx context.Context, email string) error {
	const op = "postgres.UserRepo.SetEmailVerified"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE users SET is_email_verified = true, updated_at = now()
		 WHERE email = lower($1)`,
		email,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *UserRepo) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const op = "postgres.UserRepo.SetPassword"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE users SET password_hash = $2, is_password_set = true, updated_at = now()
		 WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const op = "postgres.UserRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
