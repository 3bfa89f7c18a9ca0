package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

type ContestantRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ContestantRepo) With(db DB) *ContestantRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ContestantRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const contestantColumns = `id, contestant_number, registration_id, stage_name,
	email, talent_category, status, total_votes, total_vote_amount, promoted_at`

func scanContestant(row interface{ Scan(dest ...any) error }) (*domain.Contestant, error) {
	var c domain.Contestant
	err := row.Scan(
		&c.ID, &c.ContestantNumber, &c.RegistrationID, &c.StageName,
		&c.Email, &c.TalentCategory, &c.Status, &c.TotalVotes,
		&c.TotalVoteAmount, &c.PromotedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContestantRepo) Create(ctx context.Context, c *domain.Contestant) (*domain.Contestant, error) {
	const op = "postgres.ContestantRepo.Create"

	db := r.handle()

	out, err := scanContestant(db.QueryRow(ctx,
		`INSERT INTO contestants(id, contestant_number, registration_id, stage_name,
			email, talent_category, status, total_votes, total_vote_amount)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+contestantColumns,
		c.ID, c.ContestantNumber, c.RegistrationID, c.StageName,
		c.Email, c.TalentCategory, c.Status, c.TotalVotes, c.TotalVoteAmount,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *ContestantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contestant, error) {
	const op = "postgres.ContestantRepo.GetByID"

	db := r.handle()

	out, err := scanContestant(db.QueryRow(ctx,
		`SELECT `+contestantColumns+` FROM contestants WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *ContestantRepo) GetByRegistrationID(ctx context.Context, regID uuid.UUID) (*domain.Contestant, error) {
	const op = "postgres.ContestantRepo.GetByRegistrationID"

	db := r.handle()

	out, err := scanContestant(db.QueryRow(ctx,
		`SELECT `+contestantColumns+` FROM contestants WHERE registration_id = $1`, regID))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *ContestantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.ContestantRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM contestants WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *ContestantRepo) List(ctx context.Context, status domain.ContestantStatus, limit, offset int) ([]domain.Contestant, error) {
	const op = "postgres.ContestantRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+contestantColumns+`
		 FROM contestants
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY total_votes DESC, contestant_number
		 LIMIT $2 OFFSET $3`,
		string(status), limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectContestants(op, rows)
}

func collectContestants(op string, rows pgx.Rows) ([]domain.Contestant, error) {
	defer rows.Close()

	var out []domain.Contestant
	for rows.Next() {
		c, err := scanContestant(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// UpdateTallies writes the contestant's public vote counters.
func (r *ContestantRepo) UpdateTallies(ctx context.Context, c *domain.Contestant) error {
	const op = "postgres.ContestantRepo.UpdateTallies"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE contestants SET total_votes = $2, total_vote_amount = $3
		 WHERE id = $1`,
		c.ID, c.TotalVotes, c.TotalVoteAmount,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *ContestantRepo) HighestNumber(ctx context.Context, prefix string) (string, error) {
	const op = "postgres.ContestantRepo.HighestNumber"

	db := r.handle()

	var highest string
	err := db.QueryRow(ctx,
		`SELECT COALESCE(MAX(contestant_number), '')
		 FROM contestants
		 WHERE contestant_number LIKE $1 || '%'`,
		prefix,
	).Scan(&highest)
	if err != nil {
		return "", wrapDBErr(op, err)
	}

	return highest, nil
}
