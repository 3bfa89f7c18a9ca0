package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

type VoteRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *VoteRepo) With(db DB) *VoteRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *VoteRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const voteColumns = `id, contestant_id, voter_email, number_of_votes,
	amount_paid, payment_status, reference, created_at, updated_at`

func scanVote(row interface{ Scan(dest ...any) error }) (*domain.Vote, error) {
	var v domain.Vote
	err := row.Scan(
		&v.ID, &v.ContestantID, &v.VoterEmail, &v.NumberOfVotes,
		&v.AmountPaid, &v.PaymentStatus, &v.Reference, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VoteRepo) Create(ctx context.Context, v *domain.Vote) (*domain.Vote, error) {
	const op = "postgres.VoteRepo.Create"

	db := r.handle()

	out, err := scanVote(db.QueryRow(ctx,
		`INSERT INTO votes(id, contestant_id, voter_email, number_of_votes,
			amount_paid, payment_status, reference)
		 VALUES ($1, $2, lower($3), $4, $5, $6, $7)
		 RETURNING `+voteColumns,
		v.ID, v.ContestantID, v.VoterEmail, v.NumberOfVotes,
		v.AmountPaid, v.PaymentStatus, v.Reference,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *VoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vote, error) {
	const op = "postgres.VoteRepo.GetByID"

	db := r.handle()

	out, err := scanVote(db.QueryRow(ctx,
		`SELECT `+voteColumns+` FROM votes WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *VoteRepo) GetByReference(ctx context.Context, reference string) (*domain.Vote, error) {
	const op = "postgres.VoteRepo.GetByReference"

	db := r.handle()

	out, err := scanVote(db.QueryRow(ctx,
		`SELECT `+voteColumns+` FROM votes WHERE reference = $1`, reference))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// UpdateStatus writes the vote's payment status.
func (r *VoteRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	const op = "postgres.VoteRepo.UpdateStatus"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE votes SET payment_status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *VoteRepo) ListByContestant(ctx context.Context, contestantID uuid.UUID, limit, offset int) ([]domain.Vote, error) {
	const op = "postgres.VoteRepo.ListByContestant"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+voteColumns+`
		 FROM votes WHERE contestant_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		contestantID, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
