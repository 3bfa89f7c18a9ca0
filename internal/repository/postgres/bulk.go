package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

type BulkRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BulkRepo) With(db DB) *BulkRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BulkRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const bulkColumns = `id, bulk_number, owner_user_id, total_slots, used_slots,
	available_slots, amount_per_slot, total_amount, status, payment_info,
	participants, created_at, updated_at`

func scanBulk(row interface{ Scan(dest ...any) error }) (*domain.BulkRegistration, error) {
	var (
		b                     domain.BulkRegistration
		payment, participants []byte
	)

	err := row.Scan(
		&b.ID, &b.BulkNumber, &b.OwnerUserID, &b.TotalSlots, &b.UsedSlots,
		&b.AvailableSlots, &b.AmountPerSlot, &b.TotalAmount, &b.Status,
		&payment, &participants, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if payment != nil {
		if err := json.Unmarshal(payment, &b.PaymentInfo); err != nil {
			return nil, err
		}
	}
	if participants != nil {
		if err := json.Unmarshal(participants, &b.Participants); err != nil {
			return nil, err
		}
	}

	return &b, nil
}

func bulkArgs(b *domain.BulkRegistration) ([]any, error) {
	// available_slots is derived; recompute on every save.
	b.Recompute()

	payment, err := json.Marshal(b.PaymentInfo)
	if err != nil {
		return nil, err
	}

	participants := b.Participants
	if participants == nil {
		participants = []domain.Participant{}
	}
	parts, err := json.Marshal(participants)
	if err != nil {
		return nil, err
	}

	return []any{
		b.ID, b.BulkNumber, b.OwnerUserID, b.TotalSlots, b.UsedSlots,
		b.AvailableSlots, b.AmountPerSlot, b.TotalAmount, b.Status,
		payment, parts,
	}, nil
}

func (r *BulkRepo) Create(ctx context.Context, b *domain.BulkRegistration) (*domain.BulkRegistration, error) {
	const op = "postgres.BulkRepo.Create"

	db := r.handle()

	args, err := bulkArgs(b)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out, err := scanBulk(db.QueryRow(ctx,
		`INSERT INTO bulk_registrations(id, bulk_number, owner_user_id, total_slots,
			used_slots, available_slots, amount_per_slot, total_amount, status,
			payment_info, participants)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+bulkColumns,
		args...,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *BulkRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BulkRegistration, error) {
	const op = "postgres.BulkRepo.GetByID"

	db := r.handle()

	out, err := scanBulk(db.QueryRow(ctx,
		`SELECT `+bulkColumns+` FROM bulk_registrations WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *BulkRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.BulkRegistration, error) {
	const op = "postgres.BulkRepo.ListByOwner"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+bulkColumns+`
		 FROM bulk_registrations WHERE owner_user_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectBulk(op, rows)
}

func (r *BulkRepo) List(ctx context.Context, limit, offset int) ([]domain.BulkRegistration, error) {
	const op = "postgres.BulkRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+bulkColumns+`
		 FROM bulk_registrations
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectBulk(op, rows)
}

func collectBulk(op string, rows pgx.Rows) ([]domain.BulkRegistration, error) {
	defer rows.Close()

	var out []domain.BulkRegistration
	for rows.Next() {
		b, err := scanBulk(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Update rewrites the mutable columns, recomputing available_slots.
func (r *BulkRepo) Update(ctx context.Context, b *domain.BulkRegistration) (*domain.BulkRegistration, error) {
	const op = "postgres.BulkRepo.Update"

	db := r.handle()

	args, err := bulkArgs(b)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out, err := scanBulk(db.QueryRow(ctx,
		`UPDATE bulk_registrations SET
			bulk_number = $2, owner_user_id = $3, total_slots = $4, used_slots = $5,
			available_slots = $6, amount_per_slot = $7, total_amount = $8,
			status = $9, payment_info = $10, participants = $11, updated_at = now()
		 WHERE id = $1
		 RETURNING `+bulkColumns,
		args...,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *BulkRepo) HighestNumber(ctx context.Context, prefix string) (string, error) {
	const op = "postgres.BulkRepo.HighestNumber"

	db := r.handle()

	var highest string
	err := db.QueryRow(ctx,
		`SELECT COALESCE(MAX(bulk_number), '')
		 FROM bulk_registrations
		 WHERE bulk_number LIKE $1 || '%'`,
		prefix,
	).Scan(&highest)
	if err != nil {
		return "", wrapDBErr(op, err)
	}

	return highest, nil
}
