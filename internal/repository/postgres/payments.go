package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

type PaymentRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *PaymentRepo) With(db DB) *PaymentRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *PaymentRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const paymentColumns = `id, reference, kind, entity_id, user_id, email, amount,
	currency, status, channel, gateway_payload, created_at, updated_at`

func scanPayment(row interface{ Scan(dest ...any) error }) (*domain.PaymentTransaction, error) {
	var p domain.PaymentTransaction
	err := row.Scan(
		&p.ID, &p.Reference, &p.Kind, &p.EntityID, &p.UserID, &p.Email,
		&p.Amount, &p.Currency, &p.Status, &p.Channel, &p.GatewayPayload,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create logs one payment attempt.
//
// Returns repository.ErrConflict when the reference is already recorded.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	const op = "postgres.PaymentRepo.Create"

	db := r.handle()

	out, err := scanPayment(db.QueryRow(ctx,
		`INSERT INTO payment_transactions(id, reference, kind, entity_id, user_id,
			email, amount, currency, status, channel, gateway_payload)
		 VALUES ($1, $2, $3, $4, $5, lower($6), $7, $8, $9, $10, $11)
		 RETURNING `+paymentColumns,
		p.ID, p.Reference, p.Kind, p.EntityID, p.UserID, p.Email,
		p.Amount, p.Currency, p.Status, p.Channel, []byte(p.GatewayPayload),
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *PaymentRepo) GetByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	const op = "postgres.PaymentRepo.GetByReference"

	db := r.handle()

	out, err := scanPayment(db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payment_transactions WHERE reference = $1`,
		reference,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// UpdateStatus records the outcome of a verification attempt along with the
// raw gateway payload it was derived from.
func (r *PaymentRepo) UpdateStatus(
	ctx context.Context,
	reference string,
	status domain.PaymentStatus,
	gatewayPayload []byte,
) error {
	const op = "postgres.PaymentRepo.UpdateStatus"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE payment_transactions
		 SET status = $2, gateway_payload = COALESCE($3, gateway_payload),
		     updated_at = now()
		 WHERE reference = $1`,
		reference, status, gatewayPayload,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *PaymentRepo) List(
	ctx context.Context,
	kind domain.PaymentKind,
	status domain.PaymentStatus,
	limit, offset int,
) ([]domain.PaymentTransaction, error) {
	const op = "postgres.PaymentRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+paymentColumns+`
		 FROM payment_transactions
		 WHERE ($1 = '' OR kind = $1)
		   AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		string(kind), string(status), limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.PaymentTransaction
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *PaymentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PaymentTransaction, error) {
	const op = "postgres.PaymentRepo.ListByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+paymentColumns+`
		 FROM payment_transactions WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.PaymentTransaction
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// RevenueByKind sums completed transaction amounts grouped by kind.
func (r *PaymentRepo) RevenueByKind(ctx context.Context) (map[string]int64, error) {
	const op = "postgres.PaymentRepo.RevenueByKind"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT kind, COALESCE(SUM(amount), 0)
		 FROM payment_transactions
		 WHERE status = 'completed'
		 GROUP BY kind`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var kind string
		var sum int64
		if err := rows.Scan(&kind, &sum); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out[kind] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
