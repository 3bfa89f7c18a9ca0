package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
)

type TicketRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *TicketRepo) With(db DB) *TicketRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TicketRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const ticketColumns = `id, type, name, price, total_quantity, sold_quantity,
	active, created_at, updated_at`

func scanTicket(row interface{ Scan(dest ...any) error }) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(
		&t.ID, &t.Type, &t.Name, &t.Price, &t.TotalQuantity, &t.SoldQuantity,
		&t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.Create"

	db := r.handle()

	out, err := scanTicket(db.QueryRow(ctx,
		`INSERT INTO tickets(id, type, name, price, total_quantity, sold_quantity, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+ticketColumns,
		t.ID, t.Type, t.Name, t.Price, t.TotalQuantity, t.SoldQuantity, t.Active,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *TicketRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.GetByID"

	db := r.handle()

	out, err := scanTicket(db.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *TicketRepo) List(ctx context.Context, activeOnly bool) ([]domain.Ticket, error) {
	const op = "postgres.TicketRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+ticketColumns+`
		 FROM tickets
		 WHERE (NOT $1 OR active)
		 ORDER BY price`,
		activeOnly,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// IncrementSold adds qty to sold_quantity, guarded so the counter can never
// exceed total_quantity. Returns repository.ErrSoldOut when the guard fails.
func (r *TicketRepo) IncrementSold(ctx context.Context, id uuid.UUID, qty int) error {
	const op = "postgres.TicketRepo.IncrementSold"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE tickets
		 SET sold_quantity = sold_quantity + $2, updated_at = now()
		 WHERE id = $1 AND sold_quantity + $2 <= total_quantity`,
		id, qty,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrSoldOut)
	}

	return nil
}

type PurchaseRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *PurchaseRepo) With(db DB) *PurchaseRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *PurchaseRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const purchaseColumns = `id, reference, purchaser_name, email, phone_number,
	items, total_amount, payment_status, ticket_numbers, created_at, updated_at`

func scanPurchase(row interface{ Scan(dest ...any) error }) (*domain.TicketPurchase, error) {
	var (
		p     domain.TicketPurchase
		items []byte
	)

	err := row.Scan(
		&p.ID, &p.Reference, &p.PurchaserName, &p.Email, &p.PhoneNumber,
		&items, &p.TotalAmount, &p.PaymentStatus, &p.TicketNumbers,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if items != nil {
		if err := json.Unmarshal(items, &p.Items); err != nil {
			return nil, err
		}
	}

	return &p, nil
}

func (r *PurchaseRepo) Create(ctx context.Context, p *domain.TicketPurchase) (*domain.TicketPurchase, error) {
	const op = "postgres.PurchaseRepo.Create"

	db := r.handle()

	items, err := json.Marshal(p.Items)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out, err := scanPurchase(db.QueryRow(ctx,
		`INSERT INTO ticket_purchases(id, reference, purchaser_name, email,
			phone_number, items, total_amount, payment_status, ticket_numbers)
		 VALUES ($1, $2, $3, lower($4), $5, $6, $7, $8, $9)
		 RETURNING `+purchaseColumns,
		p.ID, p.Reference, p.PurchaserName, p.Email, p.PhoneNumber,
		items, p.TotalAmount, p.PaymentStatus, p.TicketNumbers,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TicketPurchase, error) {
	const op = "postgres.PurchaseRepo.GetByID"

	db := r.handle()

	out, err := scanPurchase(db.QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM ticket_purchases WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *PurchaseRepo) GetByReference(ctx context.Context, reference string) (*domain.TicketPurchase, error) {
	const op = "postgres.PurchaseRepo.GetByReference"

	db := r.handle()

	out, err := scanPurchase(db.QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM ticket_purchases WHERE reference = $1`,
		reference,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Update writes payment status and generated ticket numbers.
func (r *PurchaseRepo) Update(ctx context.Context, p *domain.TicketPurchase) (*domain.TicketPurchase, error) {
	const op = "postgres.PurchaseRepo.Update"

	db := r.handle()

	out, err := scanPurchase(db.QueryRow(ctx,
		`UPDATE ticket_purchases
		 SET payment_status = $2, ticket_numbers = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+purchaseColumns,
		p.ID, p.PaymentStatus, p.TicketNumbers,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
