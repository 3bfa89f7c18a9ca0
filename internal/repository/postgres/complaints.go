package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

type ComplaintRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ComplaintRepo) With(db DB) *ComplaintRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ComplaintRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const complaintColumns = `id, user_id, subject, description, category, status,
	admin_response, created_at, updated_at`

func scanComplaint(row interface{ Scan(dest ...any) error }) (*domain.Complaint, error) {
	var c domain.Complaint
	err := row.Scan(
		&c.ID, &c.UserID, &c.Subject, &c.Description, &c.Category, &c.Status,
		&c.AdminResponse, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ComplaintRepo) Create(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	const op = "postgres.ComplaintRepo.Create"

	db := r.handle()

	out, err := scanComplaint(db.QueryRow(ctx,
		`INSERT INTO complaints(id, user_id, subject, description, category, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+complaintColumns,
		c.ID, c.UserID, c.Subject, c.Description, c.Category, c.Status,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *ComplaintRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	const op = "postgres.ComplaintRepo.GetByID"

	db := r.handle()

	out, err := scanComplaint(db.QueryRow(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *ComplaintRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Complaint, error) {
	const op = "postgres.ComplaintRepo.ListByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+complaintColumns+`
		 FROM complaints WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectComplaints(op, rows)
}

func (r *ComplaintRepo) List(ctx context.Context, status domain.ComplaintStatus, limit, offset int) ([]domain.Complaint, error) {
	const op = "postgres.ComplaintRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+complaintColumns+`
		 FROM complaints
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		string(status), limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectComplaints(op, rows)
}

func collectComplaints(op string, rows pgx.Rows) ([]domain.Complaint, error) {
	defer rows.Close()

	var out []domain.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
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

func (r *ComplaintRepo) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.ComplaintStatus,
	adminResponse string,
) (*domain.Complaint, error) {
	const op = "postgres.ComplaintRepo.UpdateStatus"

	db := r.handle()

	out, err := scanComplaint(db.QueryRow(ctx,
		`UPDATE complaints
		 SET status = $2,
		     admin_response = CASE WHEN $3 = '' THEN admin_response ELSE $3 END,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+complaintColumns,
		id, status, adminResponse,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
