package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportingRepo backs the admin dashboard aggregates.
type ReportingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReportingRepo) With(db DB) *ReportingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReportingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

type DashboardCounts struct {
	Users           int64
	Registrations   int64
	Contestants     int64
	CompletedVotes  int64
	TicketsSold     int64
	OpenComplaints  int64
	BulkActiveSlots int64
}

func (r *ReportingRepo) DashboardCounts(ctx context.Context) (*DashboardCounts, error) {
	const op = "postgres.ReportingRepo.DashboardCounts"

	db := r.handle()

	var c DashboardCounts
	err := db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM registrations),
			(SELECT COUNT(*) FROM contestants),
			(SELECT COALESCE(SUM(number_of_votes), 0) FROM votes WHERE payment_status = 'completed'),
			(SELECT COALESCE(SUM(sold_quantity), 0) FROM tickets),
			(SELECT COUNT(*) FROM complaints WHERE status IN ('pending', 'in_review')),
			(SELECT COALESCE(SUM(available_slots), 0) FROM bulk_registrations WHERE status = 'active')`,
	).Scan(
		&c.Users, &c.Registrations, &c.Contestants, &c.CompletedVotes,
		&c.TicketsSold, &c.OpenComplaints, &c.BulkActiveSlots,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &c, nil
}
