package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
)

type RegistrationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *RegistrationRepo) With(db DB) *RegistrationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *RegistrationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const registrationColumns = `id, registration_number, user_id, type, status,
	current_step, completed_steps, personal_info, talent_info, group_info,
	guardian_info, media_info, audition_info, terms, payment_info,
	bulk_registration_id, submitted_at, created_at, updated_at`

func scanRegistration(row interface{ Scan(dest ...any) error }) (*domain.Registration, error) {
	var (
		reg                               domain.Registration
		personal, talent, group, guardian []byte
		media, audition, terms, payment   []byte
	)

	err := row.Scan(
		&reg.ID, &reg.RegistrationNumber, &reg.UserID, &reg.Type, &reg.Status,
		&reg.CurrentStep, &reg.CompletedSteps, &personal, &talent, &group,
		&guardian, &media, &audition, &terms, &payment,
		&reg.BulkRegistrationID, &reg.SubmittedAt, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalInto(personal, &reg.PersonalInfo); err != nil {
		return nil, err
	}
	if err := unmarshalInto(talent, &reg.TalentInfo); err != nil {
		return nil, err
	}
	if err := unmarshalInto(group, &reg.GroupInfo); err != nil {
		return nil, err
	}
	if err := unmarshalInto(guardian, &reg.GuardianInfo); err != nil {
		return nil, err
	}
	if err := unmarshalInto(media, &reg.MediaInfo); err != nil {
		return nil, err
	}
	if err := unmarshalInto(audition, &reg.AuditionInfo); err != nil {
		return nil, err
	}
	if err := unmarshalInto(terms, &reg.Terms); err != nil {
		return nil, err
	}
	if payment != nil {
		if err := json.Unmarshal(payment, &reg.PaymentInfo); err != nil {
			return nil, err
		}
	}

	return &reg, nil
}

// unmarshalInto decodes a nullable jsonb column into a pointer field,
// leaving the field nil for NULL columns.
func unmarshalInto[T any](b []byte, dst **T) error {
	if b == nil {
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

// marshalPtr encodes a sub-document pointer for a nullable jsonb column.
func marshalPtr[T any](p *T) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func registrationArgs(reg *domain.Registration) ([]any, error) {
	personal, err := marshalPtr(reg.PersonalInfo)
	if err != nil {
		return nil, err
	}
	talent, err := marshalPtr(reg.TalentInfo)
	if err != nil {
		return nil, err
	}
	group, err := marshalPtr(reg.GroupInfo)
	if err != nil {
		return nil, err
	}
	guardian, err := marshalPtr(reg.GuardianInfo)
	if err != nil {
		return nil, err
	}
	media, err := marshalPtr(reg.MediaInfo)
	if err != nil {
		return nil, err
	}
	audition, err := marshalPtr(reg.AuditionInfo)
	if err != nil {
		return nil, err
	}
	terms, err := marshalPtr(reg.Terms)
	if err != nil {
		return nil, err
	}
	payment, err := json.Marshal(reg.PaymentInfo)
	if err != nil {
		return nil, err
	}

	return []any{
		reg.ID, reg.RegistrationNumber, reg.UserID, reg.Type, reg.Status,
		reg.CurrentStep, reg.CompletedSteps, personal, talent, group,
		guardian, media, audition, terms, payment,
		reg.BulkRegistrationID, reg.SubmittedAt,
	}, nil
}

// Create inserts a registration and returns the stored row.
func (r *RegistrationRepo) Create(ctx context.Context, reg *domain.Registration) (*domain.Registration, error) {
	const op = "postgres.RegistrationRepo.Create"

	db := r.handle()

	args, err := registrationArgs(reg)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out, err := scanRegistration(db.QueryRow(ctx,
		`INSERT INTO registrations(id, registration_number, user_id, type, status,
			current_step, completed_steps, personal_info, talent_info, group_info,
			guardian_info, media_info, audition_info, terms, payment_info,
			bulk_registration_id, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING `+registrationColumns,
		args...,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *RegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Registration, error) {
	const op = "postgres.RegistrationRepo.GetByID"

	db := r.handle()

	out, err := scanRegistration(db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// GetByIDOrOwner resolves a registration by its own id or by its owner's user
// id, then enforces that the caller owns it. Admin callers pass ownerCheck
// false to skip the ownership check.
func (r *RegistrationRepo) GetByIDOrOwner(
	ctx context.Context,
	idOrOwner uuid.UUID,
	callerID uuid.UUID,
	ownerCheck bool,
) (*domain.Registration, error) {
	const op = "postgres.RegistrationRepo.GetByIDOrOwner"

	db := r.handle()

	out, err := scanRegistration(db.QueryRow(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE id = $1 OR user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		idOrOwner,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if ownerCheck && out.UserID != callerID {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotOwner)
	}

	return out, nil
}

// Update rewrites every mutable column of the registration row.
func (r *RegistrationRepo) Update(ctx context.Context, reg *domain.Registration) (*domain.Registration, error) {
	const op = "postgres.RegistrationRepo.Update"

	db := r.handle()

	args, err := registrationArgs(reg)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out, err := scanRegistration(db.QueryRow(ctx,
		`UPDATE registrations SET
			registration_number = $2, user_id = $3, type = $4, status = $5,
			current_step = $6, completed_steps = $7, personal_info = $8,
			talent_info = $9, group_info = $10, guardian_info = $11,
			media_info = $12, audition_info = $13, terms = $14, payment_info = $15,
			bulk_registration_id = $16, submitted_at = $17, updated_at = now()
		 WHERE id = $1
		 RETURNING `+registrationColumns,
		args...,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *RegistrationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.RegistrationRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *RegistrationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error) {
	const op = "postgres.RegistrationRepo.ListByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectRegistrations(op, rows)
}

// List returns registrations matching the optional status and type filters.
func (r *RegistrationRepo) List(
	ctx context.Context,
	status domain.RegistrationStatus,
	regType domain.RegistrationType,
	limit, offset int,
) ([]domain.Registration, error) {
	const op = "postgres.RegistrationRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE ($1 = '' OR status = $1)
		   AND ($2 = '' OR type = $2)
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		string(status), string(regType), limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return collectRegistrations(op, rows)
}

func collectRegistrations(op string, rows pgx.Rows) ([]domain.Registration, error) {
	defer rows.Close()

	var out []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// HighestNumber returns the lexicographically highest registration number
// with the given prefix, or "" when none exist. Callers mint the successor
// inside the same transaction.
func (r *RegistrationRepo) HighestNumber(ctx context.Context, prefix string) (string, error) {
	const op = "postgres.RegistrationRepo.HighestNumber"

	db := r.handle()

	var highest string
	err := db.QueryRow(ctx,
		`SELECT COALESCE(MAX(registration_number), '')
		 FROM registrations
		 WHERE registration_number LIKE $1 || '%'`,
		prefix,
	).Scan(&highest)
	if err != nil {
		return "", wrapDBErr(op, err)
	}

	return highest, nil
}

// CountByStatus returns registration counts grouped by status.
func (r *RegistrationRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	const op = "postgres.RegistrationRepo.CountByStatus"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT status, COUNT(*) FROM registrations GROUP BY status`)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
