package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

// AuditionRepo covers audition schedules, competition rounds and judge
// evaluations.
type AuditionRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AuditionRepo) With(db DB) *AuditionRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AuditionRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *AuditionRepo) CreateSchedule(ctx context.Context, s *domain.AuditionSchedule) (*domain.AuditionSchedule, error) {
	const op = "postgres.AuditionRepo.CreateSchedule"

	db := r.handle()

	var out domain.AuditionSchedule
	err := db.QueryRow(ctx,
		`INSERT INTO audition_schedules(id, registration_id, venue, scheduled_at, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, registration_id, venue, scheduled_at, status, created_at`,
		s.ID, s.RegistrationID, s.Venue, s.ScheduledAt, s.Status,
	).Scan(&out.ID, &out.RegistrationID, &out.Venue, &out.ScheduledAt, &out.Status, &out.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *AuditionRepo) ListSchedules(ctx context.Context, limit, offset int) ([]domain.AuditionSchedule, error) {
	const op = "postgres.AuditionRepo.ListSchedules"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, registration_id, venue, scheduled_at, status, created_at
		 FROM audition_schedules
		 ORDER BY scheduled_at
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.AuditionSchedule
	for rows.Next() {
		var s domain.AuditionSchedule
		if err := rows.Scan(&s.ID, &s.RegistrationID, &s.Venue, &s.ScheduledAt, &s.Status, &s.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *AuditionRepo) CreateRound(ctx context.Context, round *domain.CompetitionRound) (*domain.CompetitionRound, error) {
	const op = "postgres.AuditionRepo.CreateRound"

	db := r.handle()

	var out domain.CompetitionRound
	err := db.QueryRow(ctx,
		`INSERT INTO competition_rounds(id, name, sequence, starts_at, ends_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, name, sequence, starts_at, ends_at, status`,
		round.ID, round.Name, round.Sequence, round.StartsAt, round.EndsAt, round.Status,
	).Scan(&out.ID, &out.Name, &out.Sequence, &out.StartsAt, &out.EndsAt, &out.Status)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *AuditionRepo) ListRounds(ctx context.Context) ([]domain.CompetitionRound, error) {
	const op = "postgres.AuditionRepo.ListRounds"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, sequence, starts_at, ends_at, status
		 FROM competition_rounds
		 ORDER BY sequence`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.CompetitionRound
	for rows.Next() {
		var rd domain.CompetitionRound
		if err := rows.Scan(&rd.ID, &rd.Name, &rd.Sequence, &rd.StartsAt, &rd.EndsAt, &rd.Status); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

const evaluationColumns = `id, contestant_id, judge_id, round_id, technical,
	creativity, stage_presence, comments, total_score, created_at`

// CreateEvaluation stores a judge's score sheet. The derived total is
// recomputed before insert; one sheet per (contestant, judge, round).
func (r *AuditionRepo) CreateEvaluation(ctx context.Context, e *domain.Evaluation) (*domain.Evaluation, error) {
	const op = "postgres.AuditionRepo.CreateEvaluation"

	db := r.handle()

	e.ComputeTotal()

	var out domain.Evaluation
	err := db.QueryRow(ctx,
		`INSERT INTO evaluations(id, contestant_id, judge_id, round_id, technical,
			creativity, stage_presence, comments, total_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+evaluationColumns,
		e.ID, e.ContestantID, e.JudgeID, e.RoundID, e.Technical,
		e.Creativity, e.StagePresence, e.Comments, e.TotalScore,
	).Scan(
		&out.ID, &out.ContestantID, &out.JudgeID, &out.RoundID, &out.Technical,
		&out.Creativity, &out.StagePresence, &out.Comments, &out.TotalScore,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *AuditionRepo) ListEvaluations(ctx context.Context, contestantID uuid.UUID) ([]domain.Evaluation, error) {
	const op = "postgres.AuditionRepo.ListEvaluations"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+evaluationColumns+`
		 FROM evaluations WHERE contestant_id = $1
		 ORDER BY created_at`,
		contestantID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Evaluation
	for rows.Next() {
		var e domain.Evaluation
		if err := rows.Scan(
			&e.ID, &e.ContestantID, &e.JudgeID, &e.RoundID, &e.Technical,
			&e.Creativity, &e.StagePresence, &e.Comments, &e.TotalScore,
			&e.CreatedAt,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
