// Package adminreport backs the admin dashboard and the competition-program
// management: headline counts, revenue by payment kind, registration status
// breakdowns, audition schedules, rounds and judge evaluations.
package adminreport

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
)

var (
	ErrInvalidSchedule = errors.New("schedule requires a registration and a future date")
	ErrInvalidScores   = errors.New("scores must be between 0 and 100")
)

type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

// Dashboard is the admin landing-page aggregate.
type Dashboard struct {
	Counts                *postgresrepo.DashboardCounts `json:"counts"`
	RegistrationsByStatus map[string]int64              `json:"registrationsByStatus"`
	RevenueByKind         map[string]int64              `json:"revenueByKind"`
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	const op = "service.adminreport.Dashboard"

	counts, err := s.store.Reporting().DashboardCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	byStatus, err := s.store.Registrations().CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	revenue, err := s.store.Payments().RevenueByKind(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &Dashboard{
		Counts:                counts,
		RegistrationsByStatus: byStatus,
		RevenueByKind:         revenue,
	}, nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const op = "service.adminreport.ListUsers"

	out, err := s.store.Users().List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) CreateSchedule(ctx context.Context, sched *domain.AuditionSchedule) (*domain.AuditionSchedule, error) {
	const op = "service.adminreport.CreateSchedule"

	if sched.RegistrationID == uuid.Nil || sched.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidSchedule)
	}

	if sched.ID == uuid.Nil {
		sched.ID = uuid.New()
	}
	if sched.Status == "" {
		sched.Status = domain.AuditionScheduled
	}

	out, err := s.store.Auditions().CreateSchedule(ctx, sched)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) ListSchedules(ctx context.Context, limit, offset int) ([]domain.AuditionSchedule, error) {
	const op = "service.adminreport.ListSchedules"

	out, err := s.store.Auditions().ListSchedules(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) CreateRound(ctx context.Context, round *domain.CompetitionRound) (*domain.CompetitionRound, error) {
	const op = "service.adminreport.CreateRound"

	if round.ID == uuid.Nil {
		round.ID = uuid.New()
	}
	if round.Status == "" {
		round.Status = domain.RoundUpcoming
	}

	out, err := s.store.Auditions().CreateRound(ctx, round)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) ListRounds(ctx context.Context) ([]domain.CompetitionRound, error) {
	const op = "service.adminreport.ListRounds"

	out, err := s.store.Auditions().ListRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// CreateEvaluation records a judge's score sheet. The total is derived from
// the sub-scores at save time.
func (s *Service) CreateEvaluation(ctx context.Context, e *domain.Evaluation) (*domain.Evaluation, error) {
	const op = "service.adminreport.CreateEvaluation"

	for _, score := range []int{e.Technical, e.Creativity, e.StagePresence} {
		if score < 0 || score > 100 {
			return nil, fmt.Errorf("%s:%w", op, ErrInvalidScores)
		}
	}

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	out, err := s.store.Auditions().CreateEvaluation(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) ListEvaluations(ctx context.Context, contestantID uuid.UUID) ([]domain.Evaluation, error) {
	const op = "service.adminreport.ListEvaluations"

	out, err := s.store.Auditions().ListEvaluations(ctx, contestantID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
