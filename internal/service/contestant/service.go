// Package contestant covers the public side of the competition: promoting
// eligible registrations onto the leaderboard, and casting votes. Free votes
// tally immediately; paid votes go through payment initialization and tally
// on settlement.
package contestant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	redisx "github.com/teejohn247/eth-project-backend-sub001/internal/redis"
	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	redisrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/redis"
	paymentsvc "github.com/teejohn247/eth-project-backend-sub001/internal/service/payment"
	"github.com/teejohn247/eth-project-backend-sub001/internal/uow"
)

type Config struct {
	LeaderboardTTL time.Duration
	VotePrice      int64
}

type Service struct {
	store    *postgresrepo.Store
	cache    *redisrepo.Cache
	pubsub   *redisx.ContestantsPubSub
	limiter  *redisrepo.SlidingWindowLimiter
	payments *paymentsvc.Service
	uow      *uow.UoW
	cfg      Config
	now      func() time.Time
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.ContestantsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	payments *paymentsvc.Service,
	cfg Config,
) *Service {
	if cfg.LeaderboardTTL <= 0 {
		cfg.LeaderboardTTL = 30 * time.Second
	}
	if cfg.VotePrice <= 0 {
		cfg.VotePrice = 100
	}

	return &Service{
		store:    store,
		cache:    cache,
		pubsub:   pubsub,
		limiter:  limiter,
		payments: payments,
		uow:      uow.NewUoW(store),
		cfg:      cfg,
		now:      time.Now,
	}
}

// PromoteResult reports which way the toggle went.
type PromoteResult struct {
	Promoted   bool               `json:"promoted"`
	Contestant *domain.Contestant `json:"contestant,omitempty"`
}

// Promote toggles a registration's contestant status: an eligible
// registration without a contestant record gets promoted, one that already
// has a contestant gets demoted (the record and its tallies are dropped).
func (s *Service) Promote(ctx context.Context, regID uuid.UUID) (*PromoteResult, error) {
	const op = "service.contestant.Promote"

	var out PromoteResult

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		reg, err := s.store.Registrations().With(tx).GetByID(ctx, regID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrRegNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		existing, err := s.store.Contestants().With(tx).GetByRegistrationID(ctx, regID)
		if err == nil {
			if err := s.store.Contestants().With(tx).Delete(ctx, existing.ID); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			s.fanoutChanged(after, existing.ID.String())

			out = PromoteResult{Promoted: false}
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, err)
		}

		if !domain.IsPromotable(reg.Status) {
			return fmt.Errorf("%s:%w", op, ErrNotPromotable)
		}

		highest, err := s.store.Contestants().With(tx).HighestNumber(ctx, domain.ContestantNumberPrefix)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		c := &domain.Contestant{
			ID:               uuid.New(),
			ContestantNumber: domain.FormatContestantNumber(domain.NextSequence(highest, domain.ContestantNumberPrefix)),
			RegistrationID:   regID,
			Status:           domain.ContestantActive,
			PromotedAt:       s.now(),
		}
		if reg.PersonalInfo != nil {
			c.StageName = strings.TrimSpace(reg.PersonalInfo.FirstName + " " + reg.PersonalInfo.LastName)
			c.Email = reg.PersonalInfo.Email
		}
		if reg.TalentInfo != nil {
			c.TalentCategory = reg.TalentInfo.Category
		}
		if reg.Type == domain.RegistrationGroup && reg.GroupInfo != nil && reg.GroupInfo.GroupName != "" {
			c.StageName = reg.GroupInfo.GroupName
		}

		created, err := s.store.Contestants().With(tx).Create(ctx, c)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		out = PromoteResult{Promoted: true, Contestant: created}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Contestant, error) {
	const op = "service.contestant.Get"

	c, err := s.store.Contestants().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return c, nil
}

// List returns the public leaderboard, ordered by total votes. The cached
// copy is short-lived; settlement invalidates it eagerly.
func (s *Service) List(ctx context.Context, status domain.ContestantStatus, limit, offset int) ([]domain.Contestant, error) {
	const op = "service.contestant.List"

	load := func(ctx context.Context) ([]domain.Contestant, error) {
		return s.store.Contestants().List(ctx, status, limit, offset)
	}

	if s.cache == nil || status != "" || offset != 0 {
		out, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		return out, nil
	}

	key := redisx.KeyContestantTally("leaderboard")
	out, err := redisrepo.GetOrSetJSON(ctx, s.cache, key, s.cfg.LeaderboardTTL, load)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// VoteResult is either a settled free vote or a pending paid vote plus the
// checkout the voter should be sent to.
type VoteResult struct {
	Vote    *domain.Vote                 `json:"vote"`
	Payment *paymentsvc.InitializeResult `json:"payment,omitempty"`
}

// Vote casts numberOfVotes for a contestant. A zero amount is a free vote
// and tallies immediately. A paid vote is stored pending and settles through
// payment verification, which is when the tallies move.
func (s *Service) Vote(
	ctx context.Context,
	contestantID uuid.UUID,
	voterEmail string,
	numberOfVotes int64,
	free bool,
) (*VoteResult, error) {
	const op = "service.contestant.Vote"

	voterEmail = strings.ToLower(strings.TrimSpace(voterEmail))
	if numberOfVotes <= 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidVoteCount)
	}

	if s.limiter != nil && voterEmail != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, voterEmail)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w", op, RateLimitedError{RetryAfter: retry})
		}
	}

	var amount int64
	if !free {
		amount = numberOfVotes * s.cfg.VotePrice
	}

	v := &domain.Vote{
		ID:            uuid.New(),
		ContestantID:  contestantID,
		VoterEmail:    voterEmail,
		NumberOfVotes: numberOfVotes,
		AmountPaid:    amount,
		PaymentStatus: domain.PaymentPending,
		Reference:     uuid.NewString(),
	}

	var out VoteResult

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		c, err := s.store.Contestants().With(tx).GetByID(ctx, contestantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if c.Status != domain.ContestantActive {
			return fmt.Errorf("%s:%w", op, ErrNotVotable)
		}

		if !strings.EqualFold(voterEmail, c.Email) {
			return fmt.Errorf("%s:%w", op, ErrEmailMismatch)
		}

		if v.IsFree() {
			v.PaymentStatus = domain.PaymentCompleted
		}

		created, err := s.store.Votes().With(tx).Create(ctx, v)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if created.IsFree() {
			c.ApplyVote(created)
			if err := s.store.Contestants().With(tx).UpdateTallies(ctx, c); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			s.fanoutChanged(after, c.ID.String())
		}

		out.Vote = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !out.Vote.IsFree() {
		init, err := s.payments.Initialize(ctx, domain.PaymentKindVote, out.Vote.ID, nil, voterEmail, out.Vote.Reference)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}

		out.Payment = init
	}

	return &out, nil
}

// fanoutChanged invalidates the cached contestant and notifies subscribers
// once the surrounding transaction commits. Cache and pubsub are optional
// wiring.
func (s *Service) fanoutChanged(after func(uow.AfterCommit), id string) {
	after(func(ctx context.Context) {
		if s.cache != nil {
			_ = s.cache.InvalidateContestant(ctx, id)
		}
		if s.pubsub != nil {
			_ = s.pubsub.PublishContestantChanged(ctx, id)
		}
	})
}

// VerifyVote settles a paid vote by its payment reference.
func (s *Service) VerifyVote(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	const op = "service.contestant.VerifyVote"

	txn, err := s.payments.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return txn, nil
}

func (s *Service) ListVotes(ctx context.Context, contestantID uuid.UUID, limit, offset int) ([]domain.Vote, error) {
	const op = "service.contestant.ListVotes"

	out, err := s.store.Votes().ListByContestant(ctx, contestantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
