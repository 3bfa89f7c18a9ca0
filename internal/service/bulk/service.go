// Package bulk implements group registrations: an owner pays for a block of
// slots up front, then invites participants by email. Each invited
// participant confirms with an OTP and gets a fee-exempt registration bound
// to the paid slot.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/mailer"
	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	redisrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/redis"
	"github.com/teejohn247/eth-project-backend-sub001/internal/uow"
)

const PurposeInvitation = "invitation"

type Config struct {
	OTPTTL   time.Duration
	MaxSlots int
}

type Service struct {
	store *postgresrepo.Store
	otp   *redisrepo.OTPStore
	mail  *mailer.Mailer
	uow   *uow.UoW
	cfg   Config
	now   func() time.Time
}

func New(
	store *postgresrepo.Store,
	otp *redisrepo.OTPStore,
	mail *mailer.Mailer,
	cfg Config,
) *Service {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 30 * time.Minute
	}
	if cfg.MaxSlots <= 0 {
		cfg.MaxSlots = 100
	}

	return &Service{
		store: store,
		otp:   otp,
		mail:  mail,
		uow:   uow.NewUoW(store),
		cfg:   cfg,
		now:   time.Now,
	}
}

// Create opens a bulk registration in payment_pending. The total is always
// derived server-side from the slot count.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, totalSlots int) (*domain.BulkRegistration, error) {
	const op = "service.bulk.Create"

	if totalSlots <= 0 || totalSlots > s.cfg.MaxSlots {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidSlots)
	}

	var out *domain.BulkRegistration

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		highest, err := s.store.Bulk().With(tx).HighestNumber(ctx, domain.BulkNumberPrefix)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		b := &domain.BulkRegistration{
			ID:            uuid.New(),
			BulkNumber:    domain.FormatBulkNumber(domain.NextSequence(highest, domain.BulkNumberPrefix)),
			OwnerUserID:   ownerID,
			TotalSlots:    totalSlots,
			AmountPerSlot: domain.AmountPerSlot,
			TotalAmount:   int64(totalSlots) * domain.AmountPerSlot,
			Status:        domain.BulkPaymentPending,
			PaymentInfo:   domain.PaymentInfo{PaymentStatus: domain.PaymentPending},
			Participants:  []domain.Participant{},
		}

		created, err := s.store.Bulk().With(tx).Create(ctx, b)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		out = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Service) Get(ctx context.Context, bulkID, callerID uuid.UUID, isAdmin bool) (*domain.BulkRegistration, error) {
	const op = "service.bulk.Get"

	b, err := s.store.Bulk().GetByID(ctx, bulkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if !isAdmin && b.OwnerUserID != callerID {
		return nil, fmt.Errorf("%s:%w", op, ErrNotOwner)
	}

	return b, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID) ([]domain.BulkRegistration, error) {
	const op = "service.bulk.ListMine"

	out, err := s.store.Bulk().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.BulkRegistration, error) {
	const op = "service.bulk.List"

	out, err := s.store.Bulk().List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// AddParticipant consumes one slot for the invitee and sends the invitation
// mail with a verification code. Slot accounting and the duplicate-email
// check run inside the transaction; the mail only goes out after commit.
func (s *Service) AddParticipant(
	ctx context.Context,
	callerID, bulkID uuid.UUID,
	firstName, lastName, email string,
) (*domain.BulkRegistration, error) {
	const op = "service.bulk.AddParticipant"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%s: participant email is required", op)
	}

	var out *domain.BulkRegistration
	var ownerName string

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		b, err := s.store.Bulk().With(tx).GetByID(ctx, bulkID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if b.OwnerUserID != callerID {
			return fmt.Errorf("%s:%w", op, ErrNotOwner)
		}

		if err := b.CanAddParticipant(); err != nil {
			if errors.Is(err, domain.ErrBulkNotActive) {
				return fmt.Errorf("%s:%w", op, ErrNotActive)
			}

			return fmt.Errorf("%s:%w", op, ErrNoSlotsAvailable)
		}

		if b.HasParticipantEmail(email) {
			return fmt.Errorf("%s:%w", op, ErrDuplicateParticipant)
		}

		exists, err := s.store.Users().With(tx).EmailExists(ctx, email)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}
		if exists {
			return fmt.Errorf("%s:%w", op, ErrEmailTaken)
		}

		now := s.now()
		b.Participants = append(b.Participants, domain.Participant{
			FirstName:        firstName,
			LastName:         lastName,
			Email:            email,
			InvitationStatus: domain.InvitationSent,
			InvitedAt:        &now,
		})
		b.UsedSlots++

		updated, err := s.store.Bulk().With(tx).Update(ctx, b)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if owner, err := s.store.Users().With(tx).GetByID(ctx, b.OwnerUserID); err == nil {
			ownerName = strings.TrimSpace(owner.FirstName + " " + owner.LastName)
		}

		out = updated

		after(func(ctx context.Context) {
			code, err := s.otp.MintWithTTL(ctx, email, PurposeInvitation, s.cfg.OTPTTL)
			if err != nil {
				return
			}
			_ = s.mail.SendInvitation(mailer.InvitationData{
				Name:        strings.TrimSpace(firstName + " " + lastName),
				Email:       email,
				InviterName: ownerName,
				BulkNumber:  updated.BulkNumber,
				Code:        code,
				TTLMinutes:  int(s.cfg.OTPTTL.Minutes()),
			})
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// VerifyParticipant consumes the invitation code, creates the participant's
// user account, and opens their fee-exempt registration pre-filled with the
// invited name and email. An email already bound to an account is rejected;
// the owner invites people, not existing users.
func (s *Service) VerifyParticipant(
	ctx context.Context,
	bulkID uuid.UUID,
	email, code string,
) (*domain.Registration, error) {
	const op = "service.bulk.VerifyParticipant"

	email = strings.ToLower(strings.TrimSpace(email))

	ok, err := s.otp.Verify(ctx, email, PurposeInvitation, code)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidCode)
	}

	var out *domain.Registration

	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		b, err := s.store.Bulk().With(tx).GetByID(ctx, bulkID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		p := b.FindParticipant(email)
		if p == nil {
			return fmt.Errorf("%s:%w", op, ErrUnknownParticipant)
		}

		if p.RegistrationID != nil {
			reg, err := s.store.Registrations().With(tx).GetByID(ctx, *p.RegistrationID)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
			out = reg
			return nil
		}

		exists, err := s.store.Users().With(tx).EmailExists(ctx, email)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}
		if exists {
			return fmt.Errorf("%s:%w", op, ErrEmailTaken)
		}

		// The OTP stood in for the password: the account starts verified, and
		// the participant sets a password through the reset flow when they
		// want to log in again.
		u, err := s.store.Users().With(tx).Create(ctx, &domain.User{
			ID:              uuid.New(),
			Email:           email,
			FirstName:       p.FirstName,
			LastName:        p.LastName,
			Role:            domain.RoleUser,
			IsEmailVerified: true,
		})
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}
		p.UserID = &u.ID

		highest, err := s.store.Registrations().With(tx).HighestNumber(ctx, domain.RegistrationNumberPrefix)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		reg := &domain.Registration{
			ID:                 uuid.New(),
			RegistrationNumber: domain.FormatRegistrationNumber(domain.NextSequence(highest, domain.RegistrationNumberPrefix)),
			UserID:             u.ID,
			Type:               domain.RegistrationIndividual,
			Status:             domain.RegistrationDraft,
			CurrentStep:        domain.StepPersonalInfo,
			PersonalInfo: &domain.PersonalInfo{
				FirstName: p.FirstName,
				LastName:  p.LastName,
				Email:     email,
			},
			PaymentInfo:        domain.PaymentInfo{PaymentStatus: domain.PaymentPending},
			BulkRegistrationID: &b.ID,
		}

		created, err := s.store.Registrations().With(tx).Create(ctx, reg)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		p.InvitationStatus = domain.InvitationRegistered
		p.RegistrationID = &created.ID

		if _, err := s.store.Bulk().With(tx).Update(ctx, b); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		out = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
