// Package registration implements the multi-step contestant registration
// workflow: draft creation, per-step form updates, media upload forwarding
// and the submission gate.
package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/media"
	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	"github.com/teejohn247/eth-project-backend-sub001/internal/uow"
)

type Service struct {
	store *postgresrepo.Store
	media *media.Client
	uow   *uow.UoW
	now   func() time.Time
}

func New(store *postgresrepo.Store, mediaClient *media.Client) *Service {
	return &Service{
		store: store,
		media: mediaClient,
		uow:   uow.NewUoW(store),
		now:   time.Now,
	}
}

// Create opens a new draft registration. The registration number is minted
// inside the transaction so concurrent creates cannot collide.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, regType domain.RegistrationType) (*domain.Registration, error) {
	const op = "service.registration.Create"

	switch regType {
	case domain.RegistrationIndividual, domain.RegistrationGroup:
	default:
		return nil, fmt.Errorf("%s: unsupported registration type %q", op, regType)
	}

	var out *domain.Registration

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		highest, err := s.store.Registrations().With(tx).HighestNumber(ctx, domain.RegistrationNumberPrefix)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		reg := &domain.Registration{
			ID:                 uuid.New(),
			RegistrationNumber: domain.FormatRegistrationNumber(domain.NextSequence(highest, domain.RegistrationNumberPrefix)),
			UserID:             userID,
			Type:               regType,
			Status:             domain.RegistrationDraft,
			CurrentStep:        domain.StepPersonalInfo,
			PaymentInfo:        domain.PaymentInfo{PaymentStatus: domain.PaymentPending},
		}

		created, err := s.store.Registrations().With(tx).Create(ctx, reg)
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

// Get resolves a registration by its id or by the owner's user id.
func (s *Service) Get(ctx context.Context, idOrOwner, callerID uuid.UUID, isAdmin bool) (*domain.Registration, error) {
	const op = "service.registration.Get"

	reg, err := s.store.Registrations().GetByIDOrOwner(ctx, idOrOwner, callerID, !isAdmin)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateErr(err))
	}

	return reg, nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error) {
	const op = "service.registration.ListMine"

	out, err := s.store.Registrations().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) List(
	ctx context.Context,
	status domain.RegistrationStatus,
	regType domain.RegistrationType,
	limit, offset int,
) ([]domain.Registration, error) {
	const op = "service.registration.List"

	out, err := s.store.Registrations().List(ctx, status, regType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// UpdateStep applies one step's form payload to a draft. The payload shape
// depends on the step; unknown steps are rejected. nextStep, when provided
// by the client, overrides the default current-step advance.
func (s *Service) UpdateStep(
	ctx context.Context,
	callerID, regID uuid.UUID,
	step int,
	payload json.RawMessage,
	nextStep *int,
) (*domain.Registration, error) {
	const op = "service.registration.UpdateStep"

	var out *domain.Registration

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		reg, err := s.store.Registrations().With(tx).GetByIDOrOwner(ctx, regID, callerID, true)
		if err != nil {
			return fmt.Errorf("%s:%w", op, translateErr(err))
		}

		if !reg.IsDraft() {
			return fmt.Errorf("%s:%w", op, ErrNotDraft)
		}

		if err := s.applyStep(reg, step, payload); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		reg.MarkStepCompleted(step)
		if nextStep != nil && *nextStep >= domain.StepPersonalInfo && *nextStep <= domain.StepReview {
			reg.CurrentStep = *nextStep
		} else {
			reg.CurrentStep = domain.DefaultNextStep(step)
		}

		updated, err := s.store.Registrations().With(tx).Update(ctx, reg)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Service) applyStep(reg *domain.Registration, step int, payload json.RawMessage) error {
	switch step {
	case domain.StepPersonalInfo:
		var v domain.PersonalInfo
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		v.Age = domain.DeriveAge(v.DateOfBirth, s.now())
		reg.PersonalInfo = &v
	case domain.StepTalentInfo:
		var v domain.TalentInfo
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		reg.TalentInfo = &v
	case domain.StepGroupInfo:
		var v domain.GroupInfo
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		reg.GroupInfo = &v
	case domain.StepGuardianInfo:
		var v domain.GuardianInfo
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		reg.GuardianInfo = &v
	case domain.StepMediaInfo:
		var v domain.MediaInfo
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		reg.MediaInfo = &v
	case domain.StepAuditionInfo:
		var v domain.AuditionInfo
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		reg.AuditionInfo = &v
	case domain.StepTerms:
		var v domain.Terms
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		if !v.Accepted {
			return ErrTermsNotAgreed
		}
		now := s.now()
		v.AcceptedAt = &now
		reg.Terms = &v
	case domain.StepReview:
		// Review has no payload; completing it just records the step.
	default:
		return ErrInvalidStep
	}

	return nil
}

// UploadMedia forwards an upload to the media host and records the hosted
// URL on the registration's media step. kind is "photo" or "video".
func (s *Service) UploadMedia(
	ctx context.Context,
	callerID, regID uuid.UUID,
	kind, filename string,
	r io.Reader,
) (*domain.Registration, error) {
	const op = "service.registration.UploadMedia"

	reg, err := s.store.Registrations().GetByIDOrOwner(ctx, regID, callerID, true)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateErr(err))
	}

	if !reg.IsDraft() {
		return nil, fmt.Errorf("%s:%w", op, ErrNotDraft)
	}

	folder := "photos"
	if kind == "video" {
		folder = "videos"
	}

	// The upload happens outside the transaction: the media host is slow and
	// a failed DB write just leaves an orphaned asset.
	res, err := s.media.Upload(ctx, folder, filename, r)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	file := domain.MediaFile{URL: res.URL, PublicID: res.PublicID, Format: res.Format, Bytes: res.Bytes}

	var out *domain.Registration
	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		reg, err := s.store.Registrations().With(tx).GetByIDOrOwner(ctx, regID, callerID, true)
		if err != nil {
			return fmt.Errorf("%s:%w", op, translateErr(err))
		}

		if reg.MediaInfo == nil {
			reg.MediaInfo = &domain.MediaInfo{}
		}
		if kind == "video" {
			reg.MediaInfo.Videos = append(reg.MediaInfo.Videos, file)
		} else {
			reg.MediaInfo.ProfilePhoto = &file
		}
		reg.MarkStepCompleted(domain.StepMediaInfo)

		updated, err := s.store.Registrations().With(tx).Update(ctx, reg)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Submit runs the submission gate. Every required step must be completed and
// the fee paid, except for bulk participants whose slot the bulk owner
// already covered. On success the registration moves to submitted, and a
// bulk participant's invitation is marked completed; when that was the last
// outstanding participant the whole bulk registration completes.
func (s *Service) Submit(ctx context.Context, callerID, regID uuid.UUID) (*domain.Registration, error) {
	const op = "service.registration.Submit"

	var out *domain.Registration

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		reg, err := s.store.Registrations().With(tx).GetByIDOrOwner(ctx, regID, callerID, true)
		if err != nil {
			return fmt.Errorf("%s:%w", op, translateErr(err))
		}

		if !reg.IsDraft() {
			return fmt.Errorf("%s:%w", op, ErrNotDraft)
		}

		ok, missing := reg.CanSubmit()
		if !ok {
			if len(missing) > 0 {
				return fmt.Errorf("%s:%w", op, IncompleteStepsError{Missing: missing})
			}
			return fmt.Errorf("%s:%w", op, ErrPaymentRequired)
		}

		now := s.now()
		reg.Status = domain.RegistrationSubmitted
		reg.SubmittedAt = &now

		updated, err := s.store.Registrations().With(tx).Update(ctx, reg)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if reg.IsBulkParticipant() {
			if err := s.completeBulkParticipant(ctx, tx, reg, now); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
		}

		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Service) completeBulkParticipant(ctx context.Context, tx postgresrepo.DB, reg *domain.Registration, now time.Time) error {
	bulk, err := s.store.Bulk().With(tx).GetByID(ctx, *reg.BulkRegistrationID)
	if err != nil {
		return err
	}

	var email string
	if reg.PersonalInfo != nil {
		email = reg.PersonalInfo.Email
	}

	p := bulk.FindParticipant(email)
	if p == nil {
		return nil
	}

	p.InvitationStatus = domain.InvitationCompleted
	p.CompletedAt = &now
	p.RegistrationID = &reg.ID

	if bulk.AllParticipantsCompleted() {
		bulk.Status = domain.BulkCompleted
	}

	_, err = s.store.Bulk().With(tx).Update(ctx, bulk)
	return err
}

// Delete removes a registration. Users can only delete their own drafts;
// anything past draft is admin territory. A bulk participant's slot is
// released back to the bulk registration.
func (s *Service) Delete(ctx context.Context, callerID, regID uuid.UUID, isAdmin bool) error {
	const op = "service.registration.Delete"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		reg, err := s.store.Registrations().With(tx).GetByIDOrOwner(ctx, regID, callerID, !isAdmin)
		if err != nil {
			return fmt.Errorf("%s:%w", op, translateErr(err))
		}

		if !isAdmin && !reg.IsDraft() {
			return fmt.Errorf("%s:%w", op, ErrNotDraft)
		}

		if reg.IsBulkParticipant() {
			if err := s.releaseBulkSlot(ctx, tx, reg); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
		}

		if err := s.store.Registrations().With(tx).Delete(ctx, reg.ID); err != nil {
			return fmt.Errorf("%s:%w", op, translateErr(err))
		}

		return nil
	})
}

func (s *Service) releaseBulkSlot(ctx context.Context, tx postgresrepo.DB, reg *domain.Registration) error {
	bulk, err := s.store.Bulk().With(tx).GetByID(ctx, *reg.BulkRegistrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	var email string
	if reg.PersonalInfo != nil {
		email = reg.PersonalInfo.Email
	}

	kept := bulk.Participants[:0]
	for _, p := range bulk.Participants {
		if p.RegistrationID != nil && *p.RegistrationID == reg.ID {
			continue
		}
		if email != "" && strings.EqualFold(p.Email, email) && p.RegistrationID == nil {
			continue
		}
		kept = append(kept, p)
	}

	if len(kept) < len(bulk.Participants) {
		bulk.Participants = kept
		if bulk.UsedSlots > 0 {
			bulk.UsedSlots--
		}
		if bulk.Status == domain.BulkCompleted {
			bulk.Status = domain.BulkActive
		}
		if _, err := s.store.Bulk().With(tx).Update(ctx, bulk); err != nil {
			return err
		}
	}

	return nil
}

func translateErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return ErrNotOwner
	default:
		return err
	}
}
