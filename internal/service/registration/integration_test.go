//go:build integration

package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	"github.com/teejohn247/eth-project-backend-sub001/internal/testdb"
)

func seedUser(t *testing.T, store *postgresrepo.Store, email string) *domain.User {
	t.Helper()

	u, err := store.Users().Create(context.Background(), &domain.User{
		ID:    uuid.New(),
		Email: email,
		Role:  domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestDeleteDraftOnly(t *testing.T) {
	pool := testdb.Start(t)
	store := postgresrepo.NewStore(pool)
	svc := New(store, nil)

	ctx := context.Background()
	owner := seedUser(t, store, "owner@example.com")

	reg, err := svc.Create(ctx, owner.ID, domain.RegistrationIndividual)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	reg.Status = domain.RegistrationSubmitted
	if _, err := store.Registrations().Update(ctx, reg); err != nil {
		t.Fatalf("mark submitted: %v", err)
	}

	// Once submitted, the owner cannot delete any more.
	if err := svc.Delete(ctx, owner.ID, reg.ID, false); !errors.Is(err, ErrNotDraft) {
		t.Fatalf("owner delete of submitted: err = %v, want ErrNotDraft", err)
	}
	if _, err := store.Registrations().GetByID(ctx, reg.ID); err != nil {
		t.Fatalf("registration should survive the rejected delete: %v", err)
	}

	// An admin can.
	if err := svc.Delete(ctx, owner.ID, reg.ID, true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := store.Registrations().GetByID(ctx, reg.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("after admin delete: err = %v, want ErrNotFound", err)
	}

	// And the owner can always drop their own draft.
	draft, err := svc.Create(ctx, owner.ID, domain.RegistrationIndividual)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if err := svc.Delete(ctx, owner.ID, draft.ID, false); err != nil {
		t.Fatalf("owner delete of draft: %v", err)
	}
}

// A bulk registration completes as soon as every invited participant has
// submitted, even while unused slots remain.
func TestSubmitCompletesBulk(t *testing.T) {
	pool := testdb.Start(t)
	store := postgresrepo.NewStore(pool)
	svc := New(store, nil)

	ctx := context.Background()
	owner := seedUser(t, store, "owner@example.com")
	participant := seedUser(t, store, "ada@example.com")

	b, err := store.Bulk().Create(ctx, &domain.BulkRegistration{
		ID:            uuid.New(),
		BulkNumber:    domain.FormatBulkNumber(1),
		OwnerUserID:   owner.ID,
		TotalSlots:    3,
		UsedSlots:     1,
		AmountPerSlot: domain.AmountPerSlot,
		TotalAmount:   3 * domain.AmountPerSlot,
		Status:        domain.BulkActive,
		Participants: []domain.Participant{{
			FirstName:        "Ada",
			LastName:         "Obi",
			Email:            participant.Email,
			InvitationStatus: domain.InvitationRegistered,
			UserID:           &participant.ID,
		}},
	})
	if err != nil {
		t.Fatalf("create bulk: %v", err)
	}

	reg, err := store.Registrations().Create(ctx, &domain.Registration{
		ID:                 uuid.New(),
		RegistrationNumber: domain.FormatRegistrationNumber(1),
		UserID:             participant.ID,
		Type:               domain.RegistrationIndividual,
		Status:             domain.RegistrationDraft,
		CurrentStep:        domain.StepReview,
		CompletedSteps:     domain.RequiredSteps(domain.RegistrationIndividual),
		PersonalInfo: &domain.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Obi",
			Email:     participant.Email,
		},
		BulkRegistrationID: &b.ID,
	})
	if err != nil {
		t.Fatalf("create registration: %v", err)
	}

	submitted, err := svc.Submit(ctx, participant.ID, reg.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != domain.RegistrationSubmitted {
		t.Fatalf("status = %s, want submitted", submitted.Status)
	}

	got, err := store.Bulk().GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("get bulk: %v", err)
	}
	if got.Status != domain.BulkCompleted {
		t.Errorf("bulk status = %s, want completed (used %d of %d slots)",
			got.Status, got.UsedSlots, got.TotalSlots)
	}
	p := got.FindParticipant(participant.Email)
	if p == nil {
		t.Fatal("participant missing")
	}
	if p.InvitationStatus != domain.InvitationCompleted {
		t.Errorf("invitation status = %s, want completed", p.InvitationStatus)
	}
	if p.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
}
