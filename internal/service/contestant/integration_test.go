//go:build integration

package contestant

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	"github.com/teejohn247/eth-project-backend-sub001/internal/testdb"
)

func seedSubmittedRegistration(t *testing.T, store *postgresrepo.Store, n int) *domain.Registration {
	t.Helper()
	ctx := context.Background()

	email := fmt.Sprintf("owner%d@example.com", n)
	u, err := store.Users().Create(ctx, &domain.User{
		ID:    uuid.New(),
		Email: email,
		Role:  domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	reg, err := store.Registrations().Create(ctx, &domain.Registration{
		ID:                 uuid.New(),
		RegistrationNumber: domain.FormatRegistrationNumber(n),
		UserID:             u.ID,
		Type:               domain.RegistrationIndividual,
		Status:             domain.RegistrationSubmitted,
		PersonalInfo: &domain.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Obi",
			Email:     email,
		},
		TalentInfo: &domain.TalentInfo{Category: "singing"},
	})
	if err != nil {
		t.Fatalf("create registration: %v", err)
	}

	return reg
}

func TestPromoteToggle(t *testing.T) {
	pool := testdb.Start(t)
	store := postgresrepo.NewStore(pool)
	svc := New(store, nil, nil, nil, nil, Config{})

	ctx := context.Background()
	reg := seedSubmittedRegistration(t, store, 1)

	res, err := svc.Promote(ctx, reg.ID)
	if err != nil {
		t.Fatalf("first promote: %v", err)
	}
	if !res.Promoted || res.Contestant == nil {
		t.Fatalf("first promote = %+v, want promoted with contestant", res)
	}
	first := res.Contestant

	// Same call again demotes: the contestant record is gone afterwards.
	res, err = svc.Promote(ctx, reg.ID)
	if err != nil {
		t.Fatalf("demote: %v", err)
	}
	if res.Promoted {
		t.Fatal("second promote should demote")
	}
	if _, err := svc.Get(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after demote: err = %v, want ErrNotFound", err)
	}

	// And a third call promotes a fresh contestant for the same registration.
	res, err = svc.Promote(ctx, reg.ID)
	if err != nil {
		t.Fatalf("re-promote: %v", err)
	}
	if !res.Promoted || res.Contestant == nil {
		t.Fatalf("re-promote = %+v, want promoted", res)
	}
	if res.Contestant.ID == first.ID {
		t.Error("re-promotion reused the deleted contestant record")
	}
	if res.Contestant.RegistrationID != reg.ID {
		t.Errorf("RegistrationID = %s, want %s", res.Contestant.RegistrationID, reg.ID)
	}
	if res.Contestant.TotalVotes != 0 {
		t.Errorf("fresh contestant TotalVotes = %d, want 0", res.Contestant.TotalVotes)
	}
}

func TestVoteFreeAndEmailGuard(t *testing.T) {
	pool := testdb.Start(t)
	store := postgresrepo.NewStore(pool)
	svc := New(store, nil, nil, nil, nil, Config{})

	ctx := context.Background()
	reg := seedSubmittedRegistration(t, store, 1)

	res, err := svc.Promote(ctx, reg.ID)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	c := res.Contestant

	out, err := svc.Vote(ctx, c.ID, c.Email, 5, true)
	if err != nil {
		t.Fatalf("free vote: %v", err)
	}
	if out.Vote.PaymentStatus != domain.PaymentCompleted {
		t.Errorf("free vote status = %s, want completed", out.Vote.PaymentStatus)
	}
	if out.Payment != nil {
		t.Error("free vote should not initialize a payment")
	}

	got, err := svc.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get contestant: %v", err)
	}
	if got.TotalVotes != 5 {
		t.Errorf("TotalVotes = %d, want 5", got.TotalVotes)
	}

	// A voter email that does not belong to the contestant is rejected
	// before anything is written.
	if _, err := svc.Vote(ctx, c.ID, "stranger@example.com", 1, true); !errors.Is(err, ErrEmailMismatch) {
		t.Fatalf("mismatched email: err = %v, want ErrEmailMismatch", err)
	}

	got, err = svc.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get contestant: %v", err)
	}
	if got.TotalVotes != 5 {
		t.Errorf("TotalVotes after rejected vote = %d, want 5", got.TotalVotes)
	}
}
