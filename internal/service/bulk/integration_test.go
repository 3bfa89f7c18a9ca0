//go:build integration

package bulk

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/mailer"
	gateway "github.com/teejohn247/eth-project-backend-sub001/internal/payment"
	redisx "github.com/teejohn247/eth-project-backend-sub001/internal/redis"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	redisrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/redis"
	paymentsvc "github.com/teejohn247/eth-project-backend-sub001/internal/service/payment"
	"github.com/teejohn247/eth-project-backend-sub001/internal/testdb"
)

func TestParticipantOnboarding(t *testing.T) {
	pool := testdb.Start(t)
	rdb := testdb.StartRedis(t)

	store := postgresrepo.NewStore(pool)
	otp := redisrepo.NewOTPStore(rdb, 10*time.Minute)
	mail := mailer.New(mailer.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	svc := New(store, otp, mail, Config{})
	gw := gateway.NewClient(gateway.Config{
		BaseURL:      "https://pay.example.com",
		MerchantCode: "ETH",
		Secret:       "test-secret",
	})
	payments := paymentsvc.New(store, gw, nil, nil, nil, nil, paymentsvc.Config{})

	ctx := context.Background()

	owner, err := store.Users().Create(ctx, &domain.User{
		ID:        uuid.New(),
		Email:     "owner@example.com",
		FirstName: "Grace",
		LastName:  "Eze",
		Role:      domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}

	b, err := svc.Create(ctx, owner.ID, 3)
	if err != nil {
		t.Fatalf("create bulk: %v", err)
	}

	// Inviting before the slots are paid for is rejected.
	if _, err := svc.AddParticipant(ctx, owner.ID, b.ID, "Ada", "Obi", "ada@example.com"); !errors.Is(err, ErrNotActive) {
		t.Fatalf("invite before payment: err = %v, want ErrNotActive", err)
	}

	init, err := payments.Initialize(ctx, domain.PaymentKindBulk, b.ID, &owner.ID, owner.Email, "")
	if err != nil {
		t.Fatalf("initialize payment: %v", err)
	}
	if _, err := payments.Save(ctx, init.Reference, "success", nil); err != nil {
		t.Fatalf("settle payment: %v", err)
	}

	b, err = svc.Get(ctx, b.ID, owner.ID, false)
	if err != nil {
		t.Fatalf("get bulk: %v", err)
	}
	if b.Status != domain.BulkActive {
		t.Fatalf("bulk status after settlement = %s, want active", b.Status)
	}

	// The owner's own email already belongs to an account.
	if _, err := svc.AddParticipant(ctx, owner.ID, b.ID, "Grace", "Eze", owner.Email); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("invite existing account: err = %v, want ErrEmailTaken", err)
	}

	const email = "ada@example.com"
	b, err = svc.AddParticipant(ctx, owner.ID, b.ID, "Ada", "Obi", email)
	if err != nil {
		t.Fatalf("add participant: %v", err)
	}
	if b.UsedSlots != 1 || b.AvailableSlots != 2 {
		t.Errorf("slots = %d used / %d available, want 1/2", b.UsedSlots, b.AvailableSlots)
	}

	// The invitation code is whatever the after-commit hook stored.
	code, err := rdb.Get(ctx, redisx.KeyOTP(email, PurposeInvitation)).Result()
	if err != nil {
		t.Fatalf("read invitation code: %v", err)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	if _, err := svc.VerifyParticipant(ctx, b.ID, email, wrong); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("wrong code: err = %v, want ErrInvalidCode", err)
	}

	reg, err := svc.VerifyParticipant(ctx, b.ID, email, code)
	if err != nil {
		t.Fatalf("verify participant: %v", err)
	}

	// Verification opens a draft registration under a brand-new account,
	// never under the owner's.
	if reg.UserID == owner.ID {
		t.Fatal("participant registration bound to the owner's account")
	}
	u, err := store.Users().GetByEmail(ctx, email)
	if err != nil {
		t.Fatalf("participant account missing: %v", err)
	}
	if reg.UserID != u.ID {
		t.Errorf("registration UserID = %s, want %s", reg.UserID, u.ID)
	}
	if !u.IsEmailVerified {
		t.Error("participant account should start email-verified")
	}
	if reg.Status != domain.RegistrationDraft {
		t.Errorf("registration status = %s, want draft", reg.Status)
	}
	if reg.BulkRegistrationID == nil || *reg.BulkRegistrationID != b.ID {
		t.Errorf("BulkRegistrationID = %v, want %s", reg.BulkRegistrationID, b.ID)
	}

	b, err = svc.Get(ctx, b.ID, owner.ID, false)
	if err != nil {
		t.Fatalf("get bulk: %v", err)
	}
	p := b.FindParticipant(email)
	if p == nil {
		t.Fatal("participant missing after verification")
	}
	if p.InvitationStatus != domain.InvitationRegistered {
		t.Errorf("invitation status = %s, want registered", p.InvitationStatus)
	}
	if p.UserID == nil || *p.UserID != u.ID {
		t.Errorf("participant UserID = %v, want %s", p.UserID, u.ID)
	}

	// The code is single-use; replaying it fails.
	if _, err := svc.VerifyParticipant(ctx, b.ID, email, code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("replayed code: err = %v, want ErrInvalidCode", err)
	}
}
