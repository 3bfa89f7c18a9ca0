//go:build integration

package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	"github.com/teejohn247/eth-project-backend-sub001/internal/testdb"
)

// A completed settlement reported twice (verify racing the client save, a
// replayed webhook) must mint ticket numbers and move sold counters once.
func TestTicketSettlementAppliesOnce(t *testing.T) {
	pool := testdb.Start(t)
	store := postgresrepo.NewStore(pool)
	svc := New(store, nil, nil, nil, nil, nil, Config{})

	ctx := context.Background()

	tk, err := store.Tickets().Create(ctx, &domain.Ticket{
		ID:            uuid.New(),
		Type:          "regular",
		Name:          "Regular",
		Price:         5000,
		TotalQuantity: 10,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	reference := uuid.NewString()
	purchase, err := store.Purchases().Create(ctx, &domain.TicketPurchase{
		ID:            uuid.New(),
		Reference:     reference,
		PurchaserName: "Ada Obi",
		Email:         "ada@example.com",
		Items: []domain.PurchaseItem{{
			TicketID:   tk.ID,
			TicketType: tk.Type,
			Quantity:   3,
			UnitPrice:  tk.Price,
			Subtotal:   3 * tk.Price,
		}},
		TotalAmount:   3 * tk.Price,
		PaymentStatus: domain.PaymentPending,
	})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}

	if _, err := store.Payments().Create(ctx, &domain.PaymentTransaction{
		ID:        uuid.New(),
		Reference: reference,
		Kind:      domain.PaymentKindTicket,
		EntityID:  purchase.ID,
		Email:     purchase.Email,
		Amount:    purchase.TotalAmount,
		Currency:  "NGN",
		Status:    domain.PaymentPending,
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	txn, err := svc.Save(ctx, reference, "success", nil)
	if err != nil {
		t.Fatalf("first settlement: %v", err)
	}
	if txn.Status != domain.PaymentCompleted {
		t.Fatalf("status = %s, want completed", txn.Status)
	}

	settled, err := store.Purchases().GetByReference(ctx, reference)
	if err != nil {
		t.Fatalf("get purchase: %v", err)
	}
	if len(settled.TicketNumbers) != 3 {
		t.Fatalf("ticket numbers = %d, want 3", len(settled.TicketNumbers))
	}

	// The same outcome reported again is a no-op.
	if _, err := svc.Save(ctx, reference, "success", nil); err != nil {
		t.Fatalf("second settlement: %v", err)
	}

	again, err := store.Purchases().GetByReference(ctx, reference)
	if err != nil {
		t.Fatalf("get purchase: %v", err)
	}
	if len(again.TicketNumbers) != 3 {
		t.Errorf("ticket numbers after replay = %d, want 3", len(again.TicketNumbers))
	}
	for i := range settled.TicketNumbers {
		if again.TicketNumbers[i] != settled.TicketNumbers[i] {
			t.Errorf("ticket number %d changed on replay: %s != %s", i, again.TicketNumbers[i], settled.TicketNumbers[i])
		}
	}

	sold, err := store.Tickets().GetByID(ctx, tk.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if sold.SoldQuantity != 3 {
		t.Errorf("SoldQuantity = %d, want exactly 3", sold.SoldQuantity)
	}
}
