package ticketpdf

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

func TestQRPNG(t *testing.T) {
	png, err := QRPNG("TKT-AB12CD34-001")
	if err != nil {
		t.Fatalf("QRPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("not a PNG")
	}
}

func TestRender(t *testing.T) {
	p := &domain.TicketPurchase{
		ID:            uuid.New(),
		Reference:     "ref-abc",
		PurchaserName: "Ada Lovelace",
		Email:         "ada@example.com",
		TicketNumbers: []string{"TKT-AB12CD34-001", "TKT-AB12CD34-002"},
	}

	pdf, err := Render(p, "Emerging Talent Hunt Finals")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("not a PDF")
	}
	// two ticket numbers means two pages
	if n := bytes.Count(pdf, []byte("/Type /Page ")); n < 2 && !bytes.Contains(pdf, []byte("/Count 2")) {
		t.Errorf("expected a page per ticket")
	}
}

func TestRenderNoTickets(t *testing.T) {
	p := &domain.TicketPurchase{ID: uuid.New(), Reference: "ref-empty"}

	if _, err := Render(p, "Event"); err == nil {
		t.Fatal("expected error for purchase without ticket numbers")
	}
}
