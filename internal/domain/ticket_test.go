package domain

import "testing"

func TestTicketAvailable(t *testing.T) {
	tk := &Ticket{TotalQuantity: 100, SoldQuantity: 40}
	if got := tk.Available(); got != 60 {
		t.Errorf("Available() = %d, want 60", got)
	}

	// over-sold data must not go negative
	tk.SoldQuantity = 120
	if got := tk.Available(); got != 0 {
		t.Errorf("Available() = %d, want 0", got)
	}
}

func TestPurchaseTotalQuantity(t *testing.T) {
	p := &TicketPurchase{Items: []PurchaseItem{
		{Quantity: 2},
		{Quantity: 3},
	}}
	if got := p.TotalQuantity(); got != 5 {
		t.Errorf("TotalQuantity() = %d, want 5", got)
	}
}
