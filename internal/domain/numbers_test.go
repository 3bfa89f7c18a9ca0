package domain

import "testing"

func TestFormatNumbers(t *testing.T) {
	if got := FormatRegistrationNumber(1); got != "ETH2024001" {
		t.Errorf("FormatRegistrationNumber(1) = %q", got)
	}
	if got := FormatRegistrationNumber(1234); got != "ETH20241234" {
		t.Errorf("FormatRegistrationNumber(1234) = %q", got)
	}
	if got := FormatContestantNumber(7); got != "CNT-007" {
		t.Errorf("FormatContestantNumber(7) = %q", got)
	}
	if got := FormatBulkNumber(42); got != "BULK-ETH2024000042" {
		t.Errorf("FormatBulkNumber(42) = %q", got)
	}
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		name    string
		highest string
		prefix  string
		want    int
	}{
		{"empty starts at one", "", RegistrationNumberPrefix, 1},
		{"increments suffix", "ETH2024009", RegistrationNumberPrefix, 10},
		{"contestant prefix", "CNT-001", ContestantNumberPrefix, 2},
		{"bulk prefix", "BULK-ETH2024000005", BulkNumberPrefix, 6},
		{"wrong prefix starts over", "XYZ001", RegistrationNumberPrefix, 1},
		{"garbage suffix starts over", "ETH2024abc", RegistrationNumberPrefix, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextSequence(tt.highest, tt.prefix); got != tt.want {
				t.Errorf("NextSequence(%q) = %d, want %d", tt.highest, got, tt.want)
			}
		})
	}
}

func TestEvaluationComputeTotal(t *testing.T) {
	e := Evaluation{Technical: 8, Creativity: 7, StagePresence: 9}
	e.ComputeTotal()
	if e.TotalScore != 24 {
		t.Errorf("TotalScore = %d, want 24", e.TotalScore)
	}
}

func TestTicketPurchaseComputeTotal(t *testing.T) {
	p := TicketPurchase{Items: []PurchaseItem{
		{Quantity: 2, UnitPrice: 5000},
		{Quantity: 1, UnitPrice: 20000},
	}}
	p.ComputeTotal()

	if p.TotalAmount != 30000 {
		t.Errorf("TotalAmount = %d, want 30000", p.TotalAmount)
	}
	if p.Items[0].Subtotal != 10000 {
		t.Errorf("Items[0].Subtotal = %d, want 10000", p.Items[0].Subtotal)
	}
	if p.TotalQuantity() != 3 {
		t.Errorf("TotalQuantity() = %d, want 3", p.TotalQuantity())
	}
}
