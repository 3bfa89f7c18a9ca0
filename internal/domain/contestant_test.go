package domain

import "testing"

func TestApplyAndReverseVote(t *testing.T) {
	c := &Contestant{}
	v := &Vote{NumberOfVotes: 5, AmountPaid: 500}

	c.ApplyVote(v)
	if c.TotalVotes != 5 || c.TotalVoteAmount != 500 {
		t.Fatalf("after apply: votes=%d amount=%d, want 5/500", c.TotalVotes, c.TotalVoteAmount)
	}

	c.ReverseVote(v)
	if c.TotalVotes != 0 || c.TotalVoteAmount != 0 {
		t.Fatalf("after reverse: votes=%d amount=%d, want 0/0", c.TotalVotes, c.TotalVoteAmount)
	}
}

func TestReverseVoteFloorsAtZero(t *testing.T) {
	c := &Contestant{TotalVotes: 2, TotalVoteAmount: 100}
	c.ReverseVote(&Vote{NumberOfVotes: 5, AmountPaid: 500})

	if c.TotalVotes != 0 {
		t.Errorf("TotalVotes = %d, want 0", c.TotalVotes)
	}
	if c.TotalVoteAmount != 0 {
		t.Errorf("TotalVoteAmount = %d, want 0", c.TotalVoteAmount)
	}
}

func TestIsPromotable(t *testing.T) {
	tests := []struct {
		status RegistrationStatus
		want   bool
	}{
		{RegistrationQualified, true},
		{RegistrationApproved, true},
		{RegistrationSubmitted, true},
		{RegistrationDraft, false},
		{RegistrationRejected, false},
		{RegistrationDisqualified, false},
	}

	for _, tt := range tests {
		if got := IsPromotable(tt.status); got != tt.want {
			t.Errorf("IsPromotable(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestVoteIsFree(t *testing.T) {
	if !(&Vote{AmountPaid: 0}).IsFree() {
		t.Error("zero-amount vote should be free")
	}
	if (&Vote{AmountPaid: 100}).IsFree() {
		t.Error("paid vote should not be free")
	}
}
