package domain

import (
	"errors"
	"testing"
)

func TestBulkRecompute(t *testing.T) {
	b := &BulkRegistration{TotalSlots: 5, UsedSlots: 2}
	b.Recompute()
	if b.AvailableSlots != 3 {
		t.Errorf("AvailableSlots = %d, want 3", b.AvailableSlots)
	}

	b.UsedSlots = 5
	b.Recompute()
	if b.AvailableSlots != 0 {
		t.Errorf("AvailableSlots = %d, want 0", b.AvailableSlots)
	}
}

func TestCanAddParticipant(t *testing.T) {
	tests := []struct {
		name    string
		bulk    BulkRegistration
		wantErr error
	}{
		{
			name:    "active with free slots",
			bulk:    BulkRegistration{Status: BulkActive, TotalSlots: 5, UsedSlots: 1},
			wantErr: nil,
		},
		{
			name:    "payment pending",
			bulk:    BulkRegistration{Status: BulkPaymentPending, TotalSlots: 5},
			wantErr: ErrBulkNotActive,
		},
		{
			name:    "all slots consumed",
			bulk:    BulkRegistration{Status: BulkActive, TotalSlots: 5, UsedSlots: 5},
			wantErr: ErrNoSlotsAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bulk.CanAddParticipant()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanAddParticipant() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasParticipantEmail(t *testing.T) {
	b := BulkRegistration{Participants: []Participant{
		{Email: "a@example.com"},
		{Email: "B@Example.com"},
	}}

	if !b.HasParticipantEmail("a@example.com") {
		t.Error("expected match for a@example.com")
	}
	if !b.HasParticipantEmail("b@example.com") {
		t.Error("expected case-insensitive match for b@example.com")
	}
	if b.HasParticipantEmail("c@example.com") {
		t.Error("unexpected match for c@example.com")
	}
}

func TestAllParticipantsCompleted(t *testing.T) {
	tests := []struct {
		name         string
		participants []Participant
		want         bool
	}{
		{"no participants", nil, false},
		{
			"one pending",
			[]Participant{
				{InvitationStatus: InvitationCompleted},
				{InvitationStatus: InvitationSent},
			},
			false,
		},
		{
			"all completed",
			[]Participant{
				{InvitationStatus: InvitationCompleted},
				{InvitationStatus: InvitationCompleted},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BulkRegistration{Participants: tt.participants}
			if got := b.AllParticipantsCompleted(); got != tt.want {
				t.Errorf("AllParticipantsCompleted() = %v, want %v", got, tt.want)
			}
		})
	}
}
