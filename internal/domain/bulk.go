package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AmountPerSlot is the price of one bulk registration slot in naira.
const AmountPerSlot int64 = 10000

// RegistrationFee is the individual registration fee. It matches the bulk
// per-slot price so a slot buys exactly one registration.
const RegistrationFee int64 = 10000

type BulkStatus string

const (
	BulkPaymentPending BulkStatus = "payment_pending"
	BulkActive         BulkStatus = "active"
	BulkCompleted      BulkStatus = "completed"
)

type InvitationStatus string

const (
	InvitationPending    InvitationStatus = "pending"
	InvitationSent       InvitationStatus = "sent"
	InvitationAccepted   InvitationStatus = "accepted"
	InvitationRegistered InvitationStatus = "registered"
	InvitationCompleted  InvitationStatus = "completed"
)

// Participant is a named occupant of one bulk registration slot.
type Participant struct {
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	InvitationStatus InvitationStatus `json:"invitationStatus"`
	InvitedAt        *time.Time       `json:"invitedAt,omitempty"`
	UserID           *uuid.UUID       `json:"userId,omitempty"`
	RegistrationID   *uuid.UUID       `json:"registrationId,omitempty"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
}

type BulkRegistration struct {
	ID             uuid.UUID     `json:"id"`
	BulkNumber     string        `json:"bulkNumber"`
	OwnerUserID    uuid.UUID     `json:"ownerUserId"`
	TotalSlots     int           `json:"totalSlots"`
	UsedSlots      int           `json:"usedSlots"`
	AvailableSlots int           `json:"availableSlots"` // derived, recomputed on every save
	AmountPerSlot  int64         `json:"amountPerSlot"`
	TotalAmount    int64         `json:"totalAmount"`
	Status         BulkStatus    `json:"status"`
	PaymentInfo    PaymentInfo   `json:"paymentInfo"`
	Participants   []Participant `json:"participants"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Recompute refreshes the derived AvailableSlots field. Call before every save.
func (b *BulkRegistration) Recompute() {
	b.AvailableSlots = b.TotalSlots - b.UsedSlots
}

// HasParticipantEmail reports whether email is already taken by a participant
// of this bulk registration. Comparison is case-insensitive.
func (b *BulkRegistration) HasParticipantEmail(email string) bool {
	for i := range b.Participants {
		if strings.EqualFold(b.Participants[i].Email, email) {
			return true
		}
	}
	return false
}

// FindParticipant returns the participant with the given email, or nil.
func (b *BulkRegistration) FindParticipant(email string) *Participant {
	for i := range b.Participants {
		if strings.EqualFold(b.Participants[i].Email, email) {
			return &b.Participants[i]
		}
	}
	return nil
}

// AllParticipantsCompleted reports whether every consumed slot has a
// participant whose invitation reached the completed state. False while no
// slot has been consumed.
func (b *BulkRegistration) AllParticipantsCompleted() bool {
	if len(b.Participants) == 0 {
		return false
	}
	for i := range b.Participants {
		if b.Participants[i].InvitationStatus != InvitationCompleted {
			return false
		}
	}
	return true
}

// CanAddParticipant checks the slot accounting guard: the bulk registration
// must be active (payment completed) and have at least one free slot.
func (b *BulkRegistration) CanAddParticipant() error {
	if b.Status != BulkActive {
		return ErrBulkNotActive
	}
	if b.TotalSlots-b.UsedSlots <= 0 {
		return ErrNoSlotsAvailable
	}
	return nil
}
