package httpgin

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// --- auth ---

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type ResendCodeRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type SetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type AuthResponse struct {
	User  any    `json:"user"`
	Token string `json:"token,omitempty"`
}

// --- registrations ---

type CreateRegistrationRequest struct {
	RegistrationType string `json:"registrationType" binding:"required,oneof=individual group"`
}

// UpdateStepRequest carries the raw step payload; the service decodes it
// per step number.
type UpdateStepRequest struct {
	Data     json.RawMessage `json:"data"`
	NextStep *int            `json:"nextStep"`
}

// --- bulk registrations ---

type CreateBulkRequest struct {
	TotalSlots int `json:"totalSlots" binding:"required,gt=0"`
}

type AddParticipantRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

type VerifyParticipantRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// --- payments ---

type InitializePaymentRequest struct {
	Kind      string    `json:"kind" binding:"required"`
	EntityID  uuid.UUID `json:"entityId" binding:"required"`
	Email     string    `json:"email"`
	Reference string    `json:"reference"`
}

type SavePaymentRequest struct {
	Reference string          `json:"reference" binding:"required"`
	Status    json.RawMessage `json:"status" binding:"required"`
}

// --- contestants ---

type VoteRequest struct {
	Email         string `json:"email" binding:"required,email"`
	NumberOfVotes int64  `json:"numberOfVotes" binding:"required,gt=0"`
	FreeVote      bool   `json:"freeVote"`
}

// --- tickets ---

type PurchaseTicketsRequest struct {
	PurchaserName string              `json:"purchaserName" binding:"required"`
	Email         string              `json:"email" binding:"required,email"`
	PhoneNumber   string              `json:"phoneNumber"`
	Items         []PurchaseItemInput `json:"items" binding:"required,min=1,dive"`
}

type PurchaseItemInput struct {
	TicketID uuid.UUID `json:"ticketId" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,gt=0"`
}

type CreateTicketRequest struct {
	Type          string `json:"type" binding:"required,oneof=regular vip table"`
	Name          string `json:"name" binding:"required"`
	Price         int64  `json:"price" binding:"required,gt=0"`
	TotalQuantity int    `json:"totalQuantity" binding:"required,gt=0"`
}

// --- complaints ---

type CreateComplaintRequest struct {
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category"`
}

type UpdateComplaintStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	AdminResponse string `json:"adminResponse"`
}

// --- audition program ---

type CreateScheduleRequest struct {
	RegistrationID uuid.UUID `json:"registrationId" binding:"required"`
	ScheduledAt    string    `json:"scheduledAt" binding:"required"`
	Venue          string    `json:"venue"`
}

type CreateRoundRequest struct {
	Name     string `json:"name" binding:"required"`
	Sequence int    `json:"sequence" binding:"required,gt=0"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
}

type CreateEvaluationRequest struct {
	ContestantID  uuid.UUID `json:"contestantId" binding:"required"`
	RoundID       uuid.UUID `json:"roundId" binding:"required"`
	Technical     int       `json:"technical"`
	Creativity    int       `json:"creativity"`
	StagePresence int       `json:"stagePresence"`
	Comments      string    `json:"comments"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
