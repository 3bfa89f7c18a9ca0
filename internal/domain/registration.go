package domain

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationType string

const (
	RegistrationIndividual RegistrationType = "individual"
	RegistrationGroup      RegistrationType = "group"
	RegistrationBulk       RegistrationType = "bulk"
)

type RegistrationStatus string

const (
	RegistrationDraft        RegistrationStatus = "draft"
	RegistrationSubmitted    RegistrationStatus = "submitted"
	RegistrationUnderReview  RegistrationStatus = "under_review"
	RegistrationApproved     RegistrationStatus = "approved"
	RegistrationRejected     RegistrationStatus = "rejected"
	RegistrationQualified    RegistrationStatus = "qualified"
	RegistrationDisqualified RegistrationStatus = "disqualified"
)

// Registration form steps. Step numbers are part of the public API contract
// and are persisted in completed_steps.
const (
	StepPersonalInfo = 1
	StepTalentInfo   = 2
	StepGroupInfo    = 3
	StepGuardianInfo = 4
	StepMediaInfo    = 5
	StepAuditionInfo = 6
	StepTerms        = 7
	StepReview       = 8
)

type PersonalInfo struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Age         int    `json:"age,omitempty"`         // derived from DateOfBirth
	Gender      string `json:"gender,omitempty"`
	State       string `json:"state,omitempty"`
	LGA         string `json:"lga,omitempty"`
	Address     string `json:"address,omitempty"`
}

type TalentInfo struct {
	Category          string `json:"category,omitempty"`
	SkillLevel        string `json:"skillLevel,omitempty"`
	Description       string `json:"description,omitempty"`
	YearsOfExperience int    `json:"yearsOfExperience,omitempty"`
}

type GroupMember struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

type GroupInfo struct {
	GroupName string        `json:"groupName,omitempty"`
	GroupSize int           `json:"groupSize,omitempty"`
	Members   []GroupMember `json:"members,omitempty"`
}

type GuardianInfo struct {
	FullName     string `json:"fullName,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Email        string `json:"email,omitempty"`
	Consent      bool   `json:"consent,omitempty"`
}

type MediaFile struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
	Format   string `json:"format,omitempty"`
	Bytes    int64  `json:"bytes,omitempty"`
}

type MediaInfo struct {
	ProfilePhoto *MediaFile  `json:"profilePhoto,omitempty"`
	Videos       []MediaFile `json:"videos,omitempty"`
}

type AuditionInfo struct {
	PreferredDate       string `json:"preferredDate,omitempty"`
	PreferredLocation   string `json:"preferredLocation,omitempty"`
	SpecialRequirements string `json:"specialRequirements,omitempty"`
}

type Terms struct {
	Accepted   bool       `json:"accepted"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
}

type PaymentInfo struct {
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Reference     string        `json:"reference,omitempty"`
	Amount        int64         `json:"amount,omitempty"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
}

type Registration struct {
	ID                 uuid.UUID          `json:"id"`
	RegistrationNumber string             `json:"registrationNumber"`
	UserID             uuid.UUID          `json:"userId"`
	Type               RegistrationType   `json:"registrationType"`
	Status             RegistrationStatus `json:"status"`
	CurrentStep        int                `json:"currentStep"`
	CompletedSteps     []int              `json:"completedSteps"`
	PersonalInfo       *PersonalInfo      `json:"personalInfo,omitempty"`
	TalentInfo         *TalentInfo        `json:"talentInfo,omitempty"`
	GroupInfo          *GroupInfo         `json:"groupInfo,omitempty"`
	GuardianInfo       *GuardianInfo      `json:"guardianInfo,omitempty"`
	MediaInfo          *MediaInfo         `json:"mediaInfo,omitempty"`
	AuditionInfo       *AuditionInfo      `json:"auditionInfo,omitempty"`
	Terms              *Terms             `json:"terms,omitempty"`
	PaymentInfo        PaymentInfo        `json:"paymentInfo"`
	BulkRegistrationID *uuid.UUID         `json:"bulkRegistrationId,omitempty"`
	SubmittedAt        *time.Time         `json:"submittedAt,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// IsBulkParticipant reports whether the registration belongs to a participant
// whose slot was paid for by a bulk registration owner.
func (r *Registration) IsBulkParticipant() bool {
	return r.BulkRegistrationID != nil && r.Type != RegistrationBulk
}

// IsDraft reports whether the registration is still mutable.
func (r *Registration) IsDraft() bool {
	return r.Status == RegistrationDraft
}

// HasCompletedStep reports whether step is present in CompletedSteps.
func (r *Registration) HasCompletedStep(step int) bool {
	for _, s := range r.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// MarkStepCompleted adds step to CompletedSteps with set semantics.
func (r *Registration) MarkStepCompleted(step int) {
	if !r.HasCompletedStep(step) {
		r.CompletedSteps = append(r.CompletedSteps, step)
	}
}

// RequiredSteps returns the steps a registration of the given type must
// complete before submission. Media is optional for both types; group info is
// only required for group entries.
func RequiredSteps(t RegistrationType) []int {
	switch t {
	case RegistrationGroup:
		return []int{StepPersonalInfo, StepTalentInfo, StepGroupInfo, StepAuditionInfo, StepTerms}
	default:
		return []int{StepPersonalInfo, StepTalentInfo, StepGuardianInfo, StepAuditionInfo, StepTerms}
	}
}

// MissingSteps returns the required steps not yet present in CompletedSteps,
// in ascending order.
func (r *Registration) MissingSteps() []int {
	var missing []int
	for _, s := range RequiredSteps(r.Type) {
		if !r.HasCompletedStep(s) {
			missing = append(missing, s)
		}
	}
	return missing
}

// CanSubmit reports whether the submission gate passes: status is draft, all
// required steps are completed, and payment is completed. Bulk participants
// are exempt from the payment check because their slot was paid for by the
// bulk owner.
func (r *Registration) CanSubmit() (bool, []int) {
	if r.Status != RegistrationDraft {
		return false, nil
	}

	missing := r.MissingSteps()
	if len(missing) > 0 {
		return false, missing
	}

	if !r.IsBulkParticipant() && r.PaymentInfo.PaymentStatus != PaymentCompleted {
		return false, nil
	}

	return true, nil
}

// DefaultNextStep is the currentStep value set after completing step when the
// client does not provide a nextStep hint.
func DefaultNextStep(step int) int {
	if step >= StepReview {
		return StepReview
	}
	return step + 1
}

// DeriveAge computes a whole-year age from a YYYY-MM-DD date of birth.
// It returns 0 when dob cannot be parsed.
func DeriveAge(dob string, now time.Time) int {
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0
	}

	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
