package domain

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMissingSteps(t *testing.T) {
	tests := []struct {
		name      string
		regType   RegistrationType
		completed []int
		want      []int
	}{
		{
			name:      "individual with nothing completed",
			regType:   RegistrationIndividual,
			completed: nil,
			want:      []int{StepPersonalInfo, StepTalentInfo, StepGuardianInfo, StepAuditionInfo, StepTerms},
		},
		{
			name:      "individual missing talent guardian audition",
			regType:   RegistrationIndividual,
			completed: []int{StepPersonalInfo, StepTerms},
			want:      []int{StepTalentInfo, StepGuardianInfo, StepAuditionInfo},
		},
		{
			name:      "individual all required done",
			regType:   RegistrationIndividual,
			completed: []int{1, 2, 4, 6, 7},
			want:      nil,
		},
		{
			name:      "media step is optional",
			regType:   RegistrationIndividual,
			completed: []int{1, 2, 4, 6, 7},
			want:      nil,
		},
		{
			name:      "group requires group info",
			regType:   RegistrationGroup,
			completed: []int{1, 2, 6, 7},
			want:      []int{StepGroupInfo},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Registration{Type: tt.regType, CompletedSteps: tt.completed}
			if got := r.MissingSteps(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingSteps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanSubmit(t *testing.T) {
	bulkID := uuid.New()

	tests := []struct {
		name string
		reg  Registration
		want bool
	}{
		{
			name: "all steps and payment completed",
			reg: Registration{
				Type:           RegistrationIndividual,
				Status:         RegistrationDraft,
				CompletedSteps: []int{1, 2, 4, 6, 7},
				PaymentInfo:    PaymentInfo{PaymentStatus: PaymentCompleted},
			},
			want: true,
		},
		{
			name: "payment pending blocks submission",
			reg: Registration{
				Type:           RegistrationIndividual,
				Status:         RegistrationDraft,
				CompletedSteps: []int{1, 2, 4, 6, 7},
				PaymentInfo:    PaymentInfo{PaymentStatus: PaymentPending},
			},
			want: false,
		},
		{
			name: "bulk participant exempt from payment check",
			reg: Registration{
				Type:               RegistrationIndividual,
				Status:             RegistrationDraft,
				CompletedSteps:     []int{1, 2, 4, 6, 7},
				PaymentInfo:        PaymentInfo{PaymentStatus: PaymentPending},
				BulkRegistrationID: &bulkID,
			},
			want: true,
		},
		{
			name: "missing steps block submission",
			reg: Registration{
				Type:           RegistrationIndividual,
				Status:         RegistrationDraft,
				CompletedSteps: []int{1},
				PaymentInfo:    PaymentInfo{PaymentStatus: PaymentCompleted},
			},
			want: false,
		},
		{
			name: "already submitted is immutable",
			reg: Registration{
				Type:           RegistrationIndividual,
				Status:         RegistrationSubmitted,
				CompletedSteps: []int{1, 2, 4, 6, 7},
				PaymentInfo:    PaymentInfo{PaymentStatus: PaymentCompleted},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := tt.reg.CanSubmit()
			if got != tt.want {
				t.Errorf("CanSubmit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanSubmitReportsMissingSteps(t *testing.T) {
	r := Registration{
		Type:           RegistrationIndividual,
		Status:         RegistrationDraft,
		CompletedSteps: []int{StepPersonalInfo},
		PaymentInfo:    PaymentInfo{PaymentStatus: PaymentCompleted},
	}

	ok, missing := r.CanSubmit()
	if ok {
		t.Fatal("CanSubmit() = true, want false")
	}
	want := []int{StepTalentInfo, StepGuardianInfo, StepAuditionInfo, StepTerms}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("missing = %v, want %v", missing, want)
	}
}

func TestMarkStepCompletedIsSetLike(t *testing.T) {
	r := &Registration{}
	r.MarkStepCompleted(StepPersonalInfo)
	r.MarkStepCompleted(StepPersonalInfo)
	r.MarkStepCompleted(StepTalentInfo)

	if len(r.CompletedSteps) != 2 {
		t.Errorf("CompletedSteps = %v, want two distinct entries", r.CompletedSteps)
	}
}

func TestDefaultNextStep(t *testing.T) {
	if got := DefaultNextStep(StepPersonalInfo); got != StepTalentInfo {
		t.Errorf("DefaultNextStep(1) = %d, want %d", got, StepTalentInfo)
	}
	if got := DefaultNextStep(StepReview); got != StepReview {
		t.Errorf("DefaultNextStep(8) = %d, want %d", got, StepReview)
	}
}

func TestDeriveAge(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  string
		want int
	}{
		{"birthday passed this year", "2000-01-01", 24},
		{"birthday not yet reached", "2000-12-31", 23},
		{"birthday today", "2010-06-15", 14},
		{"unparsable", "not-a-date", 0},
		{"future date", "2030-01-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveAge(tt.dob, now); got != tt.want {
				t.Errorf("DeriveAge(%q) = %d, want %d", tt.dob, got, tt.want)
			}
		})
	}
}
