package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditionStatus string

const (
	AuditionScheduled AuditionStatus = "scheduled"
	AuditionHeld      AuditionStatus = "held"
	AuditionMissed    AuditionStatus = "missed"
)

type AuditionSchedule struct {
	ID             uuid.UUID      `json:"id"`
	RegistrationID uuid.UUID      `json:"registrationId"`
	Venue          string         `json:"venue"`
	ScheduledAt    time.Time      `json:"scheduledAt"`
	Status         AuditionStatus `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
}

type RoundStatus string

const (
	RoundUpcoming RoundStatus = "upcoming"
	RoundOngoing  RoundStatus = "ongoing"
	RoundClosed   RoundStatus = "closed"
)

type CompetitionRound struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Sequence int         `json:"sequence"`
	StartsAt time.Time   `json:"startsAt"`
	EndsAt   time.Time   `json:"endsAt"`
	Status   RoundStatus `json:"status"`
}

// Evaluation is one judge's score sheet for a contestant in a round.
// TotalScore is derived from the sub-scores, never written directly.
type Evaluation struct {
	ID            uuid.UUID `json:"id"`
	ContestantID  uuid.UUID `json:"contestantId"`
	JudgeID       uuid.UUID `json:"judgeId"`
	RoundID       uuid.UUID `json:"roundId"`
	Technical     int       `json:"technical"`
	Creativity    int       `json:"creativity"`
	StagePresence int       `json:"stagePresence"`
	Comments      string    `json:"comments,omitempty"`
	TotalScore    int       `json:"totalScore"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ComputeTotal recomputes the derived TotalScore. Call before every save.
func (e *Evaluation) ComputeTotal() {
	e.TotalScore = e.Technical + e.Creativity + e.StagePresence
}
