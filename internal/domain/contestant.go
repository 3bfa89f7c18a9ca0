package domain

import (
	"time"

	"github.com/google/uuid"
)

type ContestantStatus string

const (
	ContestantActive     ContestantStatus = "active"
	ContestantEliminated ContestantStatus = "eliminated"
	ContestantWithdrawn  ContestantStatus = "withdrawn"
)

// Contestant is the promoted, votable public projection of an eligible
// registration. TotalVotes and TotalVoteAmount are mutated only by
// vote-payment completion and reversal.
type Contestant struct {
	ID               uuid.UUID        `json:"id"`
	ContestantNumber string           `json:"contestantNumber"`
	RegistrationID   uuid.UUID        `json:"registrationId"`
	StageName        string           `json:"stageName"`
	Email            string           `json:"email"`
	TalentCategory   string           `json:"talentCategory,omitempty"`
	Status           ContestantStatus `json:"status"`
	TotalVotes       int64            `json:"totalVotes"`
	TotalVoteAmount  int64            `json:"totalVoteAmount"`
	PromotedAt       time.Time        `json:"promotedAt"`
}

// promotableStatuses are the registration statuses eligible for promotion.
var promotableStatuses = map[RegistrationStatus]bool{
	RegistrationQualified: true,
	RegistrationApproved:  true,
	RegistrationSubmitted: true,
}

// IsPromotable reports whether a registration in the given status can be
// promoted to contestant.
func IsPromotable(s RegistrationStatus) bool {
	return promotableStatuses[s]
}

type Vote struct {
	ID            uuid.UUID     `json:"id"`
	ContestantID  uuid.UUID     `json:"contestantId"`
	VoterEmail    string        `json:"voterEmail"`
	NumberOfVotes int64         `json:"numberOfVotes"`
	AmountPaid    int64         `json:"amountPaid"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Reference     string        `json:"reference,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// IsFree reports whether the vote carries no charge. Free votes complete
// immediately and are tallied on creation.
func (v *Vote) IsFree() bool {
	return v.AmountPaid == 0
}

// ApplyVote adds a completed vote to the contestant's public tallies.
func (c *Contestant) ApplyVote(v *Vote) {
	c.TotalVotes += v.NumberOfVotes
	c.TotalVoteAmount += v.AmountPaid
}

// ReverseVote removes a previously-applied vote from the tallies, flooring
// both counters at zero.
func (c *Contestant) ReverseVote(v *Vote) {
	c.TotalVotes -= v.NumberOfVotes
	if c.TotalVotes < 0 {
		c.TotalVotes = 0
	}
	c.TotalVoteAmount -= v.AmountPaid
	if c.TotalVoteAmount < 0 {
		c.TotalVoteAmount = 0
	}
}
