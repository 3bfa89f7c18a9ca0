package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
)

// PaymentKind identifies which higher-level entity a transaction funds.
type PaymentKind string

const (
	PaymentKindRegistration PaymentKind = "registration"
	PaymentKindBulk         PaymentKind = "bulk_registration"
	PaymentKindVote         PaymentKind = "vote"
	PaymentKindTicket       PaymentKind = "ticket"
)

// PaymentTransaction is a reference-keyed log of one payment attempt,
// reconciled against whichever entity it funds.
type PaymentTransaction struct {
	ID             uuid.UUID       `json:"id"`
	Reference      string          `json:"reference"`
	Kind           PaymentKind     `json:"kind"`
	EntityID       uuid.UUID       `json:"entityId"`
	UserID         *uuid.UUID      `json:"userId,omitempty"`
	Email          string          `json:"email,omitempty"`
	Amount         int64           `json:"amount"`
	Currency       string          `json:"currency"`
	Status         PaymentStatus   `json:"status"`
	Channel        string          `json:"channel,omitempty"`
	GatewayPayload json.RawMessage `json:"gatewayPayload,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NormalizePaymentStatus maps the assorted shapes gateways report status in
// (numeric codes, string enums in various cases) onto the closed
// PaymentStatus set. Unrecognized values normalize to pending. This is the
// single normalization point shared by the individual, bulk, vote and ticket
// payment flows.
func NormalizePaymentStatus(raw any) PaymentStatus {
	switch v := raw.(type) {
	case nil:
		return PaymentPending
	case PaymentStatus:
		return NormalizePaymentStatus(string(v))
	case string:
		return normalizeStatusString(v)
	case json.Number:
		return normalizeStatusCode(v.String())
	case float64:
		return normalizeStatusCode(strconv.FormatInt(int64(v), 10))
	case int:
		return normalizeStatusCode(strconv.Itoa(v))
	case int64:
		return normalizeStatusCode(strconv.FormatInt(v, 10))
	case bool:
		if v {
			return PaymentCompleted
		}
		return PaymentFailed
	default:
		return PaymentPending
	}
}

func normalizeStatusString(s string) PaymentStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PaymentPending
	}

	switch s {
	case "completed", "complete", "success", "successful", "paid", "approved", "ok":
		return PaymentCompleted
	case "failed", "failure", "declined", "error", "insufficient_funds":
		return PaymentFailed
	case "processing", "in_progress", "ongoing":
		return PaymentProcessing
	case "cancelled", "canceled", "abandoned", "aborted":
		return PaymentCancelled
	case "refunded", "reversed", "chargeback":
		return PaymentRefunded
	case "pending", "initiated", "created":
		return PaymentPending
	}

	// Numeric codes sometimes arrive as strings.
	return normalizeStatusCode(s)
}

// normalizeStatusCode maps the gateway's numeric result codes: 0 and 00 mean
// approved, 1 means declined, 2 means still processing.
func normalizeStatusCode(code string) PaymentStatus {
	switch strings.TrimSpace(code) {
	case "0", "00", "200":
		return PaymentCompleted
	case "1":
		return PaymentFailed
	case "2":
		return PaymentProcessing
	default:
		return PaymentPending
	}
}
