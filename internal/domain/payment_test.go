package domain

import (
	"encoding/json"
	"testing"
)

func TestNormalizePaymentStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want PaymentStatus
	}{
		{"lowercase success", "success", PaymentCompleted},
		{"uppercase success", "SUCCESS", PaymentCompleted},
		{"mixed case paid", "Paid", PaymentCompleted},
		{"completed", "completed", PaymentCompleted},
		{"approved", "approved", PaymentCompleted},
		{"failed", "failed", PaymentFailed},
		{"declined", "DECLINED", PaymentFailed},
		{"processing", "processing", PaymentProcessing},
		{"in progress", "in_progress", PaymentProcessing},
		{"cancelled british", "cancelled", PaymentCancelled},
		{"canceled american", "canceled", PaymentCancelled},
		{"abandoned", "abandoned", PaymentCancelled},
		{"refunded", "refunded", PaymentRefunded},
		{"reversed", "reversed", PaymentRefunded},
		{"pending", "pending", PaymentPending},
		{"whitespace padded", "  success  ", PaymentCompleted},
		{"numeric zero string", "00", PaymentCompleted},
		{"numeric one string", "1", PaymentFailed},
		{"numeric two string", "2", PaymentProcessing},
		{"json number zero", json.Number("0"), PaymentCompleted},
		{"float zero", float64(0), PaymentCompleted},
		{"int one", 1, PaymentFailed},
		{"int64 two", int64(2), PaymentProcessing},
		{"http-ish 200", 200, PaymentCompleted},
		{"bool true", true, PaymentCompleted},
		{"bool false", false, PaymentFailed},
		{"unknown string defaults to pending", "weird_gateway_state", PaymentPending},
		{"unknown number defaults to pending", 42, PaymentPending},
		{"empty string", "", PaymentPending},
		{"nil", nil, PaymentPending},
		{"unsupported type", struct{}{}, PaymentPending},
		{"already a status", PaymentRefunded, PaymentRefunded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePaymentStatus(tt.raw); got != tt.want {
				t.Errorf("NormalizePaymentStatus(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
