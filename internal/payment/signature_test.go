package payment

import (
	"strings"
	"testing"
)

func TestSignBodyDeterministic(t *testing.T) {
	body := []byte(`{"reference":"ref-1","status":"completed"}`)

	a := SignBody("secret", body)
	b := SignBody("secret", body)

	if a != b {
		t.Fatalf("same input signed differently: %s vs %s", a, b)
	}
	if len(a) != 128 {
		t.Errorf("signature length = %d, want 128 hex chars", len(a))
	}
	if a != strings.ToUpper(a) {
		t.Errorf("signature not uppercase: %s", a)
	}
}

func TestVerifyBody(t *testing.T) {
	body := []byte(`{"reference":"ref-1","status":"completed"}`)
	sig := SignBody("secret", body)

	if !VerifyBody("secret", body, sig) {
		t.Error("valid signature rejected")
	}
	if !VerifyBody("secret", body, strings.ToLower(sig)) {
		t.Error("lowercase variant of valid signature rejected")
	}
	if VerifyBody("secret", body, "") {
		t.Error("empty signature accepted")
	}
	if VerifyBody("other-secret", body, sig) {
		t.Error("signature accepted under wrong secret")
	}
	if VerifyBody("secret", []byte(`{"reference":"ref-1","status":"failed"}`), sig) {
		t.Error("signature accepted for tampered body")
	}
}

func TestSignParamsOrderIndependent(t *testing.T) {
	a := signParams("secret", map[string]string{
		"amount":    "50000",
		"reference": "ref-1",
		"merchant":  "ETH",
	})
	b := signParams("secret", map[string]string{
		"merchant":  "ETH",
		"reference": "ref-1",
		"amount":    "50000",
	})

	if a != b {
		t.Errorf("signature depends on map iteration order: %s vs %s", a, b)
	}
}

func TestSignParamsSkipsEmptyAndSignature(t *testing.T) {
	base := signParams("secret", map[string]string{
		"amount":    "50000",
		"reference": "ref-1",
	})
	withNoise := signParams("secret", map[string]string{
		"amount":       "50000",
		"reference":    "ref-1",
		"channel":      "",
		paramSignature: "DEADBEEF",
	})

	if base != withNoise {
		t.Errorf("empty values or the signature param changed the hash")
	}
}
