package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func testClient(baseURL string) *Client {
	c := NewClient(Config{
		BaseURL:      baseURL,
		MerchantCode: "ETH001",
		Secret:       "topsecret",
		ReturnURL:    "https://app.example.com/return",
	})
	c.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestAuthorizationURL(t *testing.T) {
	c := testClient("https://gw.example.com")

	out, err := c.AuthorizationURL(AuthorizationRequest{
		Reference: "ref-123",
		Amount:    10000,
		Kind:      "registration",
	})
	if err != nil {
		t.Fatalf("AuthorizationURL: %v", err)
	}

	if !strings.HasPrefix(out, "https://gw.example.com/checkout?") {
		t.Fatalf("unexpected URL prefix: %s", out)
	}

	u, err := url.Parse(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()

	if q.Get("reference") != "ref-123" || q.Get("amount") != "10000" {
		t.Errorf("params not carried: %v", q)
	}

	// the signature must cover exactly the non-empty params
	want := signParams("topsecret", map[string]string{
		"merchant":  "ETH001",
		"reference": "ref-123",
		"amount":    "10000",
		"currency":  "NGN",
		"kind":      "registration",
		"returnUrl": "https://app.example.com/return",
		"createdAt": "20240601120000",
	})
	if q.Get("signature") != want {
		t.Errorf("signature = %s, want %s", q.Get("signature"), want)
	}
}

func TestAuthorizationURLRejectsBadInput(t *testing.T) {
	c := testClient("https://gw.example.com")

	if _, err := c.AuthorizationURL(AuthorizationRequest{Amount: 100}); err == nil {
		t.Error("expected error for missing reference")
	}
	if _, err := c.AuthorizationURL(AuthorizationRequest{Reference: "r", Amount: 0}); err == nil {
		t.Error("expected error for zero amount")
	}
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer topsecret" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/transactions/ref-123" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"reference":"ref-123","status":"success","amount":10000,"currency":"NGN"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL).WithHTTPClient(srv.Client())

	out, err := c.Verify(context.Background(), "ref-123")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if out.Reference != "ref-123" || out.Amount != 10000 {
		t.Fatalf("unexpected result: %+v", out)
	}
	if s, ok := out.RawStatus().(string); !ok || s != "success" {
		t.Errorf("RawStatus() = %v", out.RawStatus())
	}
}

func TestVerifyGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL).WithHTTPClient(srv.Client())
	if _, err := c.Verify(context.Background(), "ref-123"); err == nil {
		t.Fatal("expected error on non-200 gateway response")
	}
}

func TestRawStatusNumeric(t *testing.T) {
	r := &VerifyResult{Status: []byte("00")}
	v := r.RawStatus()
	// "00" is not valid JSON, so it comes back as the raw string
	if s, ok := v.(string); !ok || s != "00" {
		t.Errorf("RawStatus() = %v (%T)", v, v)
	}

	r = &VerifyResult{Status: []byte("1")}
	if _, ok := r.RawStatus().(interface{ Int64() (int64, error) }); !ok {
		t.Errorf("numeric status should decode as json.Number, got %T", r.RawStatus())
	}
}
