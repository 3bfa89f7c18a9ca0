// Package payment talks to the checkout gateway: it builds signed
// authorization URLs, queries transaction state, and verifies webhook
// signatures.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	paramMerchant  = "merchant"
	paramReference = "reference"
	paramAmount    = "amount"
	paramCurrency  = "currency"
	paramKind      = "kind"
	paramReturnURL = "returnUrl"
	paramCreatedAt = "createdAt"
	paramSignature = "signature"
)

type Config struct {
	BaseURL      string
	MerchantCode string
	Secret       string
	ReturnURL    string
	Currency     string
	Timeout      time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.Currency == "" {
		cfg.Currency = "NGN"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		now:  time.Now,
	}
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

type AuthorizationRequest struct {
	Reference   string
	Amount      int64
	Kind        string
	Description string
}

// AuthorizationURL builds the signed checkout URL the caller is redirected
// to. The signature covers every parameter so the gateway can reject
// tampered amounts.
func (c *Client) AuthorizationURL(req AuthorizationRequest) (string, error) {
	const op = "payment.Client.AuthorizationURL"

	if req.Reference == "" {
		return "", fmt.Errorf("%s: reference is required", op)
	}
	if req.Amount <= 0 {
		return "", fmt.Errorf("%s: amount must be positive", op)
	}

	params := map[string]string{
		paramMerchant:  c.cfg.MerchantCode,
		paramReference: req.Reference,
		paramAmount:    fmt.Sprintf("%d", req.Amount),
		paramCurrency:  c.cfg.Currency,
		paramKind:      req.Kind,
		paramReturnURL: c.cfg.ReturnURL,
		paramCreatedAt: c.now().UTC().Format("20060102150405"),
	}
	params[paramSignature] = signParams(c.cfg.Secret, params)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if params[k] == "" {
			continue
		}
		parts = append(parts, k+"="+url.QueryEscape(params[k]))
	}

	return c.cfg.BaseURL + "/checkout?" + strings.Join(parts, "&"), nil
}

// VerifyResult is the gateway's view of one transaction. Status is left as a
// raw value; callers normalize it themselves since gateways report statuses
// as strings or numeric codes interchangeably.
type VerifyResult struct {
	Reference string          `json:"reference"`
	Status    json.RawMessage `json:"status"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	PaidAt    string          `json:"paidAt,omitempty"`
	Channel   string          `json:"channel,omitempty"`
}

// RawStatus decodes the status field into a value NormalizePaymentStatus
// accepts: a string, a number, or nil.
func (r *VerifyResult) RawStatus() any {
	if len(r.Status) == 0 {
		return nil
	}
	// Decode would accept a leading value and ignore trailing bytes, so a
	// malformed status like "00" must be caught up front.
	if !json.Valid(r.Status) {
		return string(r.Status)
	}
	dec := json.NewDecoder(strings.NewReader(string(r.Status)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(r.Status)
	}
	return v
}

// Verify asks the gateway for the current state of a transaction.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	const op = "payment.Client.Verify"

	u := fmt.Sprintf("%s/transactions/%s", c.cfg.BaseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: gateway returned %d", op, resp.StatusCode)
	}

	var out VerifyResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &out, nil
}
