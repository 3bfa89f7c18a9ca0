package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// SignatureHeader carries the gateway's HMAC over the raw webhook body.
const SignatureHeader = "X-Payment-Signature"

// SignBody computes an uppercase hex HMAC-SHA512 over the raw payload.
func SignBody(secret string, body []byte) string {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write(body)
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// VerifyBody checks a webhook signature in constant time. Comparison is
// case-insensitive since gateways differ on hex casing.
func VerifyBody(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := SignBody(secret, body)
	return hmac.Equal([]byte(strings.ToUpper(signature)), []byte(expected))
}

// signParams builds the checkout-URL signature: parameters sorted by key,
// empty values skipped, joined as key=escapedValue pairs, then HMAC'd like
// SignBody. The signature parameter itself is never part of the signed string.
func signParams(secret string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == paramSignature {
			continue
		}
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

	return SignBody(secret, []byte(strings.Join(parts, "&")))
}
