package redis

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	redisx "github.com/teejohn247/eth-project-backend-sub001/internal/redis"
)

// OTPStore keeps short-lived verification codes. At most one code is live per
// (email, purpose): minting a new one overwrites any previous code, and a
// successful verify consumes the code atomically so it cannot be replayed.
type OTPStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOTPStore(rdb *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{rdb: rdb, ttl: ttl}
}

// Mint generates a fresh 6-digit code for the pair and stores it with the
// configured TTL, invalidating whatever code was live before.
func (s *OTPStore) Mint(ctx context.Context, email, purpose string) (string, error) {
	return s.MintWithTTL(ctx, email, purpose, s.ttl)
}

// MintWithTTL is Mint with a caller-chosen lifetime, for codes that travel
// by email and get acted on later than an inline verification.
func (s *OTPStore) MintWithTTL(ctx context.Context, email, purpose string, ttl time.Duration) (string, error) {
	const op = "redis.OTPStore.Mint"

	if ttl <= 0 {
		ttl = s.ttl
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	key := redisx.KeyOTP(email, purpose)
	if err := s.rdb.Set(ctx, key, code, ttl).Err(); err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	return code, nil
}

// Verify checks the submitted code against the live one. On match the code is
// deleted before returning, making it single-use. A missing key means the code
// expired or was never issued; both report as a plain mismatch.
func (s *OTPStore) Verify(ctx context.Context, email, purpose, code string) (bool, error) {
	const op = "redis.OTPStore.Verify"

	key := redisx.KeyOTP(email, purpose)

	stored, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s:%w", op, err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("%s:%w", op, err)
	}

	return true, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
