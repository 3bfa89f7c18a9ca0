package contestant

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("contestant not found")
	ErrRegNotFound      = errors.New("registration not found")
	ErrNotPromotable    = errors.New("registration status is not eligible for promotion")
	ErrInvalidVoteCount = errors.New("number of votes must be positive")
	ErrNotVotable       = errors.New("contestant is not accepting votes")
	ErrEmailMismatch    = errors.New("email does not match the contestant")
)

// RateLimitedError carries the retry hint from the vote limiter.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("too many votes, retry in %s", e.RetryAfter)
}
