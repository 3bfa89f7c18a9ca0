// Package auth implements the account lifecycle: registration is split into
// email capture, OTP verification and password setup, so a user can exist in
// a half-onboarded state between steps.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	tokens "github.com/teejohn247/eth-project-backend-sub001/internal/auth"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/mailer"
	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	redisrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/redis"
)

const (
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
)

type Config struct {
	OTPTTL time.Duration
}

type Service struct {
	store  *postgresrepo.Store
	otp    *redisrepo.OTPStore
	mail   *mailer.Mailer
	tokens *tokens.TokenManager
	cfg    Config
}

func New(
	store *postgresrepo.Store,
	otp *redisrepo.OTPStore,
	mail *mailer.Mailer,
	tm *tokens.TokenManager,
	cfg Config,
) *Service {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}

	return &Service{
		store:  store,
		otp:    otp,
		mail:   mail,
		tokens: tm,
		cfg:    cfg,
	}
}

// Register creates an unverified account and emails a verification code.
//
// Returns auth.ErrEmailTaken when the address is already registered.
func (s *Service) Register(ctx context.Context, email, firstName, lastName string) (*domain.User, error) {
	const op = "service.auth.Register"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%s: email is required", op)
	}

	u := &domain.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      domain.RoleUser,
	}

	created, err := s.store.Users().Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s:%w", op, ErrEmailTaken)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	code, err := s.otp.Mint(ctx, email, PurposeEmailVerification)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if err := s.mail.SendOTP(email, PurposeEmailVerification, code, s.cfg.OTPTTL); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return created, nil
}

// ResendCode mints a fresh verification code, invalidating the previous one.
func (s *Service) ResendCode(ctx context.Context, email, purpose string) error {
	const op = "service.auth.ResendCode"

	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.store.Users().GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	code, err := s.otp.Mint(ctx, email, purpose)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.mail.SendOTP(email, purpose, code, s.cfg.OTPTTL); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// VerifyEmail consumes the emailed code and marks the account verified. On
// success it issues a token so the client can continue straight to password
// setup.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (*domain.User, string, error) {
	const op = "service.auth.VerifyEmail"

	email = strings.ToLower(strings.TrimSpace(email))

	ok, err := s.otp.Verify(ctx, email, PurposeEmailVerification, code)
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}
	if !ok {
		return nil, "", fmt.Errorf("%s:%w", op, ErrInvalidCode)
	}

	if err := s.store.Users().SetEmailVerified(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	return u, token, nil
}

// SetPassword completes onboarding for a verified account. The fresh token
// reflects the isPasswordSet flag flipping.
func (s *Service) SetPassword(ctx context.Context, userID uuid.UUID, password string) (*domain.User, string, error) {
	const op = "service.auth.SetPassword"

	if len(password) < 8 {
		return nil, "", fmt.Errorf("%s: password must be at least 8 characters", op)
	}

	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	if !u.IsEmailVerified {
		return nil, "", fmt.Errorf("%s:%w", op, ErrEmailNotVerified)
	}

	hash, err := tokens.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	if err := s.store.Users().SetPassword(ctx, userID, hash); err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	u, err = s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	return u, token, nil
}

// Login authenticates with email and password.
//
// Returns auth.ErrInvalidCredentials on any mismatch; it never distinguishes
// an unknown email from a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	const op = "service.auth.Login"

	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
		}

		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	if !u.IsPasswordSet || !tokens.CheckPassword(u.PasswordHash, password) {
		return nil, "", fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	return u, token, nil
}

// ForgotPassword mints a reset code for an existing account. Unknown emails
// return nil so the endpoint does not leak which addresses are registered.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	const op = "service.auth.ForgotPassword"

	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.store.Users().GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	code, err := s.otp.Mint(ctx, email, PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.mail.SendOTP(email, PurposePasswordReset, code, s.cfg.OTPTTL); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// ResetPassword consumes a reset code and replaces the password.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	const op = "service.auth.ResetPassword"

	email = strings.ToLower(strings.TrimSpace(email))

	if len(newPassword) < 8 {
		return fmt.Errorf("%s: password must be at least 8 characters", op)
	}

	ok, err := s.otp.Verify(ctx, email, PurposePasswordReset, code)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s:%w", op, ErrInvalidCode)
	}

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	hash, err := tokens.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.store.Users().SetPassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	const op = "service.auth.Me"

	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return u, nil
}
