package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

var testUserID = uuid.New()

func testUser() *domain.User {
	return &domain.User{
		ID:              testUserID,
		Email:           "ada@example.com",
		IsEmailVerified: true,
		IsPasswordSet:   true,
		Role:            domain.RoleUser,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, "eth-api")

	tok, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if claims.UserID != testUserID {
		t.Errorf("UserID = %v, want %v", claims.UserID, testUserID)
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if !claims.IsEmailVerified || !claims.IsPasswordSet {
		t.Errorf("flags = %v/%v, want true/true", claims.IsEmailVerified, claims.IsPasswordSet)
	}
	if claims.Role != domain.RoleUser {
		t.Errorf("Role = %q", claims.Role)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour, "eth-api")
	verifier := NewTokenManager("secret-b", time.Hour, "eth-api")

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute, "eth-api")

	base := time.Now()
	m.now = func() time.Time { return base }

	tok, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	m.now = func() time.Time { return base.Add(2 * time.Minute) }

	if _, err := m.Verify(tok); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, "eth-api")

	if _, err := m.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("CheckPassword rejected correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword accepted wrong password")
	}
}
