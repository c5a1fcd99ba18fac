package token

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestVerify_RoundTrip(t *testing.T) {
	id := uuid.New()
	tok, err := Sign("secret", id, RoleCandidate, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := NewHMACVerifier("secret").Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != id || claims.Role != RoleCandidate {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := Sign("secret", uuid.New(), RoleEmployer, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := NewHMACVerifier("other").Verify(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	tok, err := Sign("secret", uuid.New(), RoleCandidate, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	v := NewHMACVerifier("secret")
	v.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := v.Verify(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
