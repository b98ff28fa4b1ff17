package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", "HS256", "issuer", time.Minute, "petrov", 42, "Преподаватель")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseToken("secret", "HS256", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if claims.Username() != "petrov" || claims.UserID != 42 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Role != RoleTeacher {
		t.Fatalf("expected normalized role teacher, got %q", claims.Role)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := NewAccessToken("secret", "HS256", "issuer", -time.Minute, "petrov", 42, "admin")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", "HS256", token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := NewAccessToken("secret", "HS256", "issuer", time.Minute, "petrov", 42, "admin")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("other-secret", "HS256", token); err == nil {
		t.Fatalf("expected signature mismatch to be rejected")
	}
}

func TestWrongAlgorithmRejected(t *testing.T) {
	token, err := NewAccessToken("secret", "HS384", "issuer", time.Minute, "petrov", 42, "admin")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", "HS256", token); err == nil {
		t.Fatalf("expected alg mismatch to be rejected")
	}
}

func TestMissingClaimsRejected(t *testing.T) {
	// No user id.
	token, err := NewAccessToken("secret", "HS256", "issuer", time.Minute, "petrov", 0, "admin")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", "HS256", token); err != ErrMissingClaims {
		t.Fatalf("expected ErrMissingClaims, got %v", err)
	}

	// No subject.
	token, err = NewAccessToken("secret", "HS256", "issuer", time.Minute, "", 42, "admin")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", "HS256", token); err != ErrMissingClaims {
		t.Fatalf("expected ErrMissingClaims, got %v", err)
	}
}
