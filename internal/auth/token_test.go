package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/auth"
)

func TestTokenIssueAndValidate(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, "alice", "ADMIN", true)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("Expected header.payload.signature format, got %q", token)
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Expected user ID 42, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Expected username alice, got %s", claims.Username)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("Expected role ADMIN, got %s", claims.Role)
	}
	if !claims.SuperUser {
		t.Error("Expected super user flag to survive the round trip")
	}
}

func TestTokenTamperedSignature(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(1, "bob", "USER", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "forgedsignature"

	if _, err := issuer.Validate(tampered); !apperr.Is(err, apperr.Unauthorized) {
		t.Errorf("Expected Unauthorized for tampered signature, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret-a", time.Hour)
	other := auth.NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Issue(1, "bob", "USER", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Validate(token); !apperr.Is(err, apperr.Unauthorized) {
		t.Errorf("Expected Unauthorized for wrong secret, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(1, "bob", "USER", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Validate(token); !apperr.Is(err, apperr.Unauthorized) {
		t.Errorf("Expected Unauthorized for expired token, got %v", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.???.###"} {
		if _, err := issuer.Validate(token); !apperr.Is(err, apperr.Unauthorized) {
			t.Errorf("Expected Unauthorized for %q, got %v", token, err)
		}
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := auth.HashPassword("hunter2secret", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2secret" {
		t.Fatal("Hash must not equal the plaintext")
	}

	if !auth.CheckPassword("hunter2secret", hash) {
		t.Error("Correct password should verify")
	}
	if auth.CheckPassword("wrong", hash) {
		t.Error("Wrong password should not verify")
	}
}
