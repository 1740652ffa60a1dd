package identity

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("token signing failed: %v", err)
	}
	return token
}

func TestResolveValidToken(t *testing.T) {
	resolver, err := NewResolver("test-secret")
	if err != nil {
		t.Fatalf("resolver construction failed: %v", err)
	}

	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub":   "user-1",
		"name":  "Ada",
		"email": "ada@example.com",
	})
	user, err := resolver.Resolve(token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if user.ID != "user-1" || user.Name != "Ada" || user.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestResolveRejectsWrongSecret(t *testing.T) {
	resolver, _ := NewResolver("test-secret")

	token := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-1"})
	if _, err := resolver.Resolve(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestResolveRejectsMissingSubject(t *testing.T) {
	resolver, _ := NewResolver("test-secret")

	token := signToken(t, "test-secret", jwt.MapClaims{"name": "Ada"})
	if _, err := resolver.Resolve(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestResolveRejectsGarbage(t *testing.T) {
	resolver, _ := NewResolver("test-secret")

	for _, raw := range []string{"", "   ", "not-a-token"} {
		if _, err := resolver.Resolve(raw); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected unauthorized for %q, got %v", raw, err)
		}
	}
}

func TestNewResolverRequiresSecret(t *testing.T) {
	if _, err := NewResolver("  "); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}
