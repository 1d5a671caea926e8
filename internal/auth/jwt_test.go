package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	signed, expiresAt, err := GenerateToken("user-1", "ops@example.com", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if signed == "" {
		t.Fatal("expected a signed token")
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute || remaining > time.Hour {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if claims["user_id"] != "user-1" {
		t.Fatalf("unexpected user_id claim: %v", claims["user_id"])
	}
	if claims["sub"] != "user-1" {
		t.Fatalf("unexpected sub claim: %v", claims["sub"])
	}
	if claims["email"] != "ops@example.com" {
		t.Fatalf("unexpected email claim: %v", claims["email"])
	}
}

func TestGenerateTokenValidation(t *testing.T) {
	if _, _, err := GenerateToken("", "a@b.c", "secret", time.Hour); err == nil {
		t.Fatal("expected error for empty user id")
	}
	if _, _, err := GenerateToken("user-1", "a@b.c", "", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, _, err := GenerateToken("user-1", "a@b.c", "secret", 0); err == nil {
		t.Fatal("expected error for non-positive expiry")
	}
}
