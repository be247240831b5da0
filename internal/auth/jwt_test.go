package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", time.Minute, Claims{
		AccountID: 7,
		Name:      "Ann",
		Email:     "ann@example.com",
		IsAdmin:   true,
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.AccountID != 7 || claims.Email != "ann@example.com" || !claims.IsAdmin {
		t.Fatalf("unexpected claims")
	}
	if claims.ID == "" {
		t.Fatalf("expected token id to be set")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", time.Minute, Claims{AccountID: 1})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatalf("expected parse to fail with wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", -time.Minute, Claims{AccountID: 1})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatalf("expected parse to fail for expired token")
	}
}
