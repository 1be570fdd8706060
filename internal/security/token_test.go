package security

import (
	"bytes"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"

	token, err := GenerateAccessToken(secret, "user-1", "session-1", 3, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(token, secret)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want session-1", claims.SessionID)
	}
	if claims.RoleID != 3 {
		t.Errorf("RoleID = %d, want 3", claims.RoleID)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("secret-a", "user-1", "session-1", 1, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(token, "secret-b"); err == nil {
		t.Error("token signed with another secret should not parse")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", "session-1", 1, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(token, "secret"); err == nil {
		t.Error("expired token should not parse")
	}
}

func TestGenerateOpaqueToken(t *testing.T) {
	token, hash, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatalf("GenerateOpaqueToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if !bytes.Equal(hash, HashOpaqueToken(token)) {
		t.Error("returned hash should match HashOpaqueToken of the token")
	}

	other, _, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatalf("GenerateOpaqueToken: %v", err)
	}
	if token == other {
		t.Error("consecutive tokens should differ")
	}
}
