package utils

import (
	"testing"
	"time"
)

func init() {
	SetJWTSecret("test-secret-key-for-testing")
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("sess-1", "ronaldo-1", "Ronaldo", "admin", 24)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateToken() returned empty token")
	}

	if len(token) < 50 {
		t.Errorf("token seems too short: %d chars", len(token))
	}
}

func TestGenerateToken_DifferentSessions(t *testing.T) {
	token1, _ := GenerateToken("sess-1", "u1", "user1", "admin", 24)
	token2, _ := GenerateToken("sess-2", "u1", "user1", "admin", 24)

	if token1 == token2 {
		t.Error("different sessions should produce different tokens")
	}
}

func TestParseToken(t *testing.T) {
	token, _ := GenerateToken("sess-42", "usuario-1", "Usuario", "user", 24)

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.ID != "sess-42" {
		t.Errorf("ID = %q, expected %q", claims.ID, "sess-42")
	}
	if claims.UserID != "usuario-1" {
		t.Errorf("UserID = %q, expected %q", claims.UserID, "usuario-1")
	}
	if claims.Username != "Usuario" {
		t.Errorf("Username = %q, expected %q", claims.Username, "Usuario")
	}
	if claims.Role != "user" {
		t.Errorf("Role = %q, expected %q", claims.Role, "user")
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	invalidTokens := []string{
		"",
		"invalid",
		"not.a.token",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
	}

	for _, token := range invalidTokens {
		_, err := ParseToken(token)
		if err == nil {
			t.Errorf("ParseToken(%q) should return error", token)
		}
	}
}

func TestParseToken_MissingSessionID(t *testing.T) {
	token, _ := GenerateToken("", "u1", "user1", "user", 24)

	if _, err := ParseToken(token); err == nil {
		t.Error("ParseToken should reject a token without session id")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	SetJWTSecret("original-secret")
	token, _ := GenerateToken("s", "u", "user", "admin", 24)

	SetJWTSecret("different-secret")
	_, err := ParseToken(token)

	SetJWTSecret("test-secret-key-for-testing")

	if err == nil {
		t.Error("ParseToken should fail with wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, _ := GenerateToken("s", "u", "user", "admin", -1)

	if _, err := ParseToken(token); err == nil {
		t.Error("ParseToken should fail for an expired token")
	}
}

func TestGenerateToken_Expiration(t *testing.T) {
	token, _ := GenerateToken("s", "u", "user", "admin", 1)
	claims, _ := ParseToken(token)

	expiresAt := claims.ExpiresAt.Time
	now := time.Now()

	if expiresAt.Before(now) {
		t.Error("token should not be expired immediately")
	}

	expectedExpiry := now.Add(1 * time.Hour)
	diff := expiresAt.Sub(expectedExpiry)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiration time is off by more than 1 minute: %v", diff)
	}
}
