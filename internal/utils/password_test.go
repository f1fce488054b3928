package utils

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("admin")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "" || hash == "admin" {
		t.Fatalf("HashPassword() returned %q", hash)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	hash1, _ := HashPassword("user")
	hash2, _ := HashPassword("user")

	if hash1 == hash2 {
		t.Error("same password should produce different hashes (due to salt)")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, _ := HashPassword("correctpassword")

	tests := []struct {
		name     string
		password string
		hash     string
		expected bool
	}{
		{"correct password", "correctpassword", hash, true},
		{"wrong password", "wrongpassword", hash, false},
		{"empty password", "", hash, false},
		{"case sensitive", "CorrectPassword", hash, false},
		{"invalid hash", "correctpassword", "invalid_hash", false},
		{"empty hash", "correctpassword", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.hash); got != tt.expected {
				t.Errorf("CheckPassword(%q) = %v, expected %v", tt.password, got, tt.expected)
			}
		})
	}
}
