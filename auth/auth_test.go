// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if len(id) != 36 {
		t.Errorf("GenerateID() length = %d, want 36", len(id))
	}

	// Test randomness - should not produce duplicates
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if ids[id] {
			t.Errorf("GenerateID() produced duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("p")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "p" {
		t.Error("HashPassword() returned the plaintext password")
	}
	if !strings.HasPrefix(hash, "$2a$10$") {
		t.Errorf("HashPassword() = %q, want bcrypt hash with cost 10", hash)
	}

	// Salted: the same password hashes differently
	hash2, _ := HashPassword("p")
	if hash == hash2 {
		t.Error("HashPassword() is not salted")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{"matching password", hash, "correct horse", nil},
		{"wrong password", hash, "battery staple", ErrPasswordMismatch},
		{"empty password", hash, "", ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(tt.hash, tt.password)
			if err != tt.wantErr {
				t.Errorf("CheckPassword() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// A malformed hash is an error, but not a mismatch
	if err := CheckPassword("not-a-hash", "x"); err == nil || err == ErrPasswordMismatch {
		t.Errorf("CheckPassword() with malformed hash error = %v", err)
	}
}

func TestParseAuthorization(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"other scheme", "Token xyz", "xyz", nil},
		{"extra spaces", "  Bearer   xyz  ", "xyz", nil},
		{"empty header", "", "", ErrMissingCredential},
		{"scheme only", "Bearer", "", ErrInvalidToken},
		{"scheme with space", "Bearer ", "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAuthorization(tt.header)
			if err != tt.wantErr {
				t.Fatalf("ParseAuthorization() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAuthorization() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("account-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	accountID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if accountID != "account-1" {
		t.Errorf("Verify() = %q, want %q", accountID, "account-1")
	}

	// The account ID itself is not a credential
	if _, err := issuer.Verify("account-1"); err != ErrInvalidToken {
		t.Errorf("Verify(raw id) error = %v, want %v", err, ErrInvalidToken)
	}

	// Different secret
	other := NewTokenIssuer("other-secret", time.Hour)
	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() with wrong secret error = %v, want %v", err, ErrInvalidToken)
	}

	// Tampered token
	if _, err := issuer.Verify(token + "x"); err != ErrInvalidToken {
		t.Errorf("Verify() with tampered token error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestTokenIssuer_Expiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	token, err := issuer.Issue("account-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	issuer.now = func() time.Time { return start.Add(30 * time.Second) }
	if _, err := issuer.Verify(token); err != nil {
		t.Errorf("Verify() before expiry error = %v", err)
	}

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() after expiry error = %v, want %v", err, ErrInvalidToken)
	}
}

// Benchmark tests
func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		HashPassword("benchmark-password")
	}
}

func BenchmarkIssueToken(b *testing.B) {
	issuer := NewTokenIssuer("bench-secret", time.Hour)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		issuer.Issue("account-1")
	}
}
