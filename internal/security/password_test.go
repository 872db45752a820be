package security_test

import (
	"testing"

	"github.com/coursehub/backend/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("pw123")

	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if hash == "pw123" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !security.CheckPassword(hash, "pw123") {
		t.Error("expected matching password to verify")
	}

	if security.CheckPassword(hash, "pw124") {
		t.Error("expected non-matching password to fail verification")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := security.HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	h2, err := security.HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestCheckPasswordGarbageHash(t *testing.T) {
	if security.CheckPassword("not-a-bcrypt-hash", "pw123") {
		t.Error("garbage stored hash must never verify")
	}
}
