package auth

import (
	"bytes"
	"testing"
)

func TestHashPassword_Deterministic(t *testing.T) {
	t.Parallel()

	salt := []byte("0123456789abcdef")
	a := HashPassword([]byte("pass"), []byte("pepper"), salt)
	b := HashPassword([]byte("pass"), []byte("pepper"), salt)

	if len(a) != hashLen {
		t.Fatalf("expected %d-byte hash, got %d", hashLen, len(a))
	}
	if !bytes.Equal(a, b) {
		t.Fatal("same inputs must produce the same hash")
	}
}

func TestHashPassword_PepperAndSaltMatter(t *testing.T) {
	t.Parallel()

	salt := []byte("0123456789abcdef")
	base := HashPassword([]byte("pass"), []byte("pepper"), salt)

	if bytes.Equal(base, HashPassword([]byte("pass"), []byte("other"), salt)) {
		t.Fatal("different pepper must change the hash")
	}
	if bytes.Equal(base, HashPassword([]byte("pass"), []byte("pepper"), []byte("fedcba9876543210"))) {
		t.Fatal("different salt must change the hash")
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	salt := NewSalt()
	if len(salt) != saltLen {
		t.Fatalf("expected %d-byte salt, got %d", saltLen, len(salt))
	}
	stored := HashPassword([]byte("correct horse"), []byte("pepper"), salt)

	if !VerifyPassword([]byte("correct horse"), []byte("pepper"), salt, stored) {
		t.Fatal("correct password must verify")
	}
	if VerifyPassword([]byte("wrong"), []byte("pepper"), salt, stored) {
		t.Fatal("wrong password must not verify")
	}
	if VerifyPassword([]byte("correct horse"), []byte("wrong-pepper"), salt, stored) {
		t.Fatal("wrong pepper must not verify")
	}
}
