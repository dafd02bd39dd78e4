package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"

	"github.com/oxylize/api/internal/common"
)

const (
	saltLen = 16
	hashLen = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(saltLen)
}

// HashPassword derives a key from password+pepper and the given salt using
// argon2id. The pepper is a server-wide secret, so stolen hashes cannot be
// cracked without it.
func HashPassword(password, pepper, salt []byte) []byte {
	prepared := make([]byte, 0, len(password)+len(pepper))
	prepared = append(prepared, password...)
	prepared = append(prepared, pepper...)
	return argon2.IDKey(prepared, salt, argonTime, argonMemory, argonThreads, hashLen)
}

// VerifyPassword recomputes the hash for the candidate password and compares
// it against the stored one in constant time.
func VerifyPassword(candidate, pepper, salt, storedHash []byte) bool {
	hash := HashPassword(candidate, pepper, salt)
	return subtle.ConstantTimeCompare(hash, storedHash) == 1
}
