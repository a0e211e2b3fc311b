package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret returns a bcrypt hash of plain using the given cost.  A fresh
// salt is drawn on every call, so hashing the same input twice yields two
// different digests.  It is used for passwords and for refresh tokens alike;
// only hashes are ever persisted.
func HashSecret(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifySecret safely compares a bcrypt hash and a plain secret.
func VerifySecret(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashToken hashes a refresh token for storage. Signed tokens exceed bcrypt's
// 72-byte input limit, so the raw token is reduced to its SHA-256 hex digest
// first and the digest is then bcrypt-hashed with a fresh salt. A database
// leak therefore exposes neither the token nor anything replayable.
func HashToken(raw string, cost int) (string, error) {
	return HashSecret(digest(raw), cost)
}

// VerifyToken compares a stored token hash against a presented raw token.
func VerifyToken(hash, raw string) bool {
	return VerifySecret(hash, digest(raw))
}

func digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
