// Package local implements an in-process token oracle backed by an
// account table with Argon2id password hashes.
package local

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/edvros/viewgate-go/internal/core/domain"
)

// Argon2id parameters for password hashing.
const (
	argon2Time        = 2
	argon2Memory      = 16384 // KB
	argon2Parallelism = 2
	argon2KeyLen      = 32
	argon2SaltLen     = 16
)

// Account is one credential entry in the oracle's table.
type Account struct {
	Username     string
	PasswordHash string
}

// HashPassword derives an Argon2id hash for storage.
// Format: $argon2id$v=19$m=16384,t=2,p=2$<salt>$<hash>
func HashPassword(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", domain.ErrInternalServer.WithDetails("failed to generate salt").WithCause(err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)

	saltB64 := base64.RawStdEncoding.EncodeToString(salt)
	hashB64 := base64.RawStdEncoding.EncodeToString(hash)

	return "$argon2id$v=19$m=16384,t=2,p=2$" + saltB64 + "$" + hashB64, nil
}

// verifyPasswordHash verifies a password against an Argon2id hash.
func verifyPasswordHash(password, hash string) bool {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false
	}

	if parts[1] != "argon2id" {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	// Recompute with the fixed parameters above.
	computed := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Parallelism, uint32(len(expected)))

	return subtle.ConstantTimeCompare(computed, expected) == 1
}
