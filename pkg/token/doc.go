// Package token provides token generation and hashing utilities.
//
// The reference oracle issues session tokens in the format:
//
//   - Prefix: vgtk_ (5 characters)
//   - Body: 43 characters of Base64 RawURL encoded random bytes
//   - Total: 48 characters
//
// Security:
//
//   - Uses crypto/rand for CSPRNG
//   - SHA-256 hashing with constant-time comparison
//   - Plaintext tokens are handed to the client once; only hashes are kept
//
// The session controller itself treats tokens as fully opaque; the
// format above is a convention of the reference oracle only.
package token
