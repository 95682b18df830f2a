// Package local implements an in-process token oracle backed by an
// account table with Argon2id password hashes.
package local

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/edvros/viewgate-go/internal/core/domain"
	"github.com/edvros/viewgate-go/internal/telemetry/logger"
	"github.com/edvros/viewgate-go/pkg/token"
)

// Defaults for the local oracle.
const (
	// DefaultSessionTTL is the token lifetime when none is configured.
	DefaultSessionTTL = 12 * time.Hour

	// DefaultLoginRate is the per-username issue attempts per second.
	DefaultLoginRate = 5
)

// Config holds configuration for the local oracle.
type Config struct {
	// SessionTTL is the token lifetime. Zero means DefaultSessionTTL.
	SessionTTL time.Duration

	// LoginRate caps issue attempts per username per second. Zero
	// means DefaultLoginRate; negative disables rate limiting.
	LoginRate int

	Logger logger.Logger
}

// session is one live token, stored by hash only.
type session struct {
	username  string
	expiresAt time.Time
}

// Oracle is an in-process token authority. Plaintext tokens leave the
// oracle exactly once, at issue time; the session table holds only
// their SHA-256 hashes.
type Oracle struct {
	ttl       time.Duration
	loginRate int
	logger    logger.Logger

	mu       sync.RWMutex
	accounts map[string]Account  // by username
	sessions map[string]*session // by token hash
	limiters map[string]*rate.Limiter
}

// New creates a local oracle with an empty account table.
func New(cfg Config) *Oracle {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	loginRate := cfg.LoginRate
	if loginRate == 0 {
		loginRate = DefaultLoginRate
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Oracle{
		ttl:       ttl,
		loginRate: loginRate,
		logger:    log,
		accounts:  make(map[string]Account),
		sessions:  make(map[string]*session),
		limiters:  make(map[string]*rate.Limiter),
	}
}

// AddAccount hashes the password and registers the account,
// overwriting any existing entry for the username.
func (o *Oracle) AddAccount(username, password string) error {
	if username == "" {
		return domain.ErrInvalidArgument.WithDetails("username is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.accounts[username] = Account{Username: username, PasswordHash: hash}
	o.mu.Unlock()
	return nil
}

// AddAccountHash registers an account with a pre-computed hash, for
// loading accounts from configuration.
func (o *Oracle) AddAccountHash(username, passwordHash string) error {
	if username == "" {
		return domain.ErrInvalidArgument.WithDetails("username is required")
	}

	o.mu.Lock()
	o.accounts[username] = Account{Username: username, PasswordHash: passwordHash}
	o.mu.Unlock()
	return nil
}

// IssueToken verifies the credentials and mints a fresh session token.
func (o *Oracle) IssueToken(ctx context.Context, username, password string) (domain.Token, error) {
	if err := o.checkRateLimit(username); err != nil {
		return domain.NullToken, err
	}

	o.mu.RLock()
	account, exists := o.accounts[username]
	o.mu.RUnlock()

	// Hash verification runs even for unknown usernames so the two
	// rejections are not distinguishable by timing.
	hash := account.PasswordHash
	if !exists {
		hash = unknownUserHash
	}
	if !verifyPasswordHash(password, hash) {
		o.logger.Info("authentication rejected", "username", username)
		return domain.NullToken, domain.ErrAuthenticationFailed
	}

	plaintext, err := token.GeneratePrefixed(domain.TokenPrefix)
	if err != nil {
		return domain.NullToken, domain.ErrInternalServer.WithDetails("token generation failed").WithCause(err)
	}

	o.mu.Lock()
	o.sessions[token.Hash(plaintext)] = &session{
		username:  username,
		expiresAt: time.Now().Add(o.ttl),
	}
	o.mu.Unlock()

	o.logger.Info("token issued",
		"username", username,
		"token", domain.MaskToken(domain.Token(plaintext)))
	return domain.Token(plaintext), nil
}

// CheckToken returns the token while its session is live, or the
// sentinel once it has expired or been revoked. Expired entries are
// removed on observation.
func (o *Oracle) CheckToken(ctx context.Context, t domain.Token) (domain.Token, error) {
	if t.IsNull() {
		return domain.NullToken, nil
	}

	hash := token.Hash(string(t))

	o.mu.RLock()
	sess, exists := o.sessions[hash]
	o.mu.RUnlock()

	if !exists {
		return domain.NullToken, nil
	}

	if time.Now().After(sess.expiresAt) {
		o.mu.Lock()
		delete(o.sessions, hash)
		o.mu.Unlock()
		o.logger.Debug("token expired", "token", domain.MaskToken(t))
		return domain.NullToken, nil
	}

	return t, nil
}

// InvalidateToken revokes a token. Revoking an unknown or already
// revoked token is not an error.
func (o *Oracle) InvalidateToken(ctx context.Context, t domain.Token) error {
	if t.IsNull() {
		return nil
	}

	o.mu.Lock()
	delete(o.sessions, token.Hash(string(t)))
	o.mu.Unlock()
	return nil
}

// Sweep removes expired sessions and returns how many were dropped.
// Run it periodically; CheckToken also drops expired entries lazily.
func (o *Oracle) Sweep() int {
	now := time.Now()

	o.mu.Lock()
	defer o.mu.Unlock()

	removed := 0
	for hash, sess := range o.sessions {
		if now.After(sess.expiresAt) {
			delete(o.sessions, hash)
			removed++
		}
	}
	return removed
}

// SessionCount returns the number of live sessions, expired included
// until the next sweep.
func (o *Oracle) SessionCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.sessions)
}

// checkRateLimit enforces the per-username issue rate.
func (o *Oracle) checkRateLimit(username string) error {
	if o.loginRate < 0 {
		return nil
	}

	o.mu.Lock()
	limiter, exists := o.limiters[username]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(o.loginRate), o.loginRate)
		o.limiters[username] = limiter
	}
	o.mu.Unlock()

	if !limiter.Allow() {
		o.logger.Warn("login rate limit exceeded", "username", username)
		return domain.ErrRateLimited.WithDetails("too many login attempts")
	}
	return nil
}

// unknownUserHash is a well-formed hash no password matches, used to
// equalize verification cost for unknown usernames.
var unknownUserHash = func() string {
	h, err := HashPassword("viewgate-unknown-user-placeholder")
	if err != nil {
		// crypto/rand failure at init time is unrecoverable.
		panic(err)
	}
	return h
}()
