// Package overlay implements the ViewGate session controller.
package overlay

import (
	"context"

	"github.com/edvros/viewgate-go/internal/core/domain"
)

// Oracle is the external authority that issues, re-checks, and revokes
// session tokens. The controller treats it as opaque: any error return
// is equivalent to the sentinel (fail closed), and InvalidateToken
// failures never block a local logout.
type Oracle interface {
	// IssueToken exchanges credentials for a token. Returns NullToken
	// when authentication fails.
	IssueToken(ctx context.Context, username, password string) (domain.Token, error)

	// CheckToken re-validates an existing token. Returns the same token
	// while the session is live, or NullToken once it has expired or
	// been revoked.
	CheckToken(ctx context.Context, t domain.Token) (domain.Token, error)

	// InvalidateToken revokes a token. The result is ignored by the
	// controller.
	InvalidateToken(ctx context.Context, t domain.Token) error
}

// issueToken calls the oracle's issue operation, absorbing errors and
// panics into the sentinel.
func (c *Controller) issueToken(ctx context.Context, creds domain.Credentials) (tok domain.Token) {
	tok = domain.NullToken
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("oracle panicked during issue", "panic", r)
			c.observeOracleError("issue")
			tok = domain.NullToken
		}
	}()

	issued, err := c.oracle.IssueToken(ctx, creds.Username, creds.Password)
	if err != nil {
		c.logger.Info("token issue failed",
			"username", creds.Username,
			"error", err)
		c.observeOracleError("issue")
		return domain.NullToken
	}
	return issued.Normalize()
}

// checkToken calls the oracle's status operation, absorbing errors and
// panics into the sentinel.
func (c *Controller) checkToken(ctx context.Context, t domain.Token) (tok domain.Token) {
	tok = domain.NullToken
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("oracle panicked during check", "panic", r)
			c.observeOracleError("check")
			tok = domain.NullToken
		}
	}()

	checked, err := c.oracle.CheckToken(ctx, t)
	if err != nil {
		c.logger.Info("token check failed",
			"token", domain.MaskToken(t),
			"error", err)
		c.observeOracleError("check")
		return domain.NullToken
	}
	return checked.Normalize()
}

// invalidateToken calls the oracle's revocation operation. Failures are
// logged and dropped: the local logout proceeds regardless.
func (c *Controller) invalidateToken(ctx context.Context, t domain.Token) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("oracle panicked during invalidate", "panic", r)
			c.observeOracleError("invalidate")
		}
	}()

	if err := c.oracle.InvalidateToken(ctx, t); err != nil {
		c.logger.Warn("token invalidation failed, logging out locally anyway",
			"token", domain.MaskToken(t),
			"error", err)
		c.observeOracleError("invalidate")
	}
}

// observeOracleError records an absorbed oracle failure when metrics
// are wired.
func (c *Controller) observeOracleError(operation string) {
	if c.metrics != nil {
		c.metrics.OracleErrors.WithLabelValues(operation).Inc()
	}
}
