// Package overlay implements the ViewGate session controller.
package overlay

import (
	"context"

	"github.com/edvros/viewgate-go/internal/core/domain"
)

// Protected bundles a callback's own output with the session decision
// the trailing status probe produced. When Session.Changed is true the
// surrounding application must apply Session's view and slots before
// using Output.
type Protected[O any] struct {
	Output  O
	Session *EvalResult
}

// Protect wraps a callback so that every invocation is followed by a
// status probe. The wrapped function's inputs, outputs, and error are
// passed through untouched; the probe's decision rides alongside in
// the Protected envelope. A revoked or expired session therefore
// surfaces on the very next interaction, regardless of what the
// callback itself does.
func Protect[I, O any](c *Controller, s *State, fn func(ctx context.Context, in I) (O, error)) func(ctx context.Context, in I) (Protected[O], error) {
	return func(ctx context.Context, in I) (Protected[O], error) {
		out, err := fn(ctx, in)

		res, evalErr := c.Evaluate(ctx, s, EventStatusProbe, domain.Credentials{})
		if evalErr != nil {
			// Only programming errors reach here; the probe itself
			// fails closed inside Evaluate.
			c.logger.Error("status probe failed", "error", evalErr)
		}

		return Protected[O]{Output: out, Session: res}, err
	}
}
