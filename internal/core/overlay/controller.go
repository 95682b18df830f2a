// Package overlay implements the ViewGate session controller.
package overlay

import (
	"context"

	"github.com/edvros/viewgate-go/internal/core/domain"
	"github.com/edvros/viewgate-go/internal/core/view"
	"github.com/edvros/viewgate-go/internal/telemetry/logger"
	"github.com/edvros/viewgate-go/internal/telemetry/metric"
)

// Event is a triggering event delivered to the controller.
type Event int

const (
	// EventButtonClick is a click on the single login/logout control.
	// While logged out it is a login attempt; while logged in it is an
	// explicit logout request.
	EventButtonClick Event = iota + 1

	// EventStatusProbe is a liveness re-check of the current token,
	// fired by a wrapped callback or a timer.
	EventStatusProbe
)

// String returns the event name for logs and metrics labels.
func (e Event) String() string {
	switch e {
	case EventButtonClick:
		return "button_click"
	case EventStatusProbe:
		return "status_probe"
	default:
		return "unknown"
	}
}

// Button labels for the single login/logout control.
const (
	LabelLogin  = "login"
	LabelLogout = "logout"
)

// Reason explains why an evaluation produced its result. It is an
// additive output: the transition logic never branches on it, but a
// caller wanting richer UX than "back on the login screen" can.
type Reason int

const (
	// ReasonNone means nothing noteworthy happened (pass-through).
	ReasonNone Reason = iota

	// ReasonLoggedIn means credentials were accepted.
	ReasonLoggedIn

	// ReasonBadCredentials means the oracle rejected the credentials
	// (or was unreachable; the two are indistinguishable by design).
	ReasonBadCredentials

	// ReasonLoggedOut means the user explicitly logged out.
	ReasonLoggedOut

	// ReasonSessionExpired means a status probe found the token dead.
	ReasonSessionExpired
)

// String returns the reason name for logs and response payloads.
func (r Reason) String() string {
	switch r {
	case ReasonLoggedIn:
		return "logged_in"
	case ReasonBadCredentials:
		return "bad_credentials"
	case ReasonLoggedOut:
		return "logged_out"
	case ReasonSessionExpired:
		return "session_expired"
	default:
		return "none"
	}
}

// State is the single owned session-state object: the two token slots
// plus the cycle-scoped re-entrancy memo. The controller is the only
// writer; collaborators observe tokens exclusively through EvalResult.
type State struct {
	Current domain.Token
	Last    domain.Token

	// applied remembers the last mutating evaluation of the current
	// update cycle so redelivered identical triggers do not re-invoke
	// oracle mutations before the render commits.
	applied *appliedRecord
}

type appliedRecord struct {
	event   Event
	current domain.Token
	last    domain.Token
	result  EvalResult
}

// NewState returns a logged-out state with both slots at the sentinel.
func NewState() *State {
	return &State{Current: domain.NullToken, Last: domain.NullToken}
}

// SessionState derives the login state from the current slot.
func (s *State) SessionState() domain.SessionState {
	return domain.StateOf(s.Current)
}

// ResetCycle clears the re-entrancy memo. The surrounding application
// calls this once a render commit has completed, so that a genuine
// retry (same credentials, new click) reaches the oracle again.
func (s *State) ResetCycle() {
	s.applied = nil
}

// EvalResult is the controller's decision for one triggering event.
type EvalResult struct {
	// Current and Last are the new slot values.
	Current domain.Token
	Last    domain.Token

	// State is the derived session state after the evaluation.
	State domain.SessionState

	// View is the freshly built view tree to place into the render
	// target, or nil to pass through (no re-render).
	View *view.Tree

	// Label is the login/logout control's new label.
	Label string

	// Changed reports whether a state transition happened.
	Changed bool

	// Reason explains the outcome.
	Reason Reason
}

// Config wires a Controller.
type Config struct {
	Oracle      Oracle
	LoginView   view.Provider
	ContentView view.Provider
	Logger      logger.Logger
	Metrics     *metric.Registry
}

// Controller decides, for any triggering event, the next token slots,
// the rendered view, and the button label. It owns no transport and no
// rendering: the oracle and the view providers are opaque collaborators.
type Controller struct {
	oracle  Oracle
	login   view.Provider
	content view.Provider
	logger  logger.Logger
	metrics *metric.Registry
}

// New creates a Controller. Oracle and both view providers are required.
func New(cfg Config) (*Controller, error) {
	if cfg.Oracle == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("oracle is required")
	}
	if cfg.LoginView == nil || cfg.ContentView == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("both view providers are required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Controller{
		oracle:  cfg.Oracle,
		login:   cfg.LoginView,
		content: cfg.ContentView,
		logger:  log,
		metrics: cfg.Metrics,
	}, nil
}

// VerifyCollaborators checks both view providers against the
// addressable-field contract. Run it at wiring time; a failure is a
// configuration error.
func (c *Controller) VerifyCollaborators(ctx context.Context) error {
	if err := view.VerifyProvider(ctx, c.login); err != nil {
		return err
	}
	return view.VerifyProvider(ctx, c.content)
}

// Evaluate processes one triggering event against the session state.
//
// All oracle failures are absorbed into fail-closed transitions; the
// returned error is non-nil only for programming errors (unknown
// event). The controller writes the new slot values back into s before
// returning; the caller persists them however it likes.
func (c *Controller) Evaluate(ctx context.Context, s *State, ev Event, creds domain.Credentials) (*EvalResult, error) {
	if s == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("state is required")
	}
	if ev != EventButtonClick && ev != EventStatusProbe {
		return nil, domain.ErrInvalidArgument.WithDetails("unknown event")
	}

	cur := s.Current.Normalize()
	last := s.Last.Normalize()

	// Re-entrancy guard, part one: the same trigger delivered again
	// with identical inputs before the render committed. Replay the
	// memoized decision instead of re-invoking oracle mutations.
	if rec := s.applied; rec != nil && rec.event == ev && rec.current == cur && rec.last == last {
		c.logger.Debug("duplicate trigger suppressed",
			"event", ev.String(),
			"current", domain.MaskToken(cur))
		c.observe(ev, "suppressed")
		res := rec.result
		c.commit(s, &res, nil)
		return &res, nil
	}

	// Re-entrancy guard, part two: the slots disagree, meaning the
	// surrounding application committed one slot of a transition but
	// not yet the other. The transition is treated as already applied;
	// realign the slots without touching the oracle.
	if cur != last {
		res := c.settle(ctx, cur)
		c.observe(ev, "settled")
		c.commit(s, res, nil)
		return res, nil
	}

	var res *EvalResult
	var rec *appliedRecord

	switch state := domain.StateOf(cur); {
	case state == domain.LoggedOut && ev == EventButtonClick:
		res = c.loginAttempt(ctx, creds)
		rec = &appliedRecord{event: ev, current: cur, last: last}

	case state == domain.LoggedIn && ev == EventButtonClick:
		res = c.logout(ctx, cur)
		rec = &appliedRecord{event: ev, current: cur, last: last}

	case state == domain.LoggedIn && ev == EventStatusProbe:
		res = c.probe(ctx, cur)

	default: // logged out probe: nothing to check
		res = &EvalResult{
			Current: domain.NullToken,
			Last:    domain.NullToken,
			State:   domain.LoggedOut,
			Label:   LabelLogin,
		}
	}

	c.observe(ev, outcome(res))
	c.commit(s, res, rec)
	return res, nil
}

// Render rebuilds the view for the current session state without
// consulting the oracle or changing the slots. It serves initial page
// loads, where nothing was triggered but a view is still needed.
func (c *Controller) Render(ctx context.Context, s *State) (*EvalResult, error) {
	if s == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("state is required")
	}

	cur := s.Current.Normalize()
	res := c.settle(ctx, cur)
	c.commit(s, res, nil)
	return res, nil
}

// loginAttempt handles a button click while logged out.
func (c *Controller) loginAttempt(ctx context.Context, creds domain.Credentials) *EvalResult {
	tok := c.issueToken(ctx, creds)
	if tok.IsNull() {
		// Authentication failed: slots unchanged, login view rebuilt so
		// the form clears for a retry.
		return &EvalResult{
			Current: domain.NullToken,
			Last:    domain.NullToken,
			State:   domain.LoggedOut,
			View:    c.buildView(ctx, domain.LoggedOut),
			Label:   LabelLogin,
			Reason:  ReasonBadCredentials,
		}
	}

	c.logger.Info("session established",
		"username", creds.Username,
		"token", domain.MaskToken(tok))
	return &EvalResult{
		Current: tok,
		Last:    tok,
		State:   domain.LoggedIn,
		View:    c.buildView(ctx, domain.LoggedIn),
		Label:   LabelLogout,
		Changed: true,
		Reason:  ReasonLoggedIn,
	}
}

// logout handles a button click while logged in. Invalidation failures
// are indistinguishable from success here: the local logout always wins.
func (c *Controller) logout(ctx context.Context, cur domain.Token) *EvalResult {
	c.invalidateToken(ctx, cur)
	c.logger.Info("session ended", "token", domain.MaskToken(cur))
	return &EvalResult{
		Current: domain.NullToken,
		Last:    domain.NullToken,
		State:   domain.LoggedOut,
		View:    c.buildView(ctx, domain.LoggedOut),
		Label:   LabelLogin,
		Changed: true,
		Reason:  ReasonLoggedOut,
	}
}

// probe handles a status probe while logged in.
func (c *Controller) probe(ctx context.Context, cur domain.Token) *EvalResult {
	if checked := c.checkToken(ctx, cur); !checked.IsNull() {
		// Session still live: pass through, nothing re-rendered. The
		// oracle's answer becomes the current token, so a rotating
		// oracle swaps tokens without a view rebuild.
		if checked != cur {
			c.logger.Info("token rotated",
				"old", domain.MaskToken(cur),
				"new", domain.MaskToken(checked))
		}
		return &EvalResult{
			Current: checked,
			Last:    checked,
			State:   domain.LoggedIn,
			Label:   LabelLogout,
		}
	}

	c.logger.Info("session expired or revoked", "token", domain.MaskToken(cur))
	return &EvalResult{
		Current: domain.NullToken,
		Last:    domain.NullToken,
		State:   domain.LoggedOut,
		View:    c.buildView(ctx, domain.LoggedOut),
		Label:   LabelLogin,
		Changed: true,
		Reason:  ReasonSessionExpired,
	}
}

// settle realigns skewed slots to the current token without invoking
// the oracle.
func (c *Controller) settle(ctx context.Context, cur domain.Token) *EvalResult {
	state := domain.StateOf(cur)
	label := LabelLogin
	if state == domain.LoggedIn {
		label = LabelLogout
	}
	return &EvalResult{
		Current: cur,
		Last:    cur,
		State:   state,
		View:    c.buildView(ctx, state),
		Label:   label,
	}
}

// buildView reconciles the rendered view from the derived session
// state. Providers are consulted on every call: they may be stateful or
// configuration driven, so trees are never cached.
func (c *Controller) buildView(ctx context.Context, state domain.SessionState) *view.Tree {
	p := c.login
	if state == domain.LoggedIn {
		p = c.content
	}

	tree, err := p.BuildLayout(ctx, nil)
	if err != nil {
		c.logger.Error("view build failed",
			"state", state.String(),
			"error", err)
		return nil
	}
	return tree
}

// commit writes the decision back into the state handle and records the
// re-entrancy memo for mutating evaluations.
func (c *Controller) commit(s *State, res *EvalResult, rec *appliedRecord) {
	s.Current = res.Current
	s.Last = res.Last
	if rec != nil {
		rec.result = *res
		s.applied = rec
	}
}

// observe records an evaluation outcome when metrics are wired.
func (c *Controller) observe(ev Event, outcome string) {
	if c.metrics != nil {
		c.metrics.ObserveEvaluation(ev.String(), outcome)
	}
}

// outcome maps a result to a metrics label.
func outcome(res *EvalResult) string {
	switch res.Reason {
	case ReasonLoggedIn:
		return "login"
	case ReasonBadCredentials:
		return "login_failed"
	case ReasonLoggedOut:
		return "logout"
	case ReasonSessionExpired:
		return "expired"
	default:
		return "pass"
	}
}
