// Package httpapi provides a token oracle backed by a remote HTTP
// authentication service.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/edvros/viewgate-go/internal/core/domain"
	"github.com/edvros/viewgate-go/internal/telemetry/logger"
)

// DefaultTimeout bounds every oracle round trip.
const DefaultTimeout = 10 * time.Second

// API paths on the remote service.
const (
	pathIssue      = "/v1/tokens/issue"
	pathCheck      = "/v1/tokens/check"
	pathInvalidate = "/v1/tokens/invalidate"
)

// Config holds configuration for the HTTP oracle.
type Config struct {
	// BaseURL is the remote service root, e.g. "https://auth.internal".
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout per request. Zero means DefaultTimeout.
	Timeout time.Duration

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client

	Logger logger.Logger
}

// Oracle talks to a remote authentication service over JSON/HTTP.
type Oracle struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  logger.Logger
}

// New creates an HTTP oracle.
func New(cfg Config) (*Oracle, error) {
	if cfg.BaseURL == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("base URL is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Oracle{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  client,
		logger:  log,
	}, nil
}

type issueRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken exchanges credentials for a token. A 401 or 403 from the
// remote service means rejected credentials, not a transport failure.
func (o *Oracle) IssueToken(ctx context.Context, username, password string) (domain.Token, error) {
	var resp tokenResponse
	status, err := o.post(ctx, pathIssue, issueRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return domain.NullToken, err
	}

	switch {
	case status == http.StatusOK:
		return domain.Token(resp.Token).Normalize(), nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NullToken, domain.ErrAuthenticationFailed
	case status == http.StatusTooManyRequests:
		return domain.NullToken, domain.ErrRateLimited
	default:
		return domain.NullToken, domain.ErrOracleUnavailable.WithDetails(
			fmt.Sprintf("issue returned status %d", status))
	}
}

// CheckToken re-validates a token with the remote service. The remote
// answering "no such session" is a normal sentinel result.
func (o *Oracle) CheckToken(ctx context.Context, t domain.Token) (domain.Token, error) {
	if t.IsNull() {
		return domain.NullToken, nil
	}

	var resp tokenResponse
	status, err := o.post(ctx, pathCheck, tokenRequest{Token: string(t)}, &resp)
	if err != nil {
		return domain.NullToken, err
	}

	switch {
	case status == http.StatusOK:
		return domain.Token(resp.Token).Normalize(), nil
	case status == http.StatusUnauthorized || status == http.StatusNotFound:
		return domain.NullToken, nil
	default:
		return domain.NullToken, domain.ErrOracleUnavailable.WithDetails(
			fmt.Sprintf("check returned status %d", status))
	}
}

// InvalidateToken revokes a token remotely. An unknown token is not an
// error.
func (o *Oracle) InvalidateToken(ctx context.Context, t domain.Token) error {
	if t.IsNull() {
		return nil
	}

	status, err := o.post(ctx, pathInvalidate, tokenRequest{Token: string(t)}, nil)
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return domain.ErrOracleUnavailable.WithDetails(
			fmt.Sprintf("invalidate returned status %d", status))
	}
}

// post sends a JSON request and decodes a JSON response when target is
// non-nil. The status code is returned for the caller to interpret.
func (o *Oracle) post(ctx context.Context, path string, body, target any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, domain.ErrInternalServer.WithDetails("marshal request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, domain.ErrInternalServer.WithDetails("create request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "viewgate/1.0")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		o.logger.Warn("oracle request failed", "path", path, "error", err)
		return 0, domain.ErrOracleUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	if target != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return resp.StatusCode, domain.ErrOracleUnavailable.WithDetails("parse response").WithCause(err)
		}
	}

	return resp.StatusCode, nil
}
