package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 30 * time.Second

// CredentialStore persists the session credentials and tenant selection
// across process restarts. Implementations are best-effort: a storage
// failure degrades to "no token stored", which the session treats as
// unauthenticated.
type CredentialStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string)
	SetTokens(access, refresh string)
	TenantSlug() string
	SetTenantSlug(slug string)
	SetUser(raw string)
	Clear()
}

// Session is the single shared HTTP client every resource call passes
// through. It attaches the bearer token on the way out and, on the way
// in, classifies failures and drives the 401 refresh-and-retry cycle.
//
// Each request moves through
//
//	UNSENT -> SENT -> SUCCESS
//	                | FAILED_NO_RETRY            (network, timeout, non-401 status)
//	                | FAILED_RETRYING -> RETRIED_SUCCESS | RETRIED_FAILED
//
// A request enters FAILED_RETRYING at most once: the retried flag
// threaded through do is the one-shot marker that guards against
// refresh loops.
type Session struct {
	store      CredentialStore
	httpClient *http.Client
	log        zerolog.Logger

	defaultOrigin string
	domainSuffix  string

	mu      sync.Mutex
	baseURL string

	refreshMu sync.Mutex
	inflight  *refreshCall

	logoutOnce sync.Once
	onLogout   func()
}

type Option func(*Session)

// WithHTTPClient replaces the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Session) { s.httpClient = hc }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.log = logger }
}

// WithLogoutHook registers the side effect run when the session hits an
// unrecoverable 401 (the CLI equivalent of a redirect to the login
// page). It fires at most once per session.
func WithLogoutHook(fn func()) Option {
	return func(s *Session) { s.onLogout = fn }
}

// NewSession builds a session resolving requests against defaultOrigin
// until a tenant is applied.
func NewSession(store CredentialStore, defaultOrigin, domainSuffix string, opts ...Option) *Session {
	s := &Session{
		store:         store,
		defaultOrigin: defaultOrigin,
		domainSuffix:  domainSuffix,
		baseURL:       defaultOrigin,
		httpClient:    &http.Client{Timeout: defaultRequestTimeout},
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the origin requests are currently sent to. Callers
// must not cache it beyond a single request; a tenant switch replaces
// it, and only requests built afterwards see the new origin.
func (s *Session) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

func (s *Session) setBaseURL(origin string) {
	s.mu.Lock()
	s.baseURL = origin
	s.mu.Unlock()
}

// Get issues an authenticated GET and decodes the JSON response into out.
func (s *Session) Get(ctx context.Context, path string, query url.Values, out any) error {
	return s.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (s *Session) Post(ctx context.Context, path string, body, out any) error {
	return s.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (s *Session) Put(ctx context.Context, path string, body, out any) error {
	return s.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (s *Session) Patch(ctx context.Context, path string, body, out any) error {
	return s.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (s *Session) Delete(ctx context.Context, path string) error {
	return s.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do sends one logical request through the full interceptor chain.
func (s *Session) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return s.do(ctx, method, path, query, body, out, false)
}

// do performs a single attempt. retried marks that this logical request
// has already been through one refresh-and-retry cycle; its lifecycle
// is exactly one call to Do.
func (s *Session) do(ctx context.Context, method, path string, query url.Values, body, out any, retried bool) error {
	req, err := s.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	started := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		classified := classifyTransportError(ctx, err)
		s.log.Debug().Str("method", method).Str("path", path).Err(classified).Msg("request failed without response")
		return classified
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	s.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Bool("retried", retried).
		Msg("request complete")

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || resp.StatusCode == http.StatusNoContent || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized:
		if retried {
			// Second 401 after a refresh is terminal.
			s.forceLogout()
			return &AuthError{Reason: "session expired"}
		}
		if _, err := s.refresh(ctx); err != nil {
			if errors.Is(err, ErrNoRefreshToken) || errors.Is(err, ErrRefreshRejected) {
				s.forceLogout()
				return &AuthError{Reason: "session expired"}
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			// Transient refresh failure: the request cannot be
			// re-authenticated, but the stored refresh token may still
			// be good, so credentials are left intact.
			return &AuthError{Reason: "could not refresh session"}
		}
		// The resend's outcome is returned as-is; a second 401 lands in
		// the retried branch above.
		return s.do(ctx, method, path, query, body, out, true)

	default:
		return newHTTPError(resp.StatusCode, data)
	}
}

// newRequest builds one attempt. The base URL is captured here: a
// request already in flight when the tenant changes completes against
// the origin that was current when it was sent.
func (s *Session) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := s.BaseURL() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := s.store.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// classifyTransportError maps a failure with no response into the error
// taxonomy. A cancelled request rejects with the context error and must
// not look like a retryable condition.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &TimeoutError{Err: err}
	}
	return &NetworkError{Err: err}
}

// forceLogout clears stored credentials and fires the logout hook. Safe
// to call from multiple failing requests at once: clearing an empty
// store is a no-op and the hook runs only the first time.
func (s *Session) forceLogout() {
	s.store.Clear()
	s.logoutOnce.Do(func() {
		if s.onLogout != nil {
			s.onLogout()
		}
	})
}
