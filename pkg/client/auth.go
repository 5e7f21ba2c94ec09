package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrNoRefreshToken is returned when a refresh is attempted with no
	// refresh token stored. No network call is made in that case.
	ErrNoRefreshToken = errors.New("no refresh token stored")

	// ErrRefreshRejected is returned when the backend rejects the
	// refresh token itself; stored credentials are cleared.
	ErrRefreshRejected = errors.New("refresh token rejected")
)

// LoginResult is the login_with_password response.
type LoginResult struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	User         json.RawMessage `json:"user"`
}

// LoginWithPassword authenticates against the current tenant origin and
// persists the returned tokens and serialized user.
func (s *Session) LoginWithPassword(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}

	var result LoginResult
	status, body, err := s.plainPost(ctx, s.BaseURL()+"/api/users/login_with_password/", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newHTTPError(status, body)
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	if result.AccessToken == "" {
		return nil, errors.New("login response carried no access token")
	}

	s.store.SetTokens(result.AccessToken, result.RefreshToken)
	if len(result.User) > 0 {
		s.store.SetUser(string(result.User))
	}
	return &result, nil
}

// Logout clears all persisted session state. Calling it while already
// logged out is a no-op.
func (s *Session) Logout() {
	s.store.Clear()
}

// Refresh exchanges the stored refresh token for a new access token on
// demand, outside the 401 interceptor path.
func (s *Session) Refresh(ctx context.Context) error {
	_, err := s.refresh(ctx)
	return err
}

// refreshCall lets concurrent 401s share one in-flight refresh instead
// of each issuing their own. De-duplication is an optimization; the
// last write to the stored access token would win either way.
type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

func (s *Session) refresh(ctx context.Context) (string, error) {
	s.refreshMu.Lock()
	if call := s.inflight; call != nil {
		s.refreshMu.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	s.inflight = call
	s.refreshMu.Unlock()

	call.token, call.err = s.refreshAccessToken(ctx)
	close(call.done)

	s.refreshMu.Lock()
	s.inflight = nil
	s.refreshMu.Unlock()

	return call.token, call.err
}

// refreshAccessToken exchanges the stored refresh token for a new
// access token. The call goes straight to the transport: it must not
// pass through the 401 interceptor it is invoked by.
func (s *Session) refreshAccessToken(ctx context.Context) (string, error) {
	refreshToken := s.store.RefreshToken()
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	s.log.Debug().Msg("access token rejected, refreshing")

	payload := map[string]string{"refresh_token": refreshToken}
	status, body, err := s.plainPost(ctx, s.BaseURL()+"/api/users/refresh_token/", payload)
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}

	switch {
	case status == http.StatusOK:
	case status == http.StatusUnauthorized || status == http.StatusBadRequest:
		// The refresh token itself is invalid.
		s.store.Clear()
		return "", ErrRefreshRejected
	default:
		// Transient refresh-endpoint failure; keep credentials so a
		// later invocation can try again.
		return "", fmt.Errorf("refresh endpoint returned status %d", status)
	}

	var tokens struct {
		Access       string `json:"access"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(body, &tokens); err != nil {
		return "", fmt.Errorf("decoding refresh response: %w", err)
	}
	access := tokens.Access
	if access == "" {
		access = tokens.AccessToken
	}
	if access == "" {
		return "", errors.New("refresh response carried no access token")
	}

	if tokens.RefreshToken != "" {
		// Backend rotated the refresh token; persist both.
		s.store.SetTokens(access, tokens.RefreshToken)
	} else {
		s.store.SetAccessToken(access)
	}
	return access, nil
}

// plainPost issues one JSON POST outside the interceptor chain, used by
// the login and refresh flows.
func (s *Session) plainPost(ctx context.Context, target string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &NetworkError{Err: fmt.Errorf("reading response body: %w", err)}
	}
	return resp.StatusCode, data, nil
}
