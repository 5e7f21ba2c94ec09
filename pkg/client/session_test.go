package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory CredentialStore for tests.
type memStore struct {
	mu      sync.Mutex
	access  string
	refresh string
	slug    string
	user    string
}

func (m *memStore) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memStore) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memStore) SetAccessToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = token
}

func (m *memStore) SetTokens(access, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	m.refresh = refresh
}

func (m *memStore) TenantSlug() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slug
}

func (m *memStore) SetTenantSlug(slug string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slug = slug
}

func (m *memStore) SetUser(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = raw
}

func (m *memStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	m.slug = ""
	m.user = ""
}

func newTestSession(t *testing.T, store *memStore, handler http.Handler, opts ...Option) (*Session, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithHTTPClient(server.Client())}, opts...)
	return NewSession(store, server.URL, "fleethub.io", opts...), server
}

func TestSessionAttachesBearer(t *testing.T) {
	var gotAuth string
	store := &memStore{access: "token-1"}
	session, _ := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	err := session.Get(context.Background(), "/api/users/me/", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-1", gotAuth)
}

func TestSessionOmitsAuthHeaderWithoutToken(t *testing.T) {
	var hasAuth bool
	session, _ := newTestSession(t, &memStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))

	err := session.Get(context.Background(), "/api/fleet/vehicles/", nil, nil)
	require.NoError(t, err)
	assert.False(t, hasAuth, "unauthenticated request must not carry an Authorization header")
}

func TestSessionSetsRequestHeaders(t *testing.T) {
	var accept, contentType, requestID string
	session, _ := newTestSession(t, &memStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		contentType = r.Header.Get("Content-Type")
		requestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))

	err := session.Post(context.Background(), "/api/fleet/vehicles/", map[string]string{"vin": "X"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/json", accept)
	assert.Equal(t, "application/json", contentType)
	assert.NotEmpty(t, requestID)
}

func TestSessionRefreshAndRetry(t *testing.T) {
	var apiCalls, refreshCalls int32
	store := &memStore{access: "stale", refresh: "refresh-1"}

	var session *Session
	session, _ = newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/refresh_token/":
			atomic.AddInt32(&refreshCalls, 1)
			w.Write([]byte(`{"access": "fresh"}`))
		case "/api/fleet/vehicles/":
			atomic.AddInt32(&apiCalls, 1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"results": [], "count": 0}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	var page Page[Vehicle]
	err := session.Get(context.Background(), "/api/fleet/vehicles/", nil, &page)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&apiCalls), "expected exactly one resend after refresh")
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, "fresh", store.AccessToken())
}

func TestSessionSecondUnauthorizedIsTerminal(t *testing.T) {
	var refreshCalls, logoutCalls int32
	store := &memStore{access: "stale", refresh: "refresh-1", user: `{"id":1}`}

	session, _ := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/users/refresh_token/" {
			atomic.AddInt32(&refreshCalls, 1)
			w.Write([]byte(`{"access": "fresh"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}), WithLogoutHook(func() {
		atomic.AddInt32(&logoutCalls, 1)
	}))

	err := session.Get(context.Background(), "/api/users/me/", nil, nil)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls), "a request refreshes at most once")
	assert.Equal(t, int32(1), atomic.LoadInt32(&logoutCalls))
	assert.Empty(t, store.AccessToken(), "credentials must be cleared on terminal 401")
	assert.Empty(t, store.RefreshToken())
}

func TestSessionNoRefreshTokenLogsOut(t *testing.T) {
	var refreshCalls, logoutCalls int32
	store := &memStore{access: "stale"}

	session, _ := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/users/refresh_token/" {
			atomic.AddInt32(&refreshCalls, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}), WithLogoutHook(func() {
		atomic.AddInt32(&logoutCalls, 1)
	}))

	err := session.Get(context.Background(), "/api/users/me/", nil, nil)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls), "no refresh call without a stored refresh token")
	assert.Equal(t, int32(1), atomic.LoadInt32(&logoutCalls))
}

func TestSessionTransientRefreshFailureKeepsCredentials(t *testing.T) {
	var logoutCalls int32
	store := &memStore{access: "stale", refresh: "refresh-1"}

	session, _ := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/users/refresh_token/" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}), WithLogoutHook(func() {
		atomic.AddInt32(&logoutCalls, 1)
	}))

	err := session.Get(context.Background(), "/api/users/me/", nil, nil)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "could not refresh session", authErr.Reason)
	assert.Equal(t, int32(0), atomic.LoadInt32(&logoutCalls))
	assert.Equal(t, "refresh-1", store.RefreshToken(), "a flaky refresh endpoint must not destroy credentials")
}

func TestSessionHTTPErrors(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"not found", http.StatusNotFound, "", "resource not found"},
		{"server error", http.StatusInternalServerError, "", "server error"},
		{"bad gateway", http.StatusBadGateway, "", "service temporarily unavailable"},
		{"forbidden", http.StatusForbidden, "", "you do not have permission to perform this action"},
		{"validation", http.StatusBadRequest, "", "request validation failed"},
		{"backend detail wins", http.StatusBadRequest, `{"detail": "vin already registered"}`, "vin already registered"},
		{"backend message wins", http.StatusNotFound, `{"message": "no such vehicle"}`, "no such vehicle"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			session, _ := newTestSession(t, &memStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))

			err := session.Get(context.Background(), "/api/fleet/vehicles/1/", nil, nil)

			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tc.status, httpErr.Status)
			assert.Equal(t, tc.wantMessage, httpErr.Message)
			if tc.body != "" {
				assert.JSONEq(t, tc.body, string(httpErr.Payload))
			}
		})
	}
}

func TestSessionNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL
	server.Close()

	session := NewSession(&memStore{}, target, "fleethub.io")
	err := session.Get(context.Background(), "/api/fleet/vehicles/", nil, nil)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestSessionTimeout(t *testing.T) {
	session, _ := newTestSession(t, &memStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}), WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))

	err := session.Get(context.Background(), "/api/fleet/vehicles/", nil, nil)

	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestSessionCancelledContext(t *testing.T) {
	var refreshCalls int32
	store := &memStore{access: "stale", refresh: "refresh-1"}

	session, _ := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/users/refresh_token/" {
			atomic.AddInt32(&refreshCalls, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := session.Get(ctx, "/api/fleet/vehicles/", nil, nil)

	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls), "a cancelled request must not trigger a refresh")
}

func TestSessionBaseURLCapturedPerRequest(t *testing.T) {
	store := &memStore{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	session := NewSession(store, server.URL, "fleethub.io", WithHTTPClient(server.Client()))
	require.NoError(t, session.Get(context.Background(), "/api/users/me/", nil, nil))

	// A tenant switch only affects requests built afterwards.
	session.ApplyTenant("acme")
	assert.Equal(t, "https://acme.fleethub.io", session.BaseURL())
}
