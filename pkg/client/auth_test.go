package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginWithPasswordPersistsSession(t *testing.T) {
	var gotBody map[string]string
	store := &memStore{}

	session, _ := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/login_with_password/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{
			"access_token": "access-1",
			"refresh_token": "refresh-1",
			"user": {"id": 7, "email": "ops@acme.test"}
		}`))
	}))

	result, err := session.LoginWithPassword(context.Background(), "ops@acme.test", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "ops@acme.test", gotBody["email"])
	assert.Equal(t, "hunter2", gotBody["password"])
	assert.Equal(t, "access-1", result.AccessToken)
	assert.Equal(t, "access-1", store.AccessToken())
	assert.Equal(t, "refresh-1", store.RefreshToken())
	assert.JSONEq(t, `{"id": 7, "email": "ops@acme.test"}`, store.user)
}

func TestLoginWithPasswordRejected(t *testing.T) {
	store := &memStore{}
	session, _ := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "invalid credentials"}`))
	}))

	_, err := session.LoginWithPassword(context.Background(), "ops@acme.test", "wrong")

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Equal(t, "invalid credentials", httpErr.Message)
	assert.Empty(t, store.AccessToken(), "failed login must not store tokens")
}

func TestRefreshWithoutTokenMakesNoRequest(t *testing.T) {
	var calls int32
	session, _ := newTestSession(t, &memStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	err := session.Refresh(context.Background())

	assert.ErrorIs(t, err, ErrNoRefreshToken)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestRefreshRejectedClearsCredentials(t *testing.T) {
	store := &memStore{access: "stale", refresh: "revoked"}
	session, _ := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := session.Refresh(context.Background())

	assert.ErrorIs(t, err, ErrRefreshRejected)
	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
}

func TestRefreshTokenRotation(t *testing.T) {
	testCases := []struct {
		name        string
		response    string
		wantAccess  string
		wantRefresh string
	}{
		{
			name:        "access field only",
			response:    `{"access": "fresh"}`,
			wantAccess:  "fresh",
			wantRefresh: "refresh-1",
		},
		{
			name:        "access_token field only",
			response:    `{"access_token": "fresh"}`,
			wantAccess:  "fresh",
			wantRefresh: "refresh-1",
		},
		{
			name:        "rotated refresh token",
			response:    `{"access": "fresh", "refresh_token": "refresh-2"}`,
			wantAccess:  "fresh",
			wantRefresh: "refresh-2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &memStore{access: "stale", refresh: "refresh-1"}
			session, _ := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/api/users/refresh_token/", r.URL.Path)
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "refresh-1", body["refresh_token"])
				w.Write([]byte(tc.response))
			}))

			require.NoError(t, session.Refresh(context.Background()))
			assert.Equal(t, tc.wantAccess, store.AccessToken())
			assert.Equal(t, tc.wantRefresh, store.RefreshToken())
		})
	}
}

func TestRefreshSingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	firstArrived := make(chan struct{})

	store := &memStore{access: "stale", refresh: "refresh-1"}
	session, _ := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(firstArrived)
		}
		<-release
		w.Write([]byte(`{"access": "fresh"}`))
	}))

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = session.Refresh(context.Background())
	}()

	<-firstArrived
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[1] = session.Refresh(context.Background())
	}()

	// Give the second caller time to join the in-flight refresh before
	// the handler answers.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent refreshes must share one request")
	assert.Equal(t, "fresh", store.AccessToken())
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := &memStore{access: "a", refresh: "r", slug: "acme", user: `{"id":1}`}
	session, _ := newTestSession(t, store, http.NotFoundHandler())

	session.Logout()
	session.Logout()

	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
	assert.Empty(t, store.TenantSlug())
}
