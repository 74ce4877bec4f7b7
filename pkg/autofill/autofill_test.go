package autofill

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestQueryParamResolve(t *testing.T) {
	p := NewQueryParam("")
	r := httptest.NewRequest(http.MethodGet, "/?name=John%2BDoe%2521", nil)

	c, err := p.Resolve(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "John+Doe%21", c.Name)
	assert.Empty(t, c.SessionID)
}

func TestQueryParamMissing(t *testing.T) {
	p := NewQueryParam("name")

	for _, target := range []string{"/", "/?name=%20", "/?name=%21%21"} {
		_, err := p.Resolve(context.Background(), httptest.NewRequest(http.MethodGet, target, nil))
		var aErr *Error
		require.ErrorAs(t, err, &aErr, target)
		assert.Equal(t, "query", aErr.Provider)
		assert.NotEmpty(t, aErr.Message)
	}
}

func TestStateSignerRoundTrip(t *testing.T) {
	s := NewStateSigner("secret", time.Minute)
	state, err := s.Sign("session-1")
	require.NoError(t, err)

	id, err := s.Verify(state)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)
}

func TestStateSignerRejects(t *testing.T) {
	s := NewStateSigner("secret", time.Minute)
	state, err := s.Sign("session-1")
	require.NoError(t, err)

	_, err = NewStateSigner("other", time.Minute).Verify(state)
	assert.ErrorIs(t, err, ErrInvalidState)

	expired := NewStateSigner("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = expired.Verify(state)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func newInstagramServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"exchanged","token_type":"bearer"}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer exchanged", "Bearer direct":
			_, _ = w.Write([]byte(`{"id":"17841","username":"kari.nordmann"}`))
		case "Bearer blank":
			_, _ = w.Write([]byte(`{"id":"17841"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestInstagram(srv *httptest.Server) *Instagram {
	return NewInstagram("client", "secret", "https://we.example/auth/instagram/callback",
		NewStateSigner("state-secret", time.Minute),
		WithEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/oauth/authorize", TokenURL: srv.URL + "/oauth/access_token"}),
		WithProfileURL(srv.URL+"/me"),
	)
}

func callback(t *testing.T, p *Instagram, params url.Values) (Candidate, error) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/auth/instagram/callback?"+params.Encode(), nil)
	return p.Resolve(context.Background(), r)
}

func TestInstagramAuthCodeURLCarriesState(t *testing.T) {
	srv := newInstagramServer(t)
	p := newTestInstagram(srv)

	raw, err := p.AuthCodeURL("session-9")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "client", u.Query().Get("client_id"))
	id, err := p.states.Verify(u.Query().Get("state"))
	require.NoError(t, err)
	assert.Equal(t, "session-9", id)
}

func TestInstagramResolveWithCode(t *testing.T) {
	srv := newInstagramServer(t)
	p := newTestInstagram(srv)
	state, _ := p.states.Sign("session-1")

	c, err := callback(t, p, url.Values{"state": {state}, "code": {"good-code"}})
	require.NoError(t, err)
	assert.Equal(t, "kari.nordmann", c.Name)
	assert.Equal(t, "session-1", c.SessionID)
}

func TestInstagramResolveWithAccessToken(t *testing.T) {
	srv := newInstagramServer(t)
	p := newTestInstagram(srv)
	state, _ := p.states.Sign("session-2")

	c, err := callback(t, p, url.Values{"state": {state}, "access_token": {"direct"}})
	require.NoError(t, err)
	assert.Equal(t, "kari.nordmann", c.Name)
}

func TestInstagramResolveFailures(t *testing.T) {
	srv := newInstagramServer(t)
	p := newTestInstagram(srv)
	state, _ := p.states.Sign("session-3")

	tests := []struct {
		name   string
		params url.Values
	}{
		{"bad state", url.Values{"state": {"forged"}, "code": {"good-code"}}},
		{"denied", url.Values{"state": {state}, "error": {"access_denied"}}},
		{"no token", url.Values{"state": {state}}},
		{"bad code", url.Values{"state": {state}, "code": {"stale"}}},
		{"rejected token", url.Values{"state": {state}, "access_token": {"revoked"}}},
		{"no username", url.Values{"state": {state}, "access_token": {"blank"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := callback(t, p, tt.params)
			var aErr *Error
			require.ErrorAs(t, err, &aErr)
			assert.Equal(t, "instagram", aErr.Provider)
			assert.NotEmpty(t, aErr.Message)
		})
	}
}

func TestInstagramFailureKeepsSession(t *testing.T) {
	srv := newInstagramServer(t)
	p := newTestInstagram(srv)
	state, _ := p.states.Sign("session-4")

	c, err := callback(t, p, url.Values{"state": {state}, "error": {"access_denied"}})
	require.Error(t, err)
	assert.Equal(t, "session-4", c.SessionID)
}
