package auth

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKakao serves the token and user endpoints
func fakeKakao(t *testing.T, userBody string, userStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-key", r.PostForm.Get("client_id"))
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant","error_description":"authorization code not found"}`))
			return
		}
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":21599}`))
	})
	mux.HandleFunc("/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(userStatus)
		w.Write([]byte(userBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newKakao(srv *httptest.Server) *Kakao {
	return &Kakao{
		AppKey:      "test-key",
		RedirectURL: "http://localhost:8080/auth/callback",
		AuthBase:    srv.URL,
		APIBase:     srv.URL,
		HTTPClient:  srv.Client(),
	}
}

func TestKakaoLogin(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		userBody   string
		userStatus int
		want       Profile
		wantReason string
	}{
		{
			name:       "Nickname from properties",
			code:       "good-code",
			userBody:   `{"id":42,"properties":{"nickname":"공부왕"}}`,
			userStatus: http.StatusOK,
			want:       Profile{ID: "42", Nickname: "공부왕"},
		},
		{
			name:       "Nickname from account profile",
			code:       "good-code",
			userBody:   `{"id":7,"kakao_account":{"profile":{"nickname":"학생"}}}`,
			userStatus: http.StatusOK,
			want:       Profile{ID: "7", Nickname: "학생"},
		},
		{
			name:       "Consent without nickname",
			code:       "good-code",
			userBody:   `{"id":7}`,
			userStatus: http.StatusOK,
			wantReason: "no nickname",
		},
		{
			name:       "Bad code",
			code:       "stale-code",
			wantReason: "authorization code not found",
		},
		{
			name:       "User endpoint error",
			code:       "good-code",
			userBody:   `{"msg":"this access token does not exist","code":-401}`,
			userStatus: http.StatusUnauthorized,
			wantReason: "this access token does not exist",
		},
		{
			name:       "Missing code",
			code:       "",
			wantReason: "missing authorization code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeKakao(t, tt.userBody, tt.userStatus)
			k := newKakao(srv)
			require.NoError(t, k.EnsureInitialized())

			got, err := k.Login(context.Background(), tt.code)
			if tt.wantReason != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAuthFailed))
				var authErr *Error
				require.True(t, errors.As(err, &authErr))
				assert.Contains(t, authErr.Reason, tt.wantReason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKakaoEnsureInitialized(t *testing.T) {
	k := &Kakao{AppKey: "key", RedirectURL: "http://localhost/cb"}
	require.NoError(t, k.EnsureInitialized())
	client := k.HTTPClient
	require.NoError(t, k.EnsureInitialized(), "second init must not fail")
	assert.Same(t, client, k.HTTPClient)
	assert.Equal(t, KakaoAuthBase, k.AuthBase)

	assert.Error(t, (&Kakao{RedirectURL: "x"}).EnsureInitialized())
	assert.Error(t, (&Kakao{AppKey: "x"}).EnsureInitialized())

	_, err := (&Kakao{}).Login(context.Background(), "code")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestKakaoAuthorizeURL(t *testing.T) {
	k := &Kakao{AppKey: "key", RedirectURL: "http://localhost:8080/auth/callback"}
	u, err := url.Parse(k.AuthorizeURL("xyz"))
	require.NoError(t, err)

	assert.Equal(t, "kauth.kakao.com", u.Host)
	assert.Equal(t, "/oauth/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "key", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "profile_nickname", q.Get("scope"))
	assert.Equal(t, "xyz", q.Get("state"))
}

func TestCallbackError(t *testing.T) {
	assert.NoError(t, CallbackError(url.Values{"code": {"abc"}}))

	err := CallbackError(url.Values{"error": {"access_denied"}, "error_description": {"User denied access"}})
	require.ErrorIs(t, err, ErrAuthFailed)
	assert.Contains(t, err.Error(), "login cancelled")
}

func TestDevGateway(t *testing.T) {
	var buf bytes.Buffer
	g := &DevGateway{Nickname: "테스터", CallbackURL: "/auth/callback", Logger: log.New(&buf, "", 0)}

	require.NoError(t, g.EnsureInitialized())
	require.NoError(t, g.EnsureInitialized())
	assert.Equal(t, 1, strings.Count(buf.String(), "WARNING"), "banner is printed once")

	assert.Equal(t, "/auth/callback?code=dev&state=s1", g.AuthorizeURL("s1"))

	p, err := g.Login(context.Background(), "dev")
	require.NoError(t, err)
	assert.Equal(t, "테스터", p.Nickname)

	_, err = g.Login(context.Background(), "")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestSessions(t *testing.T) {
	s, err := NewSessions("secret", time.Hour)
	require.NoError(t, err)

	token, claims, err := s.Issue(Profile{ID: "42", Nickname: "공부왕"})
	require.NoError(t, err)
	assert.NotEmpty(t, claims.SessionID())

	parsed, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "공부왕", parsed.Nickname)
	assert.Equal(t, "42", parsed.Subject)
	assert.Equal(t, claims.SessionID(), parsed.SessionID())

	_, err = s.Parse(token + "x")
	assert.ErrorIs(t, err, ErrInvalidSession)

	other, err := NewSessions("another secret", time.Hour)
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession, "tokens are bound to the secret")

	same, err := NewSessions("secret", time.Hour)
	require.NoError(t, err)
	_, err = same.Parse(token)
	assert.NoError(t, err, "the key is derived deterministically")
}

func TestSessionsExpiry(t *testing.T) {
	s, err := NewSessions("", time.Minute)
	require.NoError(t, err)

	token, _, err := s.Issue(Profile{Nickname: "n"})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
