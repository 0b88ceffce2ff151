package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/auth"
)

// fakeVerifier accepts a fixed set of tokens.
type fakeVerifier map[string]string

func (f fakeVerifier) Verify(_ context.Context, token string) (*auth.Claims, error) {
	id, ok := f[token]
	if !ok {
		return nil, &auth.ErrInvalidToken{Reason: "unknown token"}
	}
	return &auth.Claims{UserID: id}, nil
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(UserIDOrEmpty(r)))
}

func TestTokenFrom(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer", "Bearer abc", "", "abc"},
		{"case insensitive scheme", "bearer abc", "", "abc"},
		{"wrong scheme", "Basic abc", "", ""},
		{"extra parts", "Bearer a b", "", ""},
		{"cookie fallback", "", "xyz", "xyz"},
		{"header wins over cookie", "Bearer abc", "xyz", "abc"},
		{"nothing", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			assert.Equal(t, tt.want, TokenFrom(r))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	h := Authenticate(fakeVerifier{"good": "u1"})(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	for _, header := range []string{"", "Bearer bad", "Token good"} {
		r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
	}
}

func TestOptional(t *testing.T) {
	h := Optional(fakeVerifier{"good": "u1"})(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	r.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	r = httptest.NewRequest(http.MethodGet, "/jobs", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "u1", w.Body.String())
}

func TestGetUserID_Missing(t *testing.T) {
	_, err := GetUserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithUserID(r.Context(), "u9"))
	id, err := GetUserID(r)
	require.NoError(t, err)
	assert.Equal(t, "u9", id)
}
