package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clinicdesk/m/internal/auth"
)

func TestAuthMiddleware_PutsClaimsOnContext(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Minute)
	h := &Handler{tokens: tokens, log: zap.NewNop()}

	var seen *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		require.True(t, ok)
		seen = claims
		w.WriteHeader(http.StatusNoContent)
	})

	raw, err := tokens.Issue(42, "nurse1")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+raw)
	rec := httptest.NewRecorder()
	h.authMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.EqualValues(t, 42, seen.UserID)
	assert.Equal(t, "nurse1", seen.Subject)
}

func TestAuthMiddleware_RejectsWithoutCallingNext(t *testing.T) {
	h := &Handler{tokens: auth.NewTokens("test-secret", time.Minute), log: zap.NewNop()}
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h.authMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestFail_UnexpectedErrorIsInternal(t *testing.T) {
	h := &Handler{log: zap.NewNop()}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
	h.fail(rec, req, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorMessage(t, rec))
}
