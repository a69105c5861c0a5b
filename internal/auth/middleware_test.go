package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// echoUser writes the context user id, or "anonymous".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		id = "anonymous"
	}
	_, _ = w.Write([]byte(id))
})

func TestRequireAuth(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid bearer", "Bearer " + token, http.StatusOK, "user-42"},
		{"lowercase scheme", "bearer " + token, http.StatusOK, "user-42"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"basic scheme", "Basic YWRtaW46cXdlcnR5", http.StatusUnauthorized, ""},
		{"bearer without token", "Bearer ", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer not.a.token", http.StatusUnauthorized, ""},
	}

	h := RequireAuth(ts)(echoUser)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Issue("user-7")

	tests := []struct {
		name     string
		header   string
		wantBody string
	}{
		{"valid bearer", "Bearer " + token, "user-7"},
		{"missing header", "", "anonymous"},
		{"invalid token", "Bearer garbage", "anonymous"},
	}

	h := OptionalAuth(ts)(echoUser)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/posts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
