package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoscuola/internal/schedule"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID int64, role schedule.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestMiddlewareStoresActor(t *testing.T) {
	var got Actor
	handler := Middleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFrom(r.Context())
		require.True(t, ok)
		got = actor
	}))

	req := httptest.NewRequest("GET", "/api/lessons", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 42, schedule.RoleInstructor))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, schedule.RoleInstructor, got.Role)
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	handler := Middleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	tests := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"not a token", "Bearer garbage"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", 1, schedule.RoleStaff)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/lessons", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	chain := Middleware(testSecret)(RequireRoles(schedule.RoleStaff)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	))

	req := httptest.NewRequest("POST", "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 1, schedule.RoleStudent))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest("POST", "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 2, schedule.RoleStaff))
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
