package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-for-authz"

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminToken(t *testing.T) string {
	return signToken(t, jwt.MapClaims{
		"sub":  "admin",
		"role": RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, jwt.SigningMethodHS256, testSecret)
}

func protectedHandler(t *testing.T, sawUser *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*sawUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthz_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	var sawUser string
	handler := Authz(protectedHandler(t, &sawUser))

	req := httptest.NewRequest(http.MethodPost, "/admin/reindex", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", sawUser)
}

func TestAuthz_MissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	var sawUser string
	handler := Authz(protectedHandler(t, &sawUser))

	req := httptest.NewRequest(http.MethodPost, "/admin/reindex", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthz_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	var sawUser string
	handler := Authz(protectedHandler(t, &sawUser))

	token := signToken(t, jwt.MapClaims{
		"sub":  "admin",
		"role": RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, jwt.SigningMethodHS256, "other-secret")

	req := httptest.NewRequest(http.MethodPost, "/admin/reindex", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthz_ExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	var sawUser string
	handler := Authz(protectedHandler(t, &sawUser))

	token := signToken(t, jwt.MapClaims{
		"sub":  "admin",
		"role": RoleAdmin,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}, jwt.SigningMethodHS256, testSecret)

	req := httptest.NewRequest(http.MethodPost, "/admin/reindex", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthz_NonAdminRole(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	var sawUser string
	handler := Authz(protectedHandler(t, &sawUser))

	token := signToken(t, jwt.MapClaims{
		"sub":  "reader",
		"role": "viewer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, jwt.SigningMethodHS256, testSecret)

	req := httptest.NewRequest(http.MethodPost, "/admin/reindex", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthz_PublicPathBypassesAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	var sawUser string
	handler := Authz(protectedHandler(t, &sawUser))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
