package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authservice "bookrec/internal/service/auth"
)

func newTokenHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	setAdminCreds(t)

	provider := NewBasicAuthProvider(8, []string{"password"})
	svc := authservice.NewAuthService(provider, PublicEndpoints)
	return TokenHandler(svc, time.Hour)
}

func postLogin(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTokenHandler_IssuesValidToken(t *testing.T) {
	handler := newTokenHandler(t)

	rec := postLogin(handler, `{"username":"admin","password":"correct-horse-battery"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	tok, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, RoleAdmin, claims["role"])

	exp := int64(claims["exp"].(float64))
	assert.Greater(t, exp, time.Now().Unix())
}

func TestTokenHandler_InvalidJSON(t *testing.T) {
	handler := newTokenHandler(t)

	rec := postLogin(handler, `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenHandler_WrongPassword(t *testing.T) {
	handler := newTokenHandler(t)

	rec := postLogin(handler, `{"username":"admin","password":"wrong-but-long-enough"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenHandler_UnknownUser(t *testing.T) {
	handler := newTokenHandler(t)

	rec := postLogin(handler, `{"username":"root","password":"correct-horse-battery"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenHandler_IssuedTokenPassesAuthz(t *testing.T) {
	handler := newTokenHandler(t)

	rec := postLogin(handler, `{"username":"admin","password":"correct-horse-battery"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	protected := Authz(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/admin/reindex", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	authzRec := httptest.NewRecorder()

	protected.ServeHTTP(authzRec, req)

	assert.Equal(t, http.StatusNoContent, authzRec.Code)
}
