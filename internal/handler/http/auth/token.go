package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"bookrec/internal/handler/http/requestid"
	authservice "bookrec/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// TokenHandler authenticates the admin user and issues a JWT signed
// with JWT_SECRET. The token carries the subject, role, and expiry.
func TokenHandler(authService *authservice.AuthService, expiry time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		fail := func(code int, reason, msg string) {
			logger.Warn("authentication failed",
				slog.String("reason", reason),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			RecordAuthRequest(false)
			RecordAuthDuration(time.Since(start).Seconds())
			http.Error(w, msg, code)
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(http.StatusBadRequest, "invalid_request", "invalid request")
			return
		}

		creds := authservice.Credentials{Username: req.Username, Password: req.Password}
		if err := authService.ValidateCredentials(r.Context(), creds); err != nil {
			fail(http.StatusUnauthorized, "invalid_credentials", "unauthorized")
			return
		}

		role, err := authService.GetProvider().IdentifyUser(r.Context(), req.Username)
		if err != nil {
			fail(http.StatusUnauthorized, "unknown_user", "unauthorized")
			return
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  req.Username,
			"role": role,
			"exp":  time.Now().Add(expiry).Unix(),
		})
		signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
		if err != nil {
			logger.Error("token generation failed", slog.String("error", err.Error()))
			RecordAuthRequest(false)
			RecordAuthDuration(time.Since(start).Seconds())
			http.Error(w, "token generation failed", http.StatusInternalServerError)
			return
		}

		logger.Info("authentication successful",
			slog.String("user", req.Username),
			slog.String("role", role),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		RecordAuthRequest(true)
		RecordAuthDuration(time.Since(start).Seconds())

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(tokenResponse{Token: signed}); err != nil {
			logger.Error("failed to encode token response", slog.String("error", err.Error()))
		}
	}
}
