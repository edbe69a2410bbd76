package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAdminCredentials(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		pass    string
		wantErr string
	}{
		{name: "valid", user: "admin", pass: "correct-horse-battery"},
		{name: "missing user", pass: "correct-horse-battery", wantErr: "ADMIN_USER must be set"},
		{name: "missing password", user: "admin", wantErr: "ADMIN_USER_PASSWORD must be set"},
		{name: "short password", user: "admin", pass: "short", wantErr: "at least 12 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ADMIN_USER", tt.user)
			t.Setenv("ADMIN_USER_PASSWORD", tt.pass)

			err := ValidateAdminCredentials()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateJWTSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr string
	}{
		{name: "valid", secret: strings.Repeat("k", 48)},
		{name: "missing", secret: "", wantErr: "must be set"},
		{name: "too short", secret: "abcdef", wantErr: "at least 32 characters"},
		{name: "weak value padded", secret: "password123", wantErr: "at least 32 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)

			err := ValidateJWTSecret("JWT_SECRET")
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
