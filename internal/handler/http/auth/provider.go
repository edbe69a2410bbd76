// Package auth provides JWT-based authentication for the admin
// endpoints. Read-only recommendation and book routes stay public.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"os"
	"strings"

	authservice "bookrec/internal/service/auth"
)

// RoleAdmin is the only role the engine knows. Admin tokens gate the
// reindex endpoint.
const RoleAdmin = "admin"

// BasicAuthProvider validates credentials against the ADMIN_USER and
// ADMIN_USER_PASSWORD environment variables.
type BasicAuthProvider struct {
	minPasswordLength int
	weakPasswords     []string
}

func NewBasicAuthProvider(minPasswordLength int, weakPasswords []string) *BasicAuthProvider {
	return &BasicAuthProvider{
		minPasswordLength: minPasswordLength,
		weakPasswords:     weakPasswords,
	}
}

// ValidateCredentials checks the password policy, then compares against
// the configured admin credentials in constant time.
func (p *BasicAuthProvider) ValidateCredentials(ctx context.Context, creds authservice.Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("credentials must not be empty")
	}
	if len(creds.Password) < p.minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", p.minPasswordLength)
	}
	for _, weak := range p.weakPasswords {
		if creds.Password == weak || strings.HasPrefix(creds.Password, weak) {
			return fmt.Errorf("weak password detected")
		}
	}

	adminUser := os.Getenv("ADMIN_USER")
	adminPass := os.Getenv("ADMIN_USER_PASSWORD")

	userMatch := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(adminUser)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(adminPass)) == 1
	if !userMatch || !passMatch {
		return fmt.Errorf("invalid credentials")
	}
	return nil
}

func (p *BasicAuthProvider) GetRequirements() authservice.CredentialRequirements {
	return authservice.CredentialRequirements{
		MinPasswordLength: p.minPasswordLength,
		WeakPasswords:     p.weakPasswords,
	}
}

func (p *BasicAuthProvider) Name() string { return "basic" }

// IdentifyUser returns the role for a username. Only the configured
// admin user exists.
func (p *BasicAuthProvider) IdentifyUser(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("username must not be empty")
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(os.Getenv("ADMIN_USER"))) == 1 {
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("user not found")
}
