package auth

import (
	"fmt"
	"os"
)

// minSecretLength enforces 256 bits of JWT secret material.
const minSecretLength = 32

var weakSecrets = []string{"secret", "password", "test", "admin", "default"}

// ValidateAdminCredentials checks the admin credentials at startup so
// the server refuses to boot with an empty or weak admin account.
func ValidateAdminCredentials() error {
	user := os.Getenv("ADMIN_USER")
	pass := os.Getenv("ADMIN_USER_PASSWORD")

	if user == "" {
		return fmt.Errorf("ADMIN_USER must be set")
	}
	if pass == "" {
		return fmt.Errorf("ADMIN_USER_PASSWORD must be set")
	}
	if len(pass) < 12 {
		return fmt.Errorf("ADMIN_USER_PASSWORD must be at least 12 characters")
	}
	return nil
}

// ValidateJWTSecret checks the signing secret named by secretEnv.
func ValidateJWTSecret(secretEnv string) error {
	secret := os.Getenv(secretEnv)
	if secret == "" {
		return fmt.Errorf("%s must be set", secretEnv)
	}
	if len(secret) < minSecretLength {
		return fmt.Errorf("%s must be at least %d characters (256 bits)", secretEnv, minSecretLength)
	}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			return fmt.Errorf("%s must not be a common weak value", secretEnv)
		}
	}
	return nil
}
