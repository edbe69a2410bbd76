package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SecurityConfig controls authentication for the admin surface.
type SecurityConfig struct {
	Security securitySection `yaml:"security"`
}

type securitySection struct {
	Auth            authSection `yaml:"auth"`
	PublicEndpoints []string    `yaml:"public_endpoints"`
	JWT             jwtSection  `yaml:"jwt"`
}

type authSection struct {
	Provider string       `yaml:"provider"`
	Basic    basicSection `yaml:"basic"`
}

type basicSection struct {
	MinPasswordLength int      `yaml:"min_password_length"`
	WeakPasswords     []string `yaml:"weak_passwords"`
}

type jwtSection struct {
	SecretEnv   string `yaml:"secret_env"`
	ExpiryHours int    `yaml:"expiry_hours"`
}

// DefaultSecurityConfig returns the policy used when no security file
// is present: basic credentials from the environment, every read
// endpoint public, the admin surface behind a JWT.
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		Security: securitySection{
			Auth: authSection{
				Provider: "basic",
				Basic: basicSection{
					MinPasswordLength: 12,
					WeakPasswords:     []string{"password", "admin", "123456", "letmein"},
				},
			},
			PublicEndpoints: []string{
				"/health", "/ready", "/live", "/metrics",
				"/auth/token", "/recommend", "/books",
			},
			JWT: jwtSection{
				SecretEnv:   "JWT_SECRET",
				ExpiryHours: 24,
			},
		},
	}
}

// LoadSecurityConfig loads security configuration from a YAML file.
// A missing file yields the defaults. The path comes from a trusted
// source (CLI flag or hardcoded default), not user input.
func LoadSecurityConfig(path string) (*SecurityConfig, error) {
	// #nosec G304 -- path is provided by trusted source
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSecurityConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SecurityConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateSecurityConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func validateSecurityConfig(config *SecurityConfig) error {
	if config.Security.Auth.Provider == "" {
		return fmt.Errorf("auth provider is required")
	}

	if config.Security.Auth.Provider == "basic" {
		if config.Security.Auth.Basic.MinPasswordLength <= 0 {
			return fmt.Errorf("min_password_length must be positive")
		}
		if config.Security.Auth.Basic.MinPasswordLength < 8 {
			return fmt.Errorf("min_password_length must be at least 8")
		}
	}

	if config.Security.JWT.SecretEnv == "" {
		return fmt.Errorf("jwt secret_env is required")
	}
	if config.Security.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("jwt expiry_hours must be positive")
	}

	return nil
}

// GetAuthProvider returns the configured authentication provider name.
func (c *SecurityConfig) GetAuthProvider() string {
	return c.Security.Auth.Provider
}

// GetMinPasswordLength returns the minimum password length requirement.
func (c *SecurityConfig) GetMinPasswordLength() int {
	return c.Security.Auth.Basic.MinPasswordLength
}

// GetWeakPasswords returns the list of rejected weak passwords.
func (c *SecurityConfig) GetWeakPasswords() []string {
	return c.Security.Auth.Basic.WeakPasswords
}

// GetPublicEndpoints returns the endpoints reachable without a token.
func (c *SecurityConfig) GetPublicEndpoints() []string {
	return c.Security.PublicEndpoints
}

// GetJWTSecretEnv returns the environment variable name for the JWT secret.
func (c *SecurityConfig) GetJWTSecretEnv() string {
	return c.Security.JWT.SecretEnv
}

// GetJWTExpiryHours returns the JWT expiry time in hours.
func (c *SecurityConfig) GetJWTExpiryHours() int {
	return c.Security.JWT.ExpiryHours
}
