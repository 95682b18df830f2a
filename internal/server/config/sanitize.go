// Package config defines the server configuration structure.
package config

import "strings"

// Sanitize returns a copy of the config with sensitive fields masked,
// for logging the effective configuration at startup.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	if sanitized.Slots.Redis.Password != "" {
		sanitized.Slots.Redis.Password = maskSecret(sanitized.Slots.Redis.Password)
	}
	if sanitized.Oracle.HTTP.APIKey != "" {
		sanitized.Oracle.HTTP.APIKey = maskSecret(sanitized.Oracle.HTTP.APIKey)
	}

	// Password hashes are not plaintext secrets, but there is no reason
	// to print them either.
	if len(cfg.Oracle.Local.Accounts) > 0 {
		accounts := make([]AccountConfig, len(cfg.Oracle.Local.Accounts))
		for i, acct := range cfg.Oracle.Local.Accounts {
			accounts[i] = AccountConfig{Username: acct.Username, PasswordHash: "****"}
		}
		sanitized.Oracle.Local.Accounts = accounts
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
