// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for viewgate-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Session SessionSection `koanf:"session"`
	Slots   SlotsSection   `koanf:"slots"`
	Oracle  OracleSection  `koanf:"oracle"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	Addr            string        `koanf:"addr"`
	TLSCertFile     string        `koanf:"tls_cert_file"`
	TLSKeyFile      string        `koanf:"tls_key_file"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SessionSection configures session behavior.
type SessionSection struct {
	// ProbeInterval is the timed status probe period. Zero disables
	// timed probes; interactive probes still run.
	ProbeInterval time.Duration `koanf:"probe_interval"`

	// SlotTTL is how long a stored slot pair survives untouched.
	SlotTTL time.Duration `koanf:"slot_ttl"`

	// CookieName carries the session ID.
	CookieName string `koanf:"cookie_name"`

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool `koanf:"cookie_secure"`
}

// SlotsSection selects and configures the slot store backend.
type SlotsSection struct {
	// Backend is one of "memory", "redis", "badger".
	Backend string `koanf:"backend"`

	Redis  SlotsRedisConfig  `koanf:"redis"`
	Badger SlotsBadgerConfig `koanf:"badger"`
}

// SlotsRedisConfig configures the Redis slot store.
type SlotsRedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// SlotsBadgerConfig configures the embedded Badger slot store.
type SlotsBadgerConfig struct {
	Dir string `koanf:"dir"`
}

// OracleSection selects and configures the token oracle.
type OracleSection struct {
	// Backend is one of "local", "http".
	Backend string `koanf:"backend"`

	Local LocalOracleConfig `koanf:"local"`
	HTTP  HTTPOracleConfig  `koanf:"http"`
}

// LocalOracleConfig configures the in-process oracle.
type LocalOracleConfig struct {
	// SessionTTL is the token lifetime.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// LoginRate caps issue attempts per username per second.
	LoginRate int `koanf:"login_rate"`

	// Accounts preloads the credential table with Argon2id hashes.
	Accounts []AccountConfig `koanf:"accounts"`
}

// AccountConfig is one preloaded account.
type AccountConfig struct {
	Username     string `koanf:"username"`
	PasswordHash string `koanf:"password_hash"`
}

// HTTPOracleConfig configures the remote HTTP oracle.
type HTTPOracleConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
