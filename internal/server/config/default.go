// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr = "127.0.0.1:8080"

	DefaultProbeInterval = 30 * time.Second
	DefaultSlotTTL       = 24 * time.Hour
	DefaultCookieName    = "viewgate_session"

	DefaultSlotsBackend = "memory"
	DefaultRedisAddr    = "127.0.0.1:6379"
	DefaultBadgerDir    = "/var/lib/viewgate/slots"

	DefaultOracleBackend   = "local"
	DefaultSessionTTL      = 12 * time.Hour
	DefaultLoginRate       = 5
	DefaultOracleTimeout   = 10 * time.Second

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr:            DefaultHTTPAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Session: SessionSection{
			ProbeInterval: DefaultProbeInterval,
			SlotTTL:       DefaultSlotTTL,
			CookieName:    DefaultCookieName,
		},
		Slots: SlotsSection{
			Backend: DefaultSlotsBackend,
			Redis: SlotsRedisConfig{
				Addr: DefaultRedisAddr,
			},
			Badger: SlotsBadgerConfig{
				Dir: DefaultBadgerDir,
			},
		},
		Oracle: OracleSection{
			Backend: DefaultOracleBackend,
			Local: LocalOracleConfig{
				SessionTTL: DefaultSessionTTL,
				LoginRate:  DefaultLoginRate,
			},
			HTTP: HTTPOracleConfig{
				Timeout: DefaultOracleTimeout,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
