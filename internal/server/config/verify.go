// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifySlots(&cfg.Slots); err != nil {
		return err
	}
	return verifyOracle(&cfg.Oracle)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Addr == "" {
		return errors.New("server.addr is required")
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return errors.New("server.tls_cert_file and server.tls_key_file must be set together")
	}
	return nil
}

func verifySlots(cfg *SlotsSection) error {
	switch cfg.Backend {
	case "memory":
		return nil
	case "redis":
		if cfg.Redis.Addr == "" {
			return errors.New("slots.redis.addr is required for the redis backend")
		}
		return nil
	case "badger":
		if cfg.Badger.Dir == "" {
			return errors.New("slots.badger.dir is required for the badger backend")
		}
		if err := os.MkdirAll(cfg.Badger.Dir, 0o750); err != nil {
			return errors.New("cannot create badger directory: " + err.Error())
		}
		return nil
	default:
		return errors.New("slots.backend must be one of memory, redis, badger")
	}
}

func verifyOracle(cfg *OracleSection) error {
	switch cfg.Backend {
	case "local":
		for _, acct := range cfg.Local.Accounts {
			if acct.Username == "" || acct.PasswordHash == "" {
				return errors.New("oracle.local.accounts entries need username and password_hash")
			}
		}
		return nil
	case "http":
		if cfg.HTTP.BaseURL == "" {
			return errors.New("oracle.http.base_url is required for the http backend")
		}
		return nil
	default:
		return errors.New("oracle.backend must be one of local, http")
	}
}
