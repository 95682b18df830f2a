package config

import (
	"strings"
	"testing"
)

func TestDefaultVerifies(t *testing.T) {
	cfg := Default()
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) error: %v", err)
	}
}

func TestVerifyServer(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:    "missing addr",
			mutate:  func(c *ServerConfig) { c.Server.Addr = "" },
			wantErr: "server.addr",
		},
		{
			name:    "cert without key",
			mutate:  func(c *ServerConfig) { c.Server.TLSCertFile = "/tmp/cert.pem" },
			wantErr: "tls_cert_file",
		},
		{
			name:    "unknown slots backend",
			mutate:  func(c *ServerConfig) { c.Slots.Backend = "postgres" },
			wantErr: "slots.backend",
		},
		{
			name: "redis backend without addr",
			mutate: func(c *ServerConfig) {
				c.Slots.Backend = "redis"
				c.Slots.Redis.Addr = ""
			},
			wantErr: "slots.redis.addr",
		},
		{
			name:    "unknown oracle backend",
			mutate:  func(c *ServerConfig) { c.Oracle.Backend = "ldap" },
			wantErr: "oracle.backend",
		},
		{
			name: "http oracle without base url",
			mutate: func(c *ServerConfig) {
				c.Oracle.Backend = "http"
				c.Oracle.HTTP.BaseURL = ""
			},
			wantErr: "oracle.http.base_url",
		},
		{
			name: "account without hash",
			mutate: func(c *ServerConfig) {
				c.Oracle.Local.Accounts = []AccountConfig{{Username: "alice"}}
			},
			wantErr: "password_hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Verify(cfg)
			if err == nil {
				t.Fatal("Verify() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyBadgerCreatesDir(t *testing.T) {
	cfg := Default()
	cfg.Slots.Backend = "badger"
	cfg.Slots.Badger.Dir = t.TempDir() + "/nested/slots"

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error: %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Slots.Redis.Password = "hunter2secret"
	cfg.Oracle.HTTP.APIKey = "svc-key-value"
	cfg.Oracle.Local.Accounts = []AccountConfig{
		{Username: "alice", PasswordHash: "$argon2id$v=19$..."},
	}

	sanitized := Sanitize(cfg)

	if sanitized.Slots.Redis.Password == cfg.Slots.Redis.Password {
		t.Error("redis password not masked")
	}
	if sanitized.Oracle.HTTP.APIKey == cfg.Oracle.HTTP.APIKey {
		t.Error("oracle api key not masked")
	}
	if sanitized.Oracle.Local.Accounts[0].PasswordHash != "****" {
		t.Errorf("account hash = %q", sanitized.Oracle.Local.Accounts[0].PasswordHash)
	}

	// The original is untouched.
	if cfg.Slots.Redis.Password != "hunter2secret" {
		t.Error("Sanitize() mutated the original")
	}
	if cfg.Oracle.Local.Accounts[0].PasswordHash != "$argon2id$v=19$..." {
		t.Error("Sanitize() mutated the original accounts")
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret("ab"); got != "****" {
		t.Errorf("maskSecret(short) = %q", got)
	}
	got := maskSecret("longsecretvalue")
	if !strings.HasPrefix(got, "lo") || !strings.HasSuffix(got, "ue") || !strings.Contains(got, "*") {
		t.Errorf("maskSecret(long) = %q", got)
	}
}
