package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Server struct {
		Address string `koanf:"address"`
	} `koanf:"server"`
	Session struct {
		TTL string `koanf:"ttl"`
	} `koanf:"session"`
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewgate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  address: 127.0.0.1:9090\nsession:\n  ttl: 1h\n")

	var cfg testConfig
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Address != "127.0.0.1:9090" {
		t.Errorf("address = %q", cfg.Server.Address)
	}
	if cfg.Session.TTL != "1h" {
		t.Errorf("ttl = %q", cfg.Session.TTL)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  address: 127.0.0.1:9090\n")
	t.Setenv("VIEWGATE_SERVER_ADDRESS", "0.0.0.0:8080")

	var cfg testConfig
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Address != "0.0.0.0:8080" {
		t.Errorf("address = %q, want env override", cfg.Server.Address)
	}
}

func TestCustomEnvPrefix(t *testing.T) {
	t.Setenv("VG_SERVER_ADDRESS", "10.0.0.1:80")

	var cfg testConfig
	l := NewLoader(WithEnvPrefix("VG_"))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Address != "10.0.0.1:80" {
		t.Errorf("address = %q", cfg.Server.Address)
	}
}

func TestLoadMapOverridesAll(t *testing.T) {
	path := writeConfigFile(t, "server:\n  address: 127.0.0.1:9090\n")

	var cfg testConfig
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Flag overrides land last.
	if err := l.LoadMap(map[string]any{"server.address": "flag:1234"}); err != nil {
		t.Fatalf("LoadMap() error: %v", err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if cfg.Server.Address != "flag:1234" {
		t.Errorf("address = %q, want flag override", cfg.Server.Address)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithConfigFile("/nonexistent/viewgate.yaml"))
	if err := l.Load(&cfg); err == nil {
		t.Error("Load() with missing file succeeded")
	}
}

func TestGetters(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"log.level": "debug"}); err != nil {
		t.Fatalf("LoadMap() error: %v", err)
	}

	if got := l.GetString("log.level"); got != "debug" {
		t.Errorf("GetString() = %q", got)
	}
	if got := l.Get("log.level"); got != "debug" {
		t.Errorf("Get() = %v", got)
	}
	if _, ok := l.All()["log.level"]; !ok {
		t.Error("All() missing key")
	}
}

func TestLoadMapNestedForm(t *testing.T) {
	var cfg testConfig
	l := NewLoader()
	if err := l.LoadMap(map[string]any{
		"server": map[string]any{"address": "nested:5678"},
	}); err != nil {
		t.Fatalf("LoadMap() error: %v", err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if cfg.Server.Address != "nested:5678" {
		t.Errorf("address = %q", cfg.Server.Address)
	}
}
