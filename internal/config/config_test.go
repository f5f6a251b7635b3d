package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/meridianworks/meridian/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "meridian"
user = "meridian"
password = "meridian"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "inbound"
connection_string = "UseDevelopmentStorage=true"

[inference]
base_url = "http://localhost:11434/v1"
model = "llama3.1:8b"
max_tokens = 4096
timeout = "2m"
analysis_timeout = "5m"

[inbound]
base_path = "/inbound"
secret = "file-secret"
allowed_senders = ["colliers.com", "cityofsaskatoon.ca"]
max_message_size = "25MB"

[api]
base_path = "/api"
`

const overlayConfig = `
[database]
host = "db.internal"

[inbound]
secret = "overlay-secret"
`

func writeConfig(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoadBaseConfig(t *testing.T) {
	chdirTemp(t)
	writeConfig(t, "config.toml", baseConfig)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("database host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Inbound.Secret != "file-secret" {
		t.Errorf("inbound secret: got %s, want file-secret", cfg.Inbound.Secret)
	}
	if len(cfg.Inbound.AllowedSenders) != 2 {
		t.Errorf("allowed senders: got %d, want 2", len(cfg.Inbound.AllowedSenders))
	}
	if got := cfg.ShutdownTimeoutDuration(); got != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", got)
	}
}

func TestLoadAppliesOverlay(t *testing.T) {
	chdirTemp(t)
	writeConfig(t, "config.toml", baseConfig)
	writeConfig(t, "config.staging.toml", overlayConfig)
	t.Setenv(config.EnvMeridianEnv, "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("database host: got %s, want db.internal", cfg.Database.Host)
	}
	if cfg.Inbound.Secret != "overlay-secret" {
		t.Errorf("inbound secret: got %s, want overlay-secret", cfg.Inbound.Secret)
	}
	// fields absent from the overlay keep base values
	if cfg.Database.Name != "meridian" {
		t.Errorf("database name: got %s, want meridian", cfg.Database.Name)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	writeConfig(t, "config.toml", baseConfig)
	t.Setenv("MERIDIAN_DB_HOST", "env-host")
	t.Setenv(config.EnvInboundSecret, "env-secret")
	t.Setenv(config.EnvInboundAllowedSenders, "avisonyoung.com , icrcommercial.com")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Host != "env-host" {
		t.Errorf("database host: got %s, want env-host", cfg.Database.Host)
	}
	if cfg.Inbound.Secret != "env-secret" {
		t.Errorf("inbound secret: got %s, want env-secret", cfg.Inbound.Secret)
	}
	want := []string{"avisonyoung.com", "icrcommercial.com"}
	if len(cfg.Inbound.AllowedSenders) != len(want) {
		t.Fatalf("allowed senders: got %v, want %v", cfg.Inbound.AllowedSenders, want)
	}
	for i, s := range want {
		if cfg.Inbound.AllowedSenders[i] != s {
			t.Errorf("allowed senders[%d]: got %s, want %s", i, cfg.Inbound.AllowedSenders[i], s)
		}
	}
}

func TestLoadMissingInboundSecret(t *testing.T) {
	chdirTemp(t)
	writeConfig(t, "config.toml", strings.Replace(baseConfig, `secret = "file-secret"`, "", 1))

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing inbound secret")
	}
	if !strings.Contains(err.Error(), "inbound") {
		t.Errorf("error %q should mention inbound", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	writeConfig(t, "config.toml", strings.Replace(baseConfig, `base_path = "/inbound"`, "", 1))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Inbound.BasePath != "/inbound" {
		t.Errorf("inbound base path default: got %s, want /inbound", cfg.Inbound.BasePath)
	}
	if cfg.API.Docs.Title != "Meridian API" {
		t.Errorf("docs title default: got %s", cfg.API.Docs.Title)
	}
	if got := cfg.Inbound.MaxMessageSizeBytes(); got != 25*1024*1024 {
		t.Errorf("max message size: got %d, want 25MB", got)
	}
}
