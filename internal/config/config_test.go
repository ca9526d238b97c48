package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "STATIC_DIR", "API_KEY",
		"CREDENTIALS_PATH", "DB_DRIVER", "DB_DSN", "SQLITE_PATH",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
		"DB_LOG_SQL", "MQTT_ENABLED", "MQTT_BROKER", "MQTT_PORT",
		"MQTT_CLIENT_ID", "MQTT_TOPIC",
	} {
		t.Setenv(name, "")
		if err := os.Unsetenv(name); err != nil {
			t.Fatalf("unset %s: %v", name, err)
		}
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "k")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want dev", cfg.AppEnv)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.SQLiteDriver != "sqlite3" {
		t.Errorf("SQLiteDriver = %q, want sqlite3", cfg.SQLiteDriver)
	}
	if cfg.SQLiteMaxOpenConns != 1 {
		t.Errorf("SQLiteMaxOpenConns = %d, want 1", cfg.SQLiteMaxOpenConns)
	}
	if !cfg.MQTTEnabled {
		t.Error("MQTTEnabled = false, want true by default")
	}
	if cfg.MQTTPort != 1883 {
		t.Errorf("MQTTPort = %d, want 1883", cfg.MQTTPort)
	}
	if cfg.MQTTTopic != "enviro/readings" {
		t.Errorf("MQTTTopic = %q", cfg.MQTTTopic)
	}
	if cfg.APIKey != "k" {
		t.Errorf("APIKey = %q, want k", cfg.APIKey)
	}
}

func TestLoadFromEnv_InvalidAppEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "k")
	t.Setenv("APP_ENV", "staging")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for invalid APP_ENV")
	}
}

func TestLoadFromEnv_InvalidLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "k")
	t.Setenv("LOG_LEVEL", "loud")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for invalid LOG_LEVEL")
	}
}

func TestLoadFromEnv_APIKeyFromCredentialsFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	credPath := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(credPath, []byte(`{"api_key": "from-file"}`), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	t.Setenv("CREDENTIALS_PATH", credPath)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.APIKey != "from-file" {
		t.Errorf("APIKey = %q, want from-file", cfg.APIKey)
	}
}

func TestLoadFromEnv_EnvKeyWinsOverFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	credPath := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(credPath, []byte(`{"api_key": "from-file"}`), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	t.Setenv("CREDENTIALS_PATH", credPath)
	t.Setenv("API_KEY", "from-env")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", cfg.APIKey)
	}
}

func TestLoadFromEnv_MissingKeyFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("CREDENTIALS_PATH", filepath.Join(t.TempDir(), "nope.json"))

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error when no API key is available")
	}
}

func TestLoadFromEnv_MQTTDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "k")
	t.Setenv("MQTT_ENABLED", "false")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.MQTTEnabled {
		t.Error("MQTTEnabled = true, want false")
	}
}
