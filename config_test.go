package quizzo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("Expected defaults, got: %+v", cfg)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
discord_token: from-file
relay_channel: quizzo:relay
prefix: "?"
log_level: debug
`)
	t.Setenv("QUIZZO_DISCORD_TOKEN", "from-env")
	t.Setenv("QUIZZO_MSG_BUFFER_SIZE", "250")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.DiscordToken != "from-env" {
		t.Fatalf("Expected env to override file, got: %q", cfg.DiscordToken)
	}
	if cfg.RelayChannel != "quizzo:relay" || cfg.Prefix != "?" || cfg.LogLevel != "debug" {
		t.Fatalf("Expected file values, got: %+v", cfg)
	}
	if cfg.MsgBufferSize != 250 {
		t.Fatalf("Expected buffer size from env, got: %d", cfg.MsgBufferSize)
	}
	if cfg.ValkeyAddress != "localhost:6379" {
		t.Fatalf("Expected default valkey address to survive, got: %q", cfg.ValkeyAddress)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
	if _, err := LoadConfig(writeConfig(t, "prefix: [unclosed")); err == nil {
		t.Fatal("Expected error for malformed YAML")
	}

	t.Setenv("QUIZZO_MSG_BUFFER_SIZE", "lots")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("Expected error for malformed env value")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error without any transport")
	}

	cfg.RelayChannel = "quizzo:relay"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected valid config, got: %v", err)
	}

	cfg.LogLevel = "loud"
	cfg.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error for bad log settings")
	}
}

func TestConfigNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	logger := cfg.NewLogger()
	if logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("Expected warn level, got: %v", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("Expected JSON formatter, got: %T", logger.Formatter)
	}
}
