package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Generator.Host != "192.168.1.10" || cfg.Generator.Port != 7 {
		t.Errorf("unexpected generator address %s:%d", cfg.Generator.Host, cfg.Generator.Port)
	}
	if cfg.Generator.ReplyTimeout != 3*time.Second || cfg.Generator.IdleTimeout != 3*time.Second {
		t.Errorf("unexpected timeouts reply=%v idle=%v", cfg.Generator.ReplyTimeout, cfg.Generator.IdleTimeout)
	}
	if cfg.Generator.AckBufferSize != 100 || cfg.Generator.ChunkSize != 500000 {
		t.Errorf("unexpected buffer sizes ack=%d chunk=%d", cfg.Generator.AckBufferSize, cfg.Generator.ChunkSize)
	}
	if cfg.App.Mode != ModeServer {
		t.Errorf("expected server mode, got %s", cfg.App.Mode)
	}
	if cfg.Database.Enabled {
		t.Error("expected database disabled by default")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WAVEGEN_GENERATOR_HOST", "10.0.0.5")
	t.Setenv("WAVEGEN_GENERATOR_IDLE_TIMEOUT", "250ms")
	t.Setenv("WAVEGEN_APP_MODE", ModeScenario)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Generator.Host != "10.0.0.5" {
		t.Errorf("expected host from env, got %s", cfg.Generator.Host)
	}
	if cfg.Generator.IdleTimeout != 250*time.Millisecond {
		t.Errorf("expected idle timeout from env, got %v", cfg.Generator.IdleTimeout)
	}
	if cfg.App.Mode != ModeScenario {
		t.Errorf("expected scenario mode, got %s", cfg.App.Mode)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wavegen.yaml")
	content := `
generator:
  host: 127.0.0.1
  port: 7007
  reply_timeout: 1s
server:
  port: 9090
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Generator.Port != 7007 || cfg.Generator.ReplyTimeout != time.Second {
		t.Errorf("unexpected generator config %+v", cfg.Generator)
	}
	if cfg.GetServerAddr() != "0.0.0.0:9090" {
		t.Errorf("unexpected server addr %s", cfg.GetServerAddr())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected log level %s", cfg.Logging.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"WAVEGEN_GENERATOR_PORT":            "70000",
		"WAVEGEN_GENERATOR_REPLY_TIMEOUT":   "0s",
		"WAVEGEN_GENERATOR_ACK_BUFFER_SIZE": "1",
		"WAVEGEN_APP_MODE":                  "daemon",
		"WAVEGEN_LOGGING_LEVEL":             "verbose",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)

			_, err := Load("")
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), "validation") {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
