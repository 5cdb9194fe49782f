package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, ".config.yaml")

	configContent := `
server:
  ip: "127.0.0.1"
  port: 8001
log:
  log_level: "DEBUG"
  log_dir: "/tmp/logs"
  log_file: "test.log"
audio:
  silence_window: 600ms
  listen_timeout: 10s
nlp:
  confidence_threshold: 0.5
`

	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := NewLoader().WithDotEnv(false).WithPath(configFile).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.IP != "127.0.0.1" {
		t.Errorf("expected server IP 127.0.0.1, got %s", cfg.Server.IP)
	}
	if cfg.Server.Port != 8001 {
		t.Errorf("expected server port 8001, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("expected log level DEBUG, got %s", cfg.Log.Level)
	}
	if cfg.Audio.SilenceWindow != 600*time.Millisecond {
		t.Errorf("expected 600ms silence window, got %v", cfg.Audio.SilenceWindow)
	}
	if cfg.NLP.ConfidenceThreshold != 0.5 {
		t.Errorf("expected threshold 0.5, got %f", cfg.NLP.ConfidenceThreshold)
	}
	// Untouched sections keep their defaults.
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("expected default sample rate, got %d", cfg.Audio.SampleRate)
	}
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader().WithDotEnv(false).WithPath(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Audio.EnergyThreshold != 500 {
		t.Errorf("expected default energy threshold, got %f", cfg.Audio.EnergyThreshold)
	}
	if cfg.Skills.Weather.DefaultCity == "" {
		t.Error("expected default weather city")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(*Config) {}, wantErr: false},
		{name: "bad server port", mutate: func(c *Config) { c.Server.Port = -1 }, wantErr: true},
		{name: "bad sample rate", mutate: func(c *Config) { c.Audio.SampleRate = 0 }, wantErr: true},
		{name: "zero listen timeout", mutate: func(c *Config) { c.Audio.ListenTimeout = 0 }, wantErr: true},
		{name: "threshold above one", mutate: func(c *Config) { c.NLP.ConfidenceThreshold = 1.2 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFrameDuration(t *testing.T) {
	cfg := AudioConfig{SampleRate: 16000, FrameSize: 512}
	if got := cfg.FrameDuration(); got != 32*time.Millisecond {
		t.Errorf("expected 32ms frame duration, got %v", got)
	}
}
