package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Sim: SimConfig{
			Channels:        4,
			FramesPerSecond: 25,
			BitErrorRate:    0.001,
			LeadInBits:      48,
			CorruptUWRun:    2,
			CorruptUWEvery:  100,
		},
		Channel: ChannelConfig{
			IdleTimeout: 60,
		},
		HTTP: HTTPConfig{
			Enabled: true,
			Address: "127.0.0.1",
			Port:    9090,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:        "valid configuration",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "zero channels",
			mutate:      func(c *Config) { c.Sim.Channels = 0 },
			expectError: true,
		},
		{
			name:        "bit error rate above 1",
			mutate:      func(c *Config) { c.Sim.BitErrorRate = 1.5 },
			expectError: true,
		},
		{
			name:        "negative lead-in",
			mutate:      func(c *Config) { c.Sim.LeadInBits = -1 },
			expectError: true,
		},
		{
			name:        "corrupt run without period",
			mutate:      func(c *Config) { c.Sim.CorruptUWEvery = 0 },
			expectError: true,
		},
		{
			name:        "negative idle timeout",
			mutate:      func(c *Config) { c.Channel.IdleTimeout = -5 },
			expectError: true,
		},
		{
			name:        "invalid http port",
			mutate:      func(c *Config) { c.HTTP.Port = 70000 },
			expectError: true,
		},
		{
			name:        "http disabled ignores port",
			mutate:      func(c *Config) { c.HTTP.Enabled = false; c.HTTP.Port = 0 },
			expectError: false,
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected validation error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	content := `
sim:
  channels: 2
  frames_per_second: 25
  bit_error_rate: 0.01
  lead_in_bits: 100
channel:
  idle_timeout: 30
http:
  enabled: false
logging:
  level: debug
  format: text
  output: stderr
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Sim.Channels != 2 {
		t.Errorf("Sim.Channels = %d, want 2", cfg.Sim.Channels)
	}
	if cfg.Sim.BitErrorRate != 0.01 {
		t.Errorf("Sim.BitErrorRate = %f, want 0.01", cfg.Sim.BitErrorRate)
	}
	if cfg.Channel.GetIdleTimeoutDuration() != 30*time.Second {
		t.Errorf("IdleTimeout = %v, want 30s", cfg.Channel.GetIdleTimeoutDuration())
	}
	if cfg.Sim.GetFrameInterval() != 40*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 40ms", cfg.Sim.GetFrameInterval())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load of missing file succeeded, want error")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sim: [not a map"), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of invalid yaml succeeded, want error")
	}
}
