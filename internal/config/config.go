package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	Sim     SimConfig     `yaml:"sim"`
	Channel ChannelConfig `yaml:"channel"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// SimConfig contains channel simulator parameters
type SimConfig struct {
	Channels        int     `yaml:"channels"`           // simulated receive channels
	FramesPerSecond int     `yaml:"frames_per_second"`  // per channel
	BitErrorRate    float64 `yaml:"bit_error_rate"`     // probability per bit
	LeadInBits      int     `yaml:"lead_in_bits"`       // garbage bits before the first frame
	CorruptUWRun    int     `yaml:"corrupt_uw_run"`     // frames per corrupted-UW burst, 0 disables
	CorruptUWEvery  int     `yaml:"corrupt_uw_every"`   // frames between bursts, 0 disables
	Seed            int64   `yaml:"seed"`               // 0 seeds from the clock
}

// ChannelConfig contains channel session management configuration
type ChannelConfig struct {
	IdleTimeout int `yaml:"idle_timeout"` // seconds, 0 disables reaping
}

// HTTPConfig contains the observability HTTP server configuration
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs validation of the whole configuration
func (c *Config) Validate() error {
	if err := c.Sim.Validate(); err != nil {
		return fmt.Errorf("sim config: %w", err)
	}

	if err := c.Channel.Validate(); err != nil {
		return fmt.Errorf("channel config: %w", err)
	}

	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates simulator configuration
func (s *SimConfig) Validate() error {
	if s.Channels < 1 {
		return fmt.Errorf("channels must be at least 1, got %d", s.Channels)
	}

	if s.FramesPerSecond < 1 {
		return fmt.Errorf("frames_per_second must be at least 1, got %d", s.FramesPerSecond)
	}

	if s.BitErrorRate < 0 || s.BitErrorRate > 1 {
		return fmt.Errorf("bit_error_rate must be between 0 and 1, got %f", s.BitErrorRate)
	}

	if s.LeadInBits < 0 {
		return fmt.Errorf("lead_in_bits cannot be negative, got %d", s.LeadInBits)
	}

	if s.CorruptUWRun < 0 {
		return fmt.Errorf("corrupt_uw_run cannot be negative, got %d", s.CorruptUWRun)
	}

	if s.CorruptUWEvery < 0 {
		return fmt.Errorf("corrupt_uw_every cannot be negative, got %d", s.CorruptUWEvery)
	}

	if s.CorruptUWRun > 0 && s.CorruptUWEvery == 0 {
		return fmt.Errorf("corrupt_uw_every must be set when corrupt_uw_run is set")
	}

	return nil
}

// Validate validates channel management configuration
func (c *ChannelConfig) Validate() error {
	if c.IdleTimeout < 0 {
		return fmt.Errorf("idle_timeout cannot be negative, got %d", c.IdleTimeout)
	}
	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("http port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("http address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetIdleTimeoutDuration returns the channel idle timeout as a time.Duration
func (c *ChannelConfig) GetIdleTimeoutDuration() time.Duration {
	return time.Duration(c.IdleTimeout) * time.Second
}

// GetFrameInterval returns the per-channel frame period as a time.Duration
func (s *SimConfig) GetFrameInterval() time.Duration {
	return time.Second / time.Duration(s.FramesPerSecond)
}
