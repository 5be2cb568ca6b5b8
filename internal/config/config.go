// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all logger configuration values.
type Config struct {
	GPS       GPSConfig       `yaml:"gps"`
	Storage   StorageConfig   `yaml:"storage"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Publish   PublishConfig   `yaml:"publish"`
	Indicator IndicatorConfig `yaml:"indicator"`
	Display   DisplayConfig   `yaml:"display"`
}

type GPSConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
	// Replay reads sentences from a recorded NMEA file instead of the port.
	Replay    string        `yaml:"replay"`
	ReplayGap time.Duration `yaml:"replay_gap"` // pause before each replayed line
}

type StorageConfig struct {
	Dir         string `yaml:"dir"`
	Extension   string `yaml:"extension"`
	MaxSequence int    `yaml:"max_sequence"`
}

type SamplingConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type PublishConfig struct {
	Enable         bool          `yaml:"enable"`
	Interval       time.Duration `yaml:"interval"`
	Backend        string        `yaml:"backend"` // "mqtt" or "websocket"
	Broker         string        `yaml:"broker"`
	ClientID       string        `yaml:"client_id"`
	URL            string        `yaml:"url"`
	Event          string        `yaml:"event"`
	TTL            time.Duration `yaml:"ttl"`
	Private        *bool         `yaml:"private"`
	Ack            *bool         `yaml:"ack"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type IndicatorConfig struct {
	Pin string `yaml:"pin"` // GPIO name; empty disables the LED
}

type DisplayConfig struct {
	Enable bool   `yaml:"enable"`
	Bus    string `yaml:"bus"` // I2C bus name; empty selects the default bus
}

const (
	BackendMQTT      = "mqtt"
	BackendWebSocket = "websocket"
)

// Load reads the YAML configuration file, fills defaults and validates it.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML configuration bytes, fills defaults and validates.
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GPS.Port == "" {
		c.GPS.Port = "/dev/serial0"
	}
	if c.GPS.Baud == 0 {
		c.GPS.Baud = 9600
	}
	if c.GPS.ReplayGap == 0 {
		c.GPS.ReplayGap = 500 * time.Millisecond
	}
	if c.Storage.Extension == "" {
		c.Storage.Extension = "csv"
	}
	if c.Storage.MaxSequence == 0 {
		c.Storage.MaxSequence = 99
	}
	if c.Sampling.Interval == 0 {
		c.Sampling.Interval = time.Second
	}

	p := &c.Publish
	if p.Interval == 0 {
		p.Interval = 5 * time.Minute
	}
	if p.Backend == "" {
		p.Backend = BackendMQTT
	}
	if p.ClientID == "" {
		p.ClientID = "gps-drifter"
	}
	if p.Event == "" {
		p.Event = "whereAmI"
	}
	if p.TTL == 0 {
		p.TTL = 60 * time.Second
	}
	if p.Private == nil {
		v := true
		p.Private = &v
	}
	if p.Ack == nil {
		v := true
		p.Ack = &v
	}
	if p.ConnectTimeout == 0 {
		p.ConnectTimeout = 5 * time.Second
	}
}

// validate checks that all required fields are set and in range.
func (c *Config) validate() error {
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required")
	}
	if c.Storage.MaxSequence < 1 || c.Storage.MaxSequence > 99 {
		return fmt.Errorf("storage.max_sequence must be 1-99, got %d", c.Storage.MaxSequence)
	}
	if strings.Contains(c.Storage.Extension, ".") {
		return fmt.Errorf("storage.extension must not contain a dot, got %q", c.Storage.Extension)
	}
	if c.GPS.Replay == "" && c.GPS.Baud < 0 {
		return fmt.Errorf("gps.baud must be positive, got %d", c.GPS.Baud)
	}
	// the scheduler counts whole milliseconds
	if c.Sampling.Interval < time.Millisecond {
		return fmt.Errorf("sampling.interval must be at least 1ms, got %s", c.Sampling.Interval)
	}

	if !c.Publish.Enable {
		return nil
	}
	p := c.Publish
	if p.Interval < time.Millisecond {
		return fmt.Errorf("publish.interval must be at least 1ms, got %s", p.Interval)
	}
	if p.TTL < 0 || p.ConnectTimeout < 0 {
		return fmt.Errorf("publish.ttl and publish.connect_timeout must be positive")
	}
	switch p.Backend {
	case BackendMQTT:
		if p.Broker == "" {
			return fmt.Errorf("publish.broker is required for the mqtt backend")
		}
	case BackendWebSocket:
		if p.URL == "" {
			return fmt.Errorf("publish.url is required for the websocket backend")
		}
	default:
		return fmt.Errorf("unknown publish.backend: %q", p.Backend)
	}
	return nil
}
