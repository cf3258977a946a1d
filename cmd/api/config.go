package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkondo/teamlink/internal/outbox"
)

// Config is the file-based part of the API configuration. Database
// settings come from the environment so deployments can inject
// credentials without touching the file.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Outbox struct {
		NotifyChannel    string `yaml:"notify_channel"`
		FallbackInterval string `yaml:"fallback_interval"`
		MaxRetries       int    `yaml:"max_retries"`
		BatchSize        int32  `yaml:"batch_size"`
	} `yaml:"outbox"`
	NATS struct {
		URL           string `yaml:"url"`
		StreamName    string `yaml:"stream_name"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing file means defaults everywhere.
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

func (c *Config) listenerConfig(dsn string) outbox.ListenerConfig {
	cfg := outbox.DefaultListenerConfig()
	cfg.DatabaseURL = dsn
	if c.Outbox.NotifyChannel != "" {
		cfg.NotifyChannel = c.Outbox.NotifyChannel
	}
	if c.Outbox.FallbackInterval != "" {
		if d, err := time.ParseDuration(c.Outbox.FallbackInterval); err == nil {
			cfg.FallbackInterval = d
		}
	}
	if c.Outbox.MaxRetries > 0 {
		cfg.MaxRetries = c.Outbox.MaxRetries
	}
	if c.Outbox.BatchSize > 0 {
		cfg.BatchSize = c.Outbox.BatchSize
	}
	return cfg
}

func (c *Config) jetStreamConfig() outbox.JetStreamConfig {
	cfg := outbox.DefaultJetStreamConfig()
	if url := getEnv("NATS_URL", c.NATS.URL); url != "" {
		cfg.URL = url
	}
	if c.NATS.StreamName != "" {
		cfg.StreamName = c.NATS.StreamName
	}
	if c.NATS.SubjectPrefix != "" {
		cfg.SubjectPrefix = c.NATS.SubjectPrefix
	}
	return cfg
}

func (c *Config) port() string {
	if p := getEnv("PORT", c.Server.Port); p != "" {
		return p
	}
	return "8080"
}
