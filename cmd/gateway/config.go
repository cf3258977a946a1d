package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkondo/teamlink/internal/gateway"
)

// Config is the gateway's file-based configuration. Every field has a
// working default so the file is optional.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	NATS struct {
		URL           string `yaml:"url"`
		StreamName    string `yaml:"stream_name"`
		ConsumerName  string `yaml:"consumer_name"`
		SubjectFilter string `yaml:"subject_filter"`
		MaxDeliver    int    `yaml:"max_deliver"`
		AckWait       string `yaml:"ack_wait"`
		MaxAckPending int    `yaml:"max_ack_pending"`
	} `yaml:"nats"`
	WebSocket struct {
		WriteTimeout   string `yaml:"write_timeout"`
		ReadTimeout    string `yaml:"read_timeout"`
		PingInterval   string `yaml:"ping_interval"`
		MaxMessageSize int64  `yaml:"max_message_size"`
	} `yaml:"websocket"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

func (c *Config) port() string {
	if p := getEnv("GATEWAY_PORT", c.Server.Port); p != "" {
		return p
	}
	return "8081"
}

func (c *Config) gatewayConfig() gateway.Config {
	cfg := gateway.DefaultConfig()

	if url := getEnv("NATS_URL", c.NATS.URL); url != "" {
		cfg.JetStreamConfig.URL = url
	}
	if c.NATS.StreamName != "" {
		cfg.JetStreamConfig.StreamName = c.NATS.StreamName
	}
	if c.NATS.ConsumerName != "" {
		cfg.JetStreamConfig.ConsumerName = c.NATS.ConsumerName
	}
	if c.NATS.SubjectFilter != "" {
		cfg.JetStreamConfig.SubjectFilter = c.NATS.SubjectFilter
	}
	if c.NATS.MaxDeliver > 0 {
		cfg.JetStreamConfig.MaxDeliver = c.NATS.MaxDeliver
	}
	if c.NATS.MaxAckPending > 0 {
		cfg.JetStreamConfig.MaxAckPending = c.NATS.MaxAckPending
	}
	if d, ok := parseDuration(c.NATS.AckWait); ok {
		cfg.JetStreamConfig.AckWait = d
	}

	if d, ok := parseDuration(c.WebSocket.WriteTimeout); ok {
		cfg.ConnectionConfig.WriteTimeout = d
	}
	if d, ok := parseDuration(c.WebSocket.ReadTimeout); ok {
		cfg.ConnectionConfig.ReadTimeout = d
	}
	if d, ok := parseDuration(c.WebSocket.PingInterval); ok {
		cfg.ConnectionConfig.PingInterval = d
	}
	if c.WebSocket.MaxMessageSize > 0 {
		cfg.ConnectionConfig.MaxMessageSize = c.WebSocket.MaxMessageSize
	}

	return cfg
}

func parseDuration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}
