package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Duration parses a configured duration string, falling back to def
// when the value is empty or invalid.
func Duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: invalid duration '%s', using default %s\n", s, def)
		return def
	}
	return d
}

// KafkaProducerConfig defines configuration for the queue producer.
// Empty brokers (or topic) select the local/degraded producer: enqueue
// calls succeed locally without external delivery.
type KafkaProducerConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`

	// Reliability settings
	RequiredAcks string `yaml:"required_acks"` // none/one/all

	// Retry policy for transient send failures
	MaxAttempts  int    `yaml:"max_attempts"`
	RetryBackoff string `yaml:"retry_backoff"` // initial backoff, doubled after each failure

	// Performance settings
	WriteTimeout string `yaml:"write_timeout"`
	ReadTimeout  string `yaml:"read_timeout"`
}

// SetDefaults sets reasonable default values for the producer configuration
func (c *KafkaProducerConfig) SetDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryBackoff == "" {
		c.RetryBackoff = "100ms"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "5s"
	}
}

// Configured reports whether a live queue endpoint has been configured.
func (c *KafkaProducerConfig) Configured() bool {
	return len(c.Brokers) > 0 && c.Topic != ""
}

// RateLimitConfig defines the ingestion request rate limit.
// A zero rate disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// HttpServerConfig defines HTTP server configuration
type HttpServerConfig struct {
	ReadTimeout    string `yaml:"read_timeout"`
	WriteTimeout   string `yaml:"write_timeout"`
	IdleTimeout    string `yaml:"idle_timeout"`
	MaxHeaderBytes int    `yaml:"max_header_bytes"`
}

// SetDefaults sets reasonable default values for the HTTP server
func (c *HttpServerConfig) SetDefaults() {
	if c.ReadTimeout == "" {
		c.ReadTimeout = "5s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "10s"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "60s"
	}
	if c.MaxHeaderBytes <= 0 {
		c.MaxHeaderBytes = 1 << 20 // 1 MB
	}
}

// IngestionConfig defines all configuration required by the ingestion
// API service.
type IngestionConfig struct {
	HttpListenAddr string `yaml:"http_listen_addr"`

	KafkaProducer KafkaProducerConfig `yaml:"kafka_producer"`
	HttpServer    HttpServerConfig    `yaml:"http_server"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
}

// LoadIngestionConfig loads ingestion service configuration from the
// specified YAML file path.
func LoadIngestionConfig(path string) (*IngestionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ingestion config file '%s': %w", path, err)
	}

	var cfg IngestionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse ingestion YAML config file: %w", err)
	}

	cfg.KafkaProducer.SetDefaults()
	cfg.HttpServer.SetDefaults()

	if cfg.HttpListenAddr == "" {
		return nil, fmt.Errorf("configuration error: http_listen_addr must be configured")
	}
	if !cfg.KafkaProducer.Configured() {
		fmt.Println("Warning: kafka_producer not configured, ingestion will run in local/degraded mode")
	}

	return &cfg, nil
}
