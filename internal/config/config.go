package config

import "time"

// Config is the root configuration for a tracker instance.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	Database DBConfig       `yaml:"database"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Export   ExportConfig   `yaml:"export"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InstanceConfig identifies this tracker.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// DBConfig holds the PostgreSQL connection for the warehouse.
type DBConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Name           string        `yaml:"name"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	SSLMode        string        `yaml:"ssl_mode"`
	MaxConns       int           `yaml:"max_conns"`
	MinConns       int           `yaml:"min_conns"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// ScraperConfig holds KOERI list page fetch settings.
type ScraperConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	UserAgent  string        `yaml:"user_agent"`
}

// ExportConfig holds snapshot file export settings.
// An empty Formats list disables export.
type ExportConfig struct {
	OutputDir string   `yaml:"output_dir"`
	Formats   []string `yaml:"formats"` // "csv", "json"
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
