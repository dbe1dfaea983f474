package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL    = "http://www.koeri.boun.edu.tr/scripts/lst4.asp"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36"
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 10
	DefaultMinConns       = 1
	DefaultConnectTimeout = 30 * time.Second
	DefaultOutputDir      = "data"
	DefaultMetricsPort    = 9090
	DefaultMetricsPath    = "/metrics"
)

func (c *Config) applyDefaults() {
	// Scraper defaults
	if c.Scraper.BaseURL == "" {
		c.Scraper.BaseURL = DefaultBaseURL
	}
	if c.Scraper.Timeout == 0 {
		c.Scraper.Timeout = DefaultTimeout
	}
	if c.Scraper.MaxRetries == 0 {
		c.Scraper.MaxRetries = DefaultMaxRetries
	}
	if c.Scraper.RetryDelay == 0 {
		c.Scraper.RetryDelay = DefaultRetryDelay
	}
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = DefaultUserAgent
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = DefaultConnectTimeout
	}

	// Export defaults
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = DefaultOutputDir
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
