package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if _, err := url.ParseRequestURI(c.Scraper.BaseURL); err != nil {
		return fmt.Errorf("scraper.base_url is not a valid URL: %w", err)
	}
	if c.Scraper.MaxRetries < 1 {
		return errors.New("scraper.max_retries must be >= 1")
	}
	if c.Scraper.Timeout <= 0 {
		return errors.New("scraper.timeout must be positive")
	}

	for _, format := range c.Export.Formats {
		if format != "csv" && format != "json" {
			return fmt.Errorf("export.formats contains unsupported format %q", format)
		}
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 1 {
		return fmt.Errorf("%s.min_conns must be >= 1", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
