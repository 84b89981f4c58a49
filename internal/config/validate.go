package config

import (
	"errors"
	"fmt"
)

var exportFormats = map[string]bool{
	"jsonl":   true,
	"csv":     true,
	"parquet": true,
}

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Feed.Concurrency < 1 {
		return errors.New("feed.concurrency must be >= 1")
	}

	if c.Fetch.BaseURL == "" {
		return errors.New("fetch.base_url is required")
	}
	if c.Fetch.MaxAttempts < 1 {
		return errors.New("fetch.max_attempts must be >= 1")
	}
	if c.Fetch.BaseDelay <= 0 {
		return errors.New("fetch.base_delay must be positive")
	}
	if c.Fetch.MaxDelay < c.Fetch.BaseDelay {
		return fmt.Errorf("fetch.max_delay (%v) cannot be less than base_delay (%v)", c.Fetch.MaxDelay, c.Fetch.BaseDelay)
	}

	if c.Database.Archive.configured() {
		if err := c.Database.Archive.validate("database.archive"); err != nil {
			return err
		}
	}

	if c.Writer.BatchSize < 1 {
		return errors.New("writer.batch_size must be >= 1")
	}
	if c.Writer.BufferSize < 1 {
		return errors.New("writer.buffer_size must be >= 1")
	}

	if !exportFormats[c.Export.Format] {
		return fmt.Errorf("export.format must be jsonl, csv, or parquet, got %q", c.Export.Format)
	}

	return nil
}

// configured reports whether any identifying field was set. A completely
// empty archive section disables persistence rather than failing validation.
func (db *DBConfig) configured() bool {
	return db.Host != "" || db.Name != "" || db.User != ""
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
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
