package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL        = "https://datafeed.dukascopy.com/datafeed"
	DefaultAttemptTimeout = 30 * time.Second
	DefaultMaxAttempts    = 4
	DefaultBaseDelay      = 500 * time.Millisecond
	DefaultMaxDelay       = 10 * time.Second
	DefaultConcurrency    = 4
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 10
	DefaultMinConns       = 2
	DefaultBatchSize      = 1000
	DefaultFlushInterval  = 1 * time.Second
	DefaultBufferSize     = 10000
	DefaultExportFormat   = "jsonl"
	DefaultExportDir      = "."
)

func (c *Config) applyDefaults() {
	// Feed defaults
	if c.Feed.Concurrency == 0 {
		c.Feed.Concurrency = DefaultConcurrency
	}

	// Fetch defaults
	if c.Fetch.BaseURL == "" {
		c.Fetch.BaseURL = DefaultBaseURL
	}
	if c.Fetch.AttemptTimeout == 0 {
		c.Fetch.AttemptTimeout = DefaultAttemptTimeout
	}
	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = DefaultMaxAttempts
	}
	if c.Fetch.BaseDelay == 0 {
		c.Fetch.BaseDelay = DefaultBaseDelay
	}
	if c.Fetch.MaxDelay == 0 {
		c.Fetch.MaxDelay = DefaultMaxDelay
	}

	// Database defaults
	applyDBDefaults(&c.Database.Archive)

	// Writer defaults
	if c.Writer.BatchSize == 0 {
		c.Writer.BatchSize = DefaultBatchSize
	}
	if c.Writer.FlushInterval == 0 {
		c.Writer.FlushInterval = DefaultFlushInterval
	}
	if c.Writer.BufferSize == 0 {
		c.Writer.BufferSize = DefaultBufferSize
	}

	// Export defaults
	if c.Export.Format == "" {
		c.Export.Format = DefaultExportFormat
	}
	if c.Export.OutDir == "" {
		c.Export.OutDir = DefaultExportDir
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
