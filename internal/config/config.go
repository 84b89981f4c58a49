package config

import "time"

// Config is the root configuration for the tick pipeline.
type Config struct {
	Feed        FeedConfig        `yaml:"feed"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Instruments InstrumentsConfig `yaml:"instruments"`
	Database    DatabaseConfig    `yaml:"database"`
	Writer      WriterConfig      `yaml:"writer"`
	Export      ExportConfig      `yaml:"export"`
}

// FeedConfig holds range collection settings.
type FeedConfig struct {
	Concurrency int  `yaml:"concurrency"`
	FailFast    bool `yaml:"fail_fast"`
}

// FetchConfig holds provider HTTP settings.
type FetchConfig struct {
	BaseURL        string        `yaml:"base_url"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	MaxAttempts    int           `yaml:"max_attempts"`
	BaseDelay      time.Duration `yaml:"base_delay"`
	MaxDelay       time.Duration `yaml:"max_delay"`
}

// InstrumentsConfig points at an optional overlay file that extends or
// overrides the built-in instrument table.
type InstrumentsConfig struct {
	OverlayPath string `yaml:"overlay_path"`
}

// DatabaseConfig holds the tick archive connection. The archive is optional;
// leave it unconfigured to run without persistence.
type DatabaseConfig struct {
	Archive DBConfig `yaml:"archive"`
}

// DBConfig holds a single PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// WriterConfig holds archive batch writer settings.
type WriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// ExportConfig holds file export settings.
type ExportConfig struct {
	Format string `yaml:"format"` // jsonl, csv, or parquet
	OutDir string `yaml:"out_dir"`
}
