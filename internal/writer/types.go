package writer

import (
	"time"
)

// Config contains configuration for the archive writer.
type Config struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// BufferSize is the capacity of the input queue.
	BufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     1000,
		FlushInterval: 1 * time.Second,
		BufferSize:    10000,
	}
}

// tickRow represents a row to be inserted into the ticks table.
type tickRow struct {
	Symbol    string
	TickTs    int64  // Microseconds
	Bid       string // NUMERIC literal, exact provider precision
	Ask       string
	BidVolume float64
	AskVolume float64
}

// Metrics holds counters for a writer.
type Metrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
}
