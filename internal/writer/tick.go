package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tickwire/dukas-data/internal/model"
)

// batchSender is the slice of the pool interface the writer needs. Satisfied
// by *pgxpool.Pool.
type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// TickWriter consumes decoded ticks and writes them to the ticks table in
// batches. The (symbol, tick_ts) key dedups re-collections, so conflicts are
// counted but not treated as errors.
type TickWriter struct {
	cfg    Config
	logger *slog.Logger

	// Input queue
	input chan tickRow

	// Database
	db batchSender

	// Batching
	batch       []tickRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics Metrics
}

// NewTickWriter creates a new TickWriter.
func NewTickWriter(cfg Config, db batchSender, logger *slog.Logger) *TickWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TickWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan tickRow, cfg.BufferSize),
		batch:  make([]tickRow, 0, cfg.BatchSize),
	}
}

// Start begins consuming ticks and writing to the database.
func (w *TickWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	// Consumer goroutine
	w.wg.Add(1)
	go w.consumeLoop()

	// Flush ticker goroutine
	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("tick writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer, draining anything still queued.
func (w *TickWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping tick writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	// Wait for goroutines
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("tick writer stopped")
	case <-ctx.Done():
		w.logger.Warn("tick writer stop timed out")
	}

	// Drain the queue and flush whatever remains
	w.drain()
	w.flush()

	return nil
}

// Enqueue queues every tick of a series for archival. It blocks while the
// input buffer is full and returns the number of ticks accepted.
func (w *TickWriter) Enqueue(ctx context.Context, symbol string, ticks []model.Tick) (int, error) {
	for i, t := range ticks {
		select {
		case w.input <- transform(symbol, t):
		case <-ctx.Done():
			return i, ctx.Err()
		}
	}
	return len(ticks), nil
}

// Stats returns current metrics.
func (w *TickWriter) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input queue and accumulates batches.
func (w *TickWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case row := <-w.input:
			w.handleRow(row)
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *TickWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// handleRow adds a row to the batch.
func (w *TickWriter) handleRow(row tickRow) {
	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// drain moves everything left in the input queue into the batch.
func (w *TickWriter) drain() {
	for {
		select {
		case row := <-w.input:
			w.batchMu.Lock()
			w.batch = append(w.batch, row)
			w.batchMu.Unlock()
		default:
			return
		}
	}
}

// transform converts a decoded tick to a tickRow.
func transform(symbol string, t model.Tick) tickRow {
	return tickRow{
		Symbol:    symbol,
		TickTs:    t.Time.UnixMicro(),
		Bid:       t.Bid.String(),
		Ask:       t.Ask.String(),
		BidVolume: t.BidVolume,
		AskVolume: t.AskVolume,
	}
}

// flush writes the current batch to the database.
func (w *TickWriter) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]tickRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed ticks",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *TickWriter) batchInsert(rows []tickRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO ticks (symbol, tick_ts, bid, ask, bid_volume, ask_volume)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (symbol, tick_ts) DO NOTHING
		`, r.Symbol, r.TickTs, r.Bid, r.Ask, r.BidVolume, r.AskVolume)
	}

	// Flushes run after consumeLoop's context is canceled, so the insert uses
	// the background context rather than w.ctx.
	results := w.db.SendBatch(context.Background(), batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
