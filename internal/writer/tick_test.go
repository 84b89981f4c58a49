package writer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/tickwire/dukas-data/internal/model"
)

// fakeBatchResults replays scripted command tags for each queued insert.
type fakeBatchResults struct {
	tags []pgconn.CommandTag
	err  error
	idx  int
}

func (f *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	tag := f.tags[f.idx]
	f.idx++
	return tag, nil
}

func (f *fakeBatchResults) Query() (pgx.Rows, error) { return nil, nil }
func (f *fakeBatchResults) QueryRow() pgx.Row        { return nil }
func (f *fakeBatchResults) Close() error             { return nil }

// fakeDB records batches and hands out scripted results.
type fakeDB struct {
	mu      sync.Mutex
	lens    []int
	results func(n int) *fakeBatchResults
}

func (f *fakeDB) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lens = append(f.lens, b.Len())
	return f.results(b.Len())
}

func (f *fakeDB) batchLens() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.lens...)
}

func allInserted(n int) *fakeBatchResults {
	tags := make([]pgconn.CommandTag, n)
	for i := range tags {
		tags[i] = pgconn.NewCommandTag("INSERT 0 1")
	}
	return &fakeBatchResults{tags: tags}
}

func sampleTick(offset time.Duration) model.Tick {
	base := time.Date(2020, 3, 12, 13, 0, 0, 0, time.UTC)
	return model.Tick{
		Time:      base.Add(offset),
		Bid:       decimal.RequireFromString("1.11812"),
		Ask:       decimal.RequireFromString("1.11815"),
		BidVolume: 0.75,
		AskVolume: 1.12,
	}
}

func TestTickWriter_Transform(t *testing.T) {
	tick := sampleTick(218 * time.Millisecond)
	row := transform("EURGBP", tick)

	if row.Symbol != "EURGBP" {
		t.Errorf("Symbol = %s, want EURGBP", row.Symbol)
	}
	if row.TickTs != tick.Time.UnixMicro() {
		t.Errorf("TickTs = %d, want %d", row.TickTs, tick.Time.UnixMicro())
	}
	if row.Bid != "1.11812" {
		t.Errorf("Bid = %s, want 1.11812", row.Bid)
	}
	if row.Ask != "1.11815" {
		t.Errorf("Ask = %s, want 1.11815", row.Ask)
	}
	if row.BidVolume != 0.75 {
		t.Errorf("BidVolume = %v, want 0.75", row.BidVolume)
	}
	if row.AskVolume != 1.12 {
		t.Errorf("AskVolume = %v, want 1.12", row.AskVolume)
	}
}

func TestTickWriter_Lifecycle(t *testing.T) {
	cfg := Config{
		BatchSize:     10,
		FlushInterval: 100 * time.Millisecond,
		BufferSize:    10,
	}
	db := &fakeDB{results: allInserted}
	w := NewTickWriter(cfg, db, nil)

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Give goroutines time to start
	time.Sleep(20 * time.Millisecond)

	// Stop should complete without hanging
	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := w.Stop(stopCtx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if lens := db.batchLens(); len(lens) != 0 {
		t.Errorf("batches sent = %v, want none for an empty run", lens)
	}
}

func TestTickWriter_HandleRow_AddsToBatch(t *testing.T) {
	cfg := Config{
		BatchSize:     100, // Large batch so no auto-flush
		FlushInterval: time.Hour,
		BufferSize:    10,
	}
	w := NewTickWriter(cfg, &fakeDB{results: allInserted}, nil)

	w.handleRow(transform("EURGBP", sampleTick(0)))

	w.batchMu.Lock()
	batchLen := len(w.batch)
	w.batchMu.Unlock()

	if batchLen != 1 {
		t.Errorf("batch length = %d, want 1", batchLen)
	}
}

func TestTickWriter_FlushAtBatchSize(t *testing.T) {
	cfg := Config{
		BatchSize:     2,
		FlushInterval: time.Hour,
		BufferSize:    10,
	}
	db := &fakeDB{results: allInserted}
	w := NewTickWriter(cfg, db, nil)

	w.handleRow(transform("EURGBP", sampleTick(0)))
	w.handleRow(transform("EURGBP", sampleTick(time.Second)))

	lens := db.batchLens()
	if len(lens) != 1 || lens[0] != 2 {
		t.Fatalf("batches sent = %v, want [2]", lens)
	}

	stats := w.Stats()
	if stats.Inserts != 2 {
		t.Errorf("Inserts = %d, want 2", stats.Inserts)
	}
	if stats.Flushes != 1 {
		t.Errorf("Flushes = %d, want 1", stats.Flushes)
	}
}

func TestTickWriter_CountsConflicts(t *testing.T) {
	cfg := Config{BatchSize: 3, FlushInterval: time.Hour, BufferSize: 10}
	db := &fakeDB{results: func(n int) *fakeBatchResults {
		return &fakeBatchResults{tags: []pgconn.CommandTag{
			pgconn.NewCommandTag("INSERT 0 1"),
			pgconn.NewCommandTag("INSERT 0 0"),
			pgconn.NewCommandTag("INSERT 0 1"),
		}}
	}}
	w := NewTickWriter(cfg, db, nil)

	for i := 0; i < 3; i++ {
		w.handleRow(transform("EURGBP", sampleTick(time.Duration(i)*time.Second)))
	}

	stats := w.Stats()
	if stats.Inserts != 2 {
		t.Errorf("Inserts = %d, want 2", stats.Inserts)
	}
	if stats.Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1", stats.Conflicts)
	}
}

func TestTickWriter_CountsErrors(t *testing.T) {
	cfg := Config{BatchSize: 1, FlushInterval: time.Hour, BufferSize: 10}
	db := &fakeDB{results: func(n int) *fakeBatchResults {
		return &fakeBatchResults{err: errors.New("connection reset")}
	}}
	w := NewTickWriter(cfg, db, nil)

	w.handleRow(transform("EURGBP", sampleTick(0)))

	stats := w.Stats()
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if stats.Inserts != 0 {
		t.Errorf("Inserts = %d, want 0", stats.Inserts)
	}
}

func TestTickWriter_EnqueueThenStopFlushesAll(t *testing.T) {
	cfg := Config{
		BatchSize:     100,
		FlushInterval: time.Hour, // Only the shutdown flush writes
		BufferSize:    100,
	}
	db := &fakeDB{results: allInserted}
	w := NewTickWriter(cfg, db, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ticks := make([]model.Tick, 5)
	for i := range ticks {
		ticks[i] = sampleTick(time.Duration(i) * time.Second)
	}
	n, err := w.Enqueue(context.Background(), "EURGBP", ticks)
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Enqueue() = %d, want 5", n)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	total := 0
	for _, l := range db.batchLens() {
		total += l
	}
	if total != 5 {
		t.Errorf("rows written = %d, want 5", total)
	}
	if stats := w.Stats(); stats.Inserts != 5 {
		t.Errorf("Inserts = %d, want 5", stats.Inserts)
	}
}

func TestTickWriter_Stats(t *testing.T) {
	w := NewTickWriter(DefaultConfig(), &fakeDB{results: allInserted}, nil)

	stats := w.Stats()

	if stats.Inserts != 0 {
		t.Errorf("initial Inserts = %d, want 0", stats.Inserts)
	}
	if stats.Errors != 0 {
		t.Errorf("initial Errors = %d, want 0", stats.Errors)
	}
}
