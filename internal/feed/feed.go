package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tickwire/dukas-data/internal/bi5"
	"github.com/tickwire/dukas-data/internal/fetch"
	"github.com/tickwire/dukas-data/internal/model"
	"github.com/tickwire/dukas-data/internal/segment"
)

// DefaultConcurrency bounds the worker pool when a request does not set its
// own limit. Kept low out of respect for the provider's fair-use tolerance.
const DefaultConcurrency = 4

// Request describes one range collection.
type Request struct {
	Symbol      string          // Instrument symbol, case-insensitive
	Range       model.TimeRange // Inclusive; widened to hour boundaries
	Concurrency int             // Worker pool size, 0 selects DefaultConcurrency
	FailFast    bool            // First failed hour aborts the whole call
}

// Service collects tick ranges from the provider. It is stateless between
// calls and safe for concurrent use.
type Service struct {
	addresser   *segment.Addresser
	fetcher     *fetch.Fetcher
	logger      *slog.Logger
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// New creates a Service with the built-in instrument table, the provider's
// public base URL, and a default fetcher.
func New(opts ...Option) *Service {
	s := &Service{
		addresser:   segment.NewAddresser("", nil),
		fetcher:     fetch.New(),
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithAddresser sets the segment addresser.
func WithAddresser(a *segment.Addresser) Option {
	return func(s *Service) {
		s.addresser = a
	}
}

// WithFetcher sets the segment fetcher.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithConcurrency sets the default worker pool size for requests that do not
// carry their own.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// result is one hour's outcome, handed from a worker to the collector.
// Exactly one result is produced per enumerated hour.
type result struct {
	index int
	ticks []model.Tick
	gap   *model.Gap
	err   error // set only when the call's context ended the unit
}

// Collect retrieves and decodes every hourly segment covering req.Range and
// assembles the hour-ordered series. Unknown symbols and invalid ranges fail
// before any network activity. In fail-fast mode the first failed hour
// cancels outstanding work and the call returns that cause; otherwise failed
// hours become gap entries and the call succeeds.
func (s *Service) Collect(ctx context.Context, req Request) (*model.TickSeries, error) {
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}
	inst, err := s.addresser.Instrument(req.Symbol)
	if err != nil {
		return nil, err
	}

	hours := segment.Hours(req.Range)
	refs := make([]segment.Ref, len(hours))
	for i, h := range hours {
		refs[i], err = s.addresser.Resolve(inst.Symbol, h)
		if err != nil {
			return nil, err
		}
	}

	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = s.concurrency
	}
	if concurrency > len(refs) {
		concurrency = len(refs)
	}

	logger := s.logger.With("collect_id", uuid.New().String(), "symbol", inst.Symbol)
	logger.Info("range collection started",
		"range", req.Range.String(),
		"hours", len(hours),
		"concurrency", concurrency,
		"fail_fast", req.FailFast,
	)
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Chronologically ordered work queue, drained by a fixed pool.
	jobs := make(chan int, len(refs))
	for i := range refs {
		jobs <- i
	}
	close(jobs)

	// Buffered for every result so workers never block on send.
	results := make(chan result, len(refs))

	// In fail-fast mode the worker that hits a failed hour cancels the pool
	// itself, before its result reaches the collector, so no later hour is
	// picked up in the meantime.
	var (
		abortOnce sync.Once
		abortErr  error
	)
	abort := func(err error) {
		abortOnce.Do(func() {
			abortErr = err
			cancel()
		})
	}

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res := s.processHour(ctx, refs[idx], idx)
				if req.FailFast && res.gap != nil && res.gap.Cause != model.GapNoData {
					abort(fmt.Errorf("hour %s: %w", res.gap.Hour.Format(time.RFC3339), res.gap.Err))
				}
				results <- res
			}
		}()
	}

	perHour := make([][]model.Tick, len(refs))
	perGap := make([]*model.Gap, len(refs))
	var firstErr error

	for received := 0; received < len(refs); received++ {
		res := <-results

		switch {
		case res.err != nil:
			if firstErr == nil {
				firstErr = res.err
			}
		case res.gap != nil:
			if res.gap.Cause != model.GapNoData {
				logger.Warn("segment failed",
					"hour", res.gap.Hour.Format(time.RFC3339),
					"cause", res.gap.Cause.String(),
					"error", res.gap.Err,
				)
			}
			perGap[res.index] = res.gap
		default:
			perHour[res.index] = res.ticks
		}
	}
	wg.Wait()

	if abortErr != nil {
		firstErr = abortErr
	}
	if firstErr != nil {
		logger.Error("range collection failed", "error", firstErr, "duration", time.Since(start))
		return nil, firstErr
	}

	series := s.merge(inst.Symbol, req.Range, perHour, perGap)
	for _, a := range series.Anomalies {
		logger.Warn("tick ordering anomaly", "detail", a.String())
	}

	stats := Summarize(series)
	logger.Info("range collection complete",
		"ticks", stats.Ticks,
		"data_hours", stats.DataHours,
		"no_data_hours", stats.NoData,
		"failed_hours", stats.Failed,
		"duration", time.Since(start),
	)
	return series, nil
}

// processHour runs the fetch and decode for one segment. Every path yields a
// result: ticks, a gap with its cause, or the context error.
func (s *Service) processHour(ctx context.Context, ref segment.Ref, index int) result {
	if ctx.Err() != nil {
		return result{index: index, err: ctx.Err()}
	}

	out, err := s.fetcher.Fetch(ctx, ref.URL)
	if err != nil {
		if ctx.Err() != nil {
			return result{index: index, err: ctx.Err()}
		}
		return result{index: index, gap: &model.Gap{
			Hour:  ref.Key.Hour,
			Cause: model.GapFetchFailed,
			Err:   err,
		}}
	}

	if out.Status == fetch.StatusNoData {
		return result{index: index, gap: &model.Gap{Hour: ref.Key.Hour, Cause: model.GapNoData}}
	}

	ticks, err := bi5.Decode(out.Bytes, ref.Key.Hour, ref.Params)
	if err != nil {
		return result{index: index, gap: &model.Gap{
			Hour:  ref.Key.Hour,
			Cause: model.GapDecodeFailed,
			Err:   err,
		}}
	}
	if len(ticks) == 0 {
		return result{index: index, gap: &model.Gap{Hour: ref.Key.Hour, Cause: model.GapNoData}}
	}

	return result{index: index, ticks: ticks}
}

// merge concatenates per-hour results in hour order and scans the seam-crossed
// sequence for timestamp inversions.
func (s *Service) merge(symbol string, r model.TimeRange, perHour [][]model.Tick, perGap []*model.Gap) *model.TickSeries {
	total := 0
	for _, ticks := range perHour {
		total += len(ticks)
	}

	series := &model.TickSeries{
		Symbol: symbol,
		Range:  r,
		Ticks:  make([]model.Tick, 0, total),
	}
	for i, ticks := range perHour {
		series.Ticks = append(series.Ticks, ticks...)
		if gap := perGap[i]; gap != nil {
			series.Gaps = append(series.Gaps, *gap)
		}
	}

	for i := 1; i < len(series.Ticks); i++ {
		if series.Ticks[i].Time.Before(series.Ticks[i-1].Time) {
			series.Anomalies = append(series.Anomalies, model.OrderingAnomaly{
				Index: i,
				Prev:  series.Ticks[i-1].Time,
				Curr:  series.Ticks[i].Time,
			})
		}
	}
	return series
}
