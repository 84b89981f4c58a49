package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Core Types
// -----------------------------------------------------------------------------

// Tick represents one bid/ask price-and-volume observation at a specific
// millisecond.
type Tick struct {
	Time      time.Time       // Observation time (UTC, ms precision)
	Bid       decimal.Decimal // Bid price, scale-corrected
	Ask       decimal.Decimal // Ask price, scale-corrected
	BidVolume float64         // Bid-side volume (provider-native units)
	AskVolume float64         // Ask-side volume (provider-native units)
}

// Spread returns Ask - Bid.
func (t Tick) Spread() decimal.Decimal {
	return t.Ask.Sub(t.Bid)
}

// Mid returns the bid/ask midpoint.
func (t Tick) Mid() decimal.Decimal {
	return t.Bid.Add(t.Ask).Div(decimal.NewFromInt(2))
}

// TimeRange is an inclusive interval of instants. For segment addressing the
// start is floored and the end is ceiled to hour boundaries.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Validate checks that both bounds are set and start does not follow end.
func (r TimeRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("time range: start and end must be set")
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("time range: end %s before start %s",
			r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	return nil
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r TimeRange) String() string {
	return r.Start.UTC().Format(time.RFC3339) + "/" + r.End.UTC().Format(time.RFC3339)
}

// -----------------------------------------------------------------------------
// Gap and Anomaly Types
// -----------------------------------------------------------------------------

// GapCause classifies why an hour in the requested range produced no ticks.
type GapCause int

const (
	// GapNoData: the provider has no recorded activity for the hour. Normal
	// for weekends, holidays, and hours before the instrument's history.
	GapNoData GapCause = iota
	// GapFetchFailed: retrieval failed permanently (retries exhausted or a
	// fatal transport response).
	GapFetchFailed
	// GapDecodeFailed: the segment was retrieved but its bytes could not be
	// decompressed or decoded.
	GapDecodeFailed
)

func (c GapCause) String() string {
	switch c {
	case GapNoData:
		return "no_data"
	case GapFetchFailed:
		return "fetch_failed"
	case GapDecodeFailed:
		return "decode_failed"
	default:
		return fmt.Sprintf("gap_cause(%d)", int(c))
	}
}

// Gap records one hour of the requested range for which no ticks could be
// produced. Callers use Cause to distinguish quiet hours from failures.
type Gap struct {
	Hour  time.Time // Hour start (UTC)
	Cause GapCause
	Err   error // Underlying error for failure causes, nil for GapNoData
}

// OrderingAnomaly flags a timestamp inversion detected in an assembled series.
// Anomalies are warnings attached to an otherwise successful result.
type OrderingAnomaly struct {
	Index int       // Position of the out-of-order tick in the series
	Prev  time.Time // Timestamp at Index-1
	Curr  time.Time // Timestamp at Index (earlier than Prev)
}

func (a OrderingAnomaly) String() string {
	return fmt.Sprintf("tick %d at %s precedes %s", a.Index,
		a.Curr.UTC().Format("2006-01-02T15:04:05.000Z"),
		a.Prev.UTC().Format("2006-01-02T15:04:05.000Z"))
}

// -----------------------------------------------------------------------------
// Series
// -----------------------------------------------------------------------------

// TickSeries is the assembled output of one collection call: all decoded
// ticks for one instrument over one requested range, in non-decreasing
// timestamp order, plus the hours that contributed nothing and any ordering
// warnings found during the merge.
type TickSeries struct {
	Symbol    string
	Range     TimeRange
	Ticks     []Tick
	Gaps      []Gap
	Anomalies []OrderingAnomaly
}

// Len returns the number of ticks in the series.
func (s *TickSeries) Len() int {
	return len(s.Ticks)
}

// First returns the earliest tick, or false for an empty series.
func (s *TickSeries) First() (Tick, bool) {
	if len(s.Ticks) == 0 {
		return Tick{}, false
	}
	return s.Ticks[0], true
}

// Last returns the latest tick, or false for an empty series.
func (s *TickSeries) Last() (Tick, bool) {
	if len(s.Ticks) == 0 {
		return Tick{}, false
	}
	return s.Ticks[len(s.Ticks)-1], true
}

// GapHours returns the hour starts present in the gap set, in series order.
func (s *TickSeries) GapHours() []time.Time {
	if len(s.Gaps) == 0 {
		return nil
	}
	hours := make([]time.Time, len(s.Gaps))
	for i, g := range s.Gaps {
		hours[i] = g.Hour
	}
	return hours
}

// FailedGaps returns only the gaps caused by fetch or decode failures.
func (s *TickSeries) FailedGaps() []Gap {
	var failed []Gap
	for _, g := range s.Gaps {
		if g.Cause != GapNoData {
			failed = append(failed, g)
		}
	}
	return failed
}
