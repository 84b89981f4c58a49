package segment

import (
	"fmt"
	"strings"
	"time"

	"github.com/tickwire/dukas-data/internal/bi5"
	"github.com/tickwire/dukas-data/internal/instrument"
	"github.com/tickwire/dukas-data/internal/model"
)

// DefaultBaseURL is the provider's public datafeed root.
const DefaultBaseURL = "https://datafeed.dukascopy.com/datafeed"

// Key identifies one remote hourly segment.
type Key struct {
	Symbol string    // Instrument symbol, upper case
	Hour   time.Time // Hour start, UTC
}

func (k Key) String() string {
	return k.Symbol + "/" + k.Hour.UTC().Format("2006-01-02T15Z")
}

/// Ref is a resolved segment: the remote URL plus the parameters the decoder
// needs for this instrument.
type Ref struct {
	Key    Key
	URL    string
	Params bi5.Params
}

// Addresser resolves symbols and hours against an instrument table and a
// provider base URL.
type Addresser struct {
	baseURL string
	table   *instrument.Table
}

// NewAddresser creates an Addresser. An empty baseURL selects DefaultBaseURL;
// a nil table selects the built-in instrument table.
func NewAddresser(baseURL string, table *instrument.Table) *Addresser {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if table == nil {
		table = instrument.Builtin()
	}
	return &Addresser{
		baseURL: strings.TrimRight(baseURL, "/"),
		table:   table,
	}
}

// Instrument returns the table entry for symbol.
func (a *Addresser) Instrument(symbol string) (instrument.Instrument, error) {
	return a.table.Lookup(symbol)
}

// Resolve maps (symbol, hour) to the segment's remote location and decode
// parameters. The hour is truncated to its boundary in UTC. Unknown symbols
// return an error wrapping instrument.ErrUnknownInstrument.
func (a *Addresser) Resolve(symbol string, hour time.Time) (Ref, error) {
	inst, err := a.table.Lookup(symbol)
	if err != nil {
		return Ref{}, err
	}

	h := hour.UTC().Truncate(time.Hour)
	return Ref{
		Key:    Key{Symbol: inst.Symbol, Hour: h},
		URL:    a.segmentURL(inst.Symbol, h),
		Params: bi5.Params{PriceScale: inst.PriceScale},
	}, nil
}

// segmentURL builds the provider path for one hour. The provider's month
// component is zero-based: January is "00".
func (a *Addresser) segmentURL(symbol string, hour time.Time) string {
	return fmt.Sprintf("%s/%s/%d/%02d/%02d/%02dh_ticks.bi5",
		a.baseURL, symbol, hour.Year(), int(hour.Month())-1, hour.Day(), hour.Hour())
}

// Hours enumerates the hour starts covered by r, from r.Start floored to its
// hour through r.End ceiled to its hour, inclusive, chronological, UTC.
// An inverted range yields nil.
func Hours(r model.TimeRange) []time.Time {
	start := r.Start.UTC().Truncate(time.Hour)
	end := ceilHour(r.End.UTC())
	if end.Before(start) {
		return nil
	}

	hours := make([]time.Time, 0, int(end.Sub(start)/time.Hour)+1)
	for h := start; !h.After(end); h = h.Add(time.Hour) {
		hours = append(hours, h)
	}
	return hours
}

func ceilHour(t time.Time) time.Time {
	floored := t.Truncate(time.Hour)
	if floored.Equal(t) {
		return floored
	}
	return floored.Add(time.Hour)
}
