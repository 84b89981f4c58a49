package instrument

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownInstrument is returned by Lookup for symbols absent from the table.
var ErrUnknownInstrument = errors.New("unknown instrument")

// Instrument describes one tradeable symbol's provider encoding.
type Instrument struct {
	Symbol     string          // Provider symbol, upper case (e.g. "EURGBP")
	PriceScale int64           // Divisor converting raw integer prices to decimal
	Point      decimal.Decimal // Decimal value of one raw integer step (1/PriceScale)
}

// Table is an immutable symbol lookup table.
type Table struct {
	instruments map[string]Instrument
}

// New builds a table from the given instruments. Symbols are normalized to
// upper case; a later entry for the same symbol replaces an earlier one.
// Entries with an empty symbol or non-positive price scale are rejected.
func New(instruments []Instrument) (*Table, error) {
	t := &Table{instruments: make(map[string]Instrument, len(instruments))}
	for _, inst := range instruments {
		sym := strings.ToUpper(strings.TrimSpace(inst.Symbol))
		if sym == "" {
			return nil, fmt.Errorf("instrument table: empty symbol")
		}
		if inst.PriceScale <= 0 {
			return nil, fmt.Errorf("instrument table: %s: price scale must be positive, got %d", sym, inst.PriceScale)
		}
		inst.Symbol = sym
		if inst.Point.IsZero() {
			inst.Point = pointFor(inst.PriceScale)
		}
		t.instruments[sym] = inst
	}
	return t, nil
}

// Lookup returns the instrument for symbol (case-insensitive). Unknown
// symbols return an error wrapping ErrUnknownInstrument.
func (t *Table) Lookup(symbol string) (Instrument, error) {
	inst, ok := t.instruments[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, symbol)
	}
	return inst, nil
}

// Symbols returns all symbols in the table, sorted.
func (t *Table) Symbols() []string {
	syms := make([]string, 0, len(t.instruments))
	for sym := range t.instruments {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}

// Len returns the number of instruments in the table.
func (t *Table) Len() int {
	return len(t.instruments)
}

func pointFor(scale int64) decimal.Decimal {
	return decimal.New(1, 0).Div(decimal.NewFromInt(scale))
}

// Builtin returns the default table. FX pairs quoted in JPY and the spot
// metals use a scale of 1_000; everything else uses 100_000.
func Builtin() *Table {
	return builtin
}

var builtin = mustTable([]Instrument{
	// Majors
	entry("EURUSD", 100000),
	entry("GBPUSD", 100000),
	entry("USDJPY", 1000),
	entry("USDCHF", 100000),
	entry("AUDUSD", 100000),
	entry("USDCAD", 100000),
	entry("NZDUSD", 100000),

	// Crosses
	entry("EURGBP", 100000),
	entry("EURJPY", 1000),
	entry("EURCHF", 100000),
	entry("EURAUD", 100000),
	entry("EURCAD", 100000),
	entry("EURNZD", 100000),
	entry("GBPJPY", 1000),
	entry("GBPCHF", 100000),
	entry("GBPAUD", 100000),
	entry("GBPCAD", 100000),
	entry("AUDJPY", 1000),
	entry("AUDNZD", 100000),
	entry("AUDCAD", 100000),
	entry("CADJPY", 1000),
	entry("CHFJPY", 1000),
	entry("NZDJPY", 1000),

	// Spot metals
	entry("XAUUSD", 1000),
	entry("XAGUSD", 1000),
})

func entry(symbol string, scale int64) Instrument {
	return Instrument{Symbol: symbol, PriceScale: scale}
}

func mustTable(instruments []Instrument) *Table {
	t, err := New(instruments)
	if err != nil {
		panic(err)
	}
	return t
}
