package export

import (
	"fmt"
	"strings"

	"github.com/tickwire/dukas-data/internal/model"
)

// Sink writes a collected series to a single file.
type Sink interface {
	Write(series *model.TickSeries, path string) error
	Extension() string
}

// NewSink returns the sink for a format name (jsonl, csv, parquet).
func NewSink(format string) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jsonl":
		return JSONLSink{}, nil
	case "csv":
		return CSVSink{}, nil
	case "parquet":
		return ParquetSink{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// tickRecord is the flat on-disk form of one tick. Prices stay as decimal
// strings so no precision is lost in transit; timestamps are epoch
// milliseconds, the provider's native resolution.
type tickRecord struct {
	Time      int64   `json:"t" parquet:"t"`
	Bid       string  `json:"bid" parquet:"bid"`
	Ask       string  `json:"ask" parquet:"ask"`
	BidVolume float64 `json:"bid_volume" parquet:"bid_volume"`
	AskVolume float64 `json:"ask_volume" parquet:"ask_volume"`
}

func records(series *model.TickSeries) []tickRecord {
	rows := make([]tickRecord, len(series.Ticks))
	for i, t := range series.Ticks {
		rows[i] = tickRecord{
			Time:      t.Time.UnixMilli(),
			Bid:       t.Bid.String(),
			Ask:       t.Ask.String(),
			BidVolume: t.BidVolume,
			AskVolume: t.AskVolume,
		}
	}
	return rows
}

// FileName builds the conventional output name for a series,
// SYMBOL_start_end.ext with hour-resolution stamps.
func FileName(series *model.TickSeries, ext string) string {
	const stamp = "20060102T15"
	return fmt.Sprintf("%s_%s_%s.%s",
		series.Symbol,
		series.Range.Start.UTC().Format(stamp),
		series.Range.End.UTC().Format(stamp),
		ext,
	)
}
