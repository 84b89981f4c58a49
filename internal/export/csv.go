package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/tickwire/dukas-data/internal/model"
)

// CSVSink writes a header row plus one row per tick.
type CSVSink struct{}

func (CSVSink) Extension() string { return "csv" }

func (CSVSink) Write(series *model.TickSeries, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"time", "bid", "ask", "bid_volume", "ask_volume"}); err != nil {
		return err
	}
	for _, row := range records(series) {
		if err := w.Write([]string{
			strconv.FormatInt(row.Time, 10),
			row.Bid,
			row.Ask,
			floatStr(row.BidVolume),
			floatStr(row.AskVolume),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
