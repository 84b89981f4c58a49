package export

import (
	"encoding/json"
	"os"

	"github.com/tickwire/dukas-data/internal/model"
)

// JSONLSink writes one JSON object per line.
type JSONLSink struct{}

func (JSONLSink) Extension() string { return "jsonl" }

func (JSONLSink) Write(series *model.TickSeries, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, row := range records(series) {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
