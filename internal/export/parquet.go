package export

import (
	"github.com/parquet-go/parquet-go"

	"github.com/tickwire/dukas-data/internal/model"
)

// ParquetSink writes the series as a Parquet file.
type ParquetSink struct{}

func (ParquetSink) Extension() string { return "parquet" }

func (ParquetSink) Write(series *model.TickSeries, path string) error {
	return parquet.WriteFile(path, records(series))
}
