package feed

import (
	"github.com/tickwire/dukas-data/internal/model"
	"github.com/tickwire/dukas-data/internal/segment"
)

// Stats summarizes a collected series by hour disposition.
type Stats struct {
	Hours     int // Hourly segments covering the requested range
	DataHours int // Hours that produced at least one tick
	NoData    int // Hours without recorded activity
	Failed    int // Hours lost to fetch or decode failures
	Ticks     int
}

// Summarize derives Stats from a collected series.
func Summarize(s *model.TickSeries) Stats {
	st := Stats{
		Hours: len(segment.Hours(s.Range)),
		Ticks: s.Len(),
	}
	for _, g := range s.Gaps {
		if g.Cause == model.GapNoData {
			st.NoData++
		} else {
			st.Failed++
		}
	}
	st.DataHours = st.Hours - st.NoData - st.Failed
	return st
}
