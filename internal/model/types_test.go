package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTimeRangeValidate(t *testing.T) {
	base := time.Date(2020, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		r       TimeRange
		wantErr bool
	}{
		{"valid", TimeRange{Start: base, End: base.Add(2 * time.Hour)}, false},
		{"equal bounds", TimeRange{Start: base, End: base}, false},
		{"inverted", TimeRange{Start: base, End: base.Add(-time.Hour)}, true},
		{"zero start", TimeRange{End: base}, true},
		{"zero end", TimeRange{Start: base}, true},
		{"both zero", TimeRange{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeRangeDuration(t *testing.T) {
	r := TimeRange{
		Start: time.Date(2020, 6, 1, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2020, 6, 1, 13, 30, 0, 0, time.UTC),
	}
	if got, want := r.Duration(), 3*time.Hour+30*time.Minute; got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}
}

func TestTickSpreadMid(t *testing.T) {
	tick := Tick{
		Time: time.Date(2020, 6, 1, 10, 0, 0, 218e6, time.UTC),
		Bid:  decimal.RequireFromString("1.11812"),
		Ask:  decimal.RequireFromString("1.11815"),
	}

	if got, want := tick.Spread(), decimal.RequireFromString("0.00003"); !got.Equal(want) {
		t.Errorf("Spread() = %s, want %s", got, want)
	}
	if got, want := tick.Mid(), decimal.RequireFromString("1.118135"); !got.Equal(want) {
		t.Errorf("Mid() = %s, want %s", got, want)
	}
}

func TestGapCauseString(t *testing.T) {
	tests := []struct {
		cause GapCause
		want  string
	}{
		{GapNoData, "no_data"},
		{GapFetchFailed, "fetch_failed"},
		{GapDecodeFailed, "decode_failed"},
		{GapCause(42), "gap_cause(42)"},
	}

	for _, tt := range tests {
		if got := tt.cause.String(); got != tt.want {
			t.Errorf("GapCause(%d).String() = %q, want %q", int(tt.cause), got, tt.want)
		}
	}
}

func TestTickSeriesAccessors(t *testing.T) {
	hour := time.Date(2020, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("empty series", func(t *testing.T) {
		var s TickSeries
		if s.Len() != 0 {
			t.Errorf("Len() = %d, want 0", s.Len())
		}
		if _, ok := s.First(); ok {
			t.Error("First() ok = true, want false")
		}
		if _, ok := s.Last(); ok {
			t.Error("Last() ok = true, want false")
		}
		if s.GapHours() != nil {
			t.Errorf("GapHours() = %v, want nil", s.GapHours())
		}
	})

	t.Run("populated series", func(t *testing.T) {
		s := TickSeries{
			Symbol: "EURUSD",
			Ticks: []Tick{
				{Time: hour.Add(218 * time.Millisecond)},
				{Time: hour.Add(980 * time.Millisecond)},
				{Time: hour.Add(2 * time.Second)},
			},
			Gaps: []Gap{
				{Hour: hour.Add(time.Hour), Cause: GapNoData},
				{Hour: hour.Add(2 * time.Hour), Cause: GapFetchFailed, Err: errors.New("boom")},
			},
		}

		if s.Len() != 3 {
			t.Errorf("Len() = %d, want 3", s.Len())
		}

		first, ok := s.First()
		if !ok || !first.Time.Equal(hour.Add(218*time.Millisecond)) {
			t.Errorf("First() = %v, %v; want tick at +218ms, true", first.Time, ok)
		}

		last, ok := s.Last()
		if !ok || !last.Time.Equal(hour.Add(2*time.Second)) {
			t.Errorf("Last() = %v, %v; want tick at +2s, true", last.Time, ok)
		}

		hours := s.GapHours()
		if len(hours) != 2 {
			t.Fatalf("len(GapHours()) = %d, want 2", len(hours))
		}
		if !hours[0].Equal(hour.Add(time.Hour)) {
			t.Errorf("GapHours()[0] = %v, want %v", hours[0], hour.Add(time.Hour))
		}

		failed := s.FailedGaps()
		if len(failed) != 1 {
			t.Fatalf("len(FailedGaps()) = %d, want 1", len(failed))
		}
		if failed[0].Cause != GapFetchFailed {
			t.Errorf("FailedGaps()[0].Cause = %v, want %v", failed[0].Cause, GapFetchFailed)
		}
	})
}

func TestOrderingAnomalyString(t *testing.T) {
	a := OrderingAnomaly{
		Index: 7,
		Prev:  time.Date(2020, 6, 1, 10, 59, 59, 900e6, time.UTC),
		Curr:  time.Date(2020, 6, 1, 10, 59, 59, 100e6, time.UTC),
	}
	got := a.String()
	want := "tick 7 at 2020-06-01T10:59:59.100Z precedes 2020-06-01T10:59:59.900Z"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
