package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/tickwire/dukas-data/internal/bi5"
	"github.com/tickwire/dukas-data/internal/fetch"
	"github.com/tickwire/dukas-data/internal/segment"
)

func main() {
	symbol := flag.String("symbol", "EURUSD", "instrument symbol")
	hourFlag := flag.String("hour", "", "hour to probe (RFC3339, default 48h ago)")
	flag.Parse()

	hour := time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Hour)
	if *hourFlag != "" {
		parsed, err := time.Parse(time.RFC3339, *hourFlag)
		if err != nil {
			log.Fatalf("parse -hour: %v", err)
		}
		hour = parsed.UTC().Truncate(time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Step 1: Resolve the segment address
	fmt.Println("=== Resolving Segment ===")
	addresser := segment.NewAddresser("", nil)
	inst, err := addresser.Instrument(*symbol)
	if err != nil {
		log.Fatalf("lookup instrument: %v", err)
	}
	ref, err := addresser.Resolve(*symbol, hour)
	if err != nil {
		log.Fatalf("resolve segment: %v", err)
	}
	fmt.Printf("Symbol: %s (scale %d, point %s)\n", inst.Symbol, inst.PriceScale, inst.Point)
	fmt.Printf("Hour:   %s\n", ref.Key.Hour.Format(time.RFC3339))
	fmt.Printf("URL:    %s\n", ref.URL)

	// Step 2: Fetch the segment
	fmt.Println("\n=== Fetching ===")
	fetcher := fetch.New(
		fetch.WithTransport(&fetch.HTTPTransport{Client: &http.Client{}}),
	)
	out, err := fetcher.Fetch(ctx, ref.URL)
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}
	if out.Status == fetch.StatusNoData {
		fmt.Println("No data for this hour (quiet market or future hour). Try another -hour.")
		return
	}
	fmt.Printf("Fetched %d compressed bytes\n", len(out.Bytes))

	// Step 3: Decode
	fmt.Println("\n=== Decoding ===")
	ticks, err := bi5.Decode(out.Bytes, ref.Key.Hour, ref.Params)
	if err != nil {
		log.Fatalf("decode failed: %v", err)
	}
	fmt.Printf("Decoded %d ticks\n", len(ticks))

	limit := 5
	if len(ticks) < limit {
		limit = len(ticks)
	}
	for i := 0; i < limit; i++ {
		t := ticks[i]
		fmt.Printf("  %s  bid=%s ask=%s spread=%s bidVol=%.2f askVol=%.2f\n",
			t.Time.Format("15:04:05.000"),
			t.Bid, t.Ask, t.Spread(),
			t.BidVolume, t.AskVolume,
		)
	}
	if len(ticks) > 0 {
		first, last := ticks[0], ticks[len(ticks)-1]
		fmt.Printf("\nSpan: %s .. %s\n",
			first.Time.Format(time.RFC3339), last.Time.Format(time.RFC3339))
	}

	fmt.Println("\n=== Probe complete ===")
}
