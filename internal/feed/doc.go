// Package feed orchestrates range collection: it enumerates the hourly
// segments covering a requested time range, dispatches fetch+decode work
// across a bounded worker pool, and merges per-hour results into one
// hour-ordered, gap-aware tick series.
//
// Workers hand results to the collecting goroutine over a channel; nothing
// writes into a shared ordered structure. The merge places results by hour
// index, so the final series is ordered regardless of completion order.
// Hours that produce no ticks are recorded in the series gap set with a
// cause, so callers can tell quiet hours from failures.
package feed
