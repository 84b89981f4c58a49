// Package writer implements the batch writer for the tick archive.
//
// The writer uses append-only semantics (never update, only insert).
// Prices are stored as NUMERIC literals so the provider's scaled precision
// survives the round trip; timestamps as microseconds since the Unix epoch.
package writer
