// Package model defines shared data types used across the tick data pipeline.
//
// Conventions:
//   - Timestamps: time.Time in UTC, millisecond precision
//   - Prices: decimal.Decimal, already divided by the instrument's price scale
//   - Volumes: float64 in provider-native units (millions of base currency for FX)
package model
