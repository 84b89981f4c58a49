// Package segment maps (instrument, hour) pairs to the provider's remote
// segment locations and decode parameters, and enumerates the hourly keys
// covered by a requested time range.
//
// Everything here is pure computation over the instrument table; resolving a
// segment performs no I/O and is deterministic for identical inputs.
package segment
