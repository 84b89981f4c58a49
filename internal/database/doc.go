// Package database provides connection pool management for the tick archive.
//
// The archive is a single PostgreSQL database holding the ticks table, keyed
// by (symbol, tick_ts) so that re-collecting a range never duplicates rows.
package database
