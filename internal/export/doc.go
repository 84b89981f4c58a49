// Package export writes collected tick series to files.
//
// Three formats are supported: JSONL, CSV, and Parquet. All of them share
// one flat record shape, with prices as exact decimal strings and
// timestamps as epoch milliseconds.
package export
