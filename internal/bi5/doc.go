// Package bi5 decodes the provider's hourly tick segments.
//
// A segment is an LZMA-compressed (.bi5) sequence of fixed-width 20-byte
// big-endian records:
//
//	offset  size  field
//	0       4     intra-hour offset, milliseconds (uint32)
//	4       4     ask price, raw integer units (uint32)
//	8       4     bid price, raw integer units (uint32)
//	12      4     ask volume (float32)
//	16      4     bid volume (float32)
//
// Raw prices become decimal prices by exact division with the instrument's
// price scale. Decoding is a pure transform: no I/O, records are emitted in
// file order and never re-sorted.
package bi5
