package bi5

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ulikunitz/xz/lzma"

	"github.com/tickwire/dukas-data/internal/model"
)

// RecordSize is the width of one encoded tick record in bytes.
const RecordSize = 20

// Params carries the per-instrument parameters needed to decode a segment.
type Params struct {
	PriceScale int64 // Divisor restoring decimal prices from raw integers
}

// Kind classifies decode failures.
type Kind int

const (
	// KindDecompression: the compressed stream is corrupt or truncated.
	KindDecompression Kind = iota
	// KindMalformed: the decompressed buffer length is not a multiple of
	// RecordSize.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindDecompression:
		return "decompression"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DecodeError reports a segment that could not be decoded. Decode errors are
// never retried; a corrupt segment is corrupt on every attempt.
type DecodeError struct {
	Kind Kind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode segment: %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode decompresses one segment and decodes its records into ticks for the
// hour starting at hourStart. A nil or empty buffer yields no ticks, matching
// the provider's representation of an hour without activity.
func Decode(compressed []byte, hourStart time.Time, p Params) ([]model.Tick, error) {
	if p.PriceScale <= 0 {
		return nil, fmt.Errorf("decode segment: price scale must be positive, got %d", p.PriceScale)
	}
	if len(compressed) == 0 {
		return nil, nil
	}

	raw, err := decompress(compressed)
	if err != nil {
		return nil, &DecodeError{Kind: KindDecompression, Err: err}
	}
	return decodeRecords(raw, hourStart, p)
}

func decompress(compressed []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open lzma stream: %w", err)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read lzma stream: %w", err)
	}
	return raw, nil
}

func decodeRecords(raw []byte, hourStart time.Time, p Params) ([]model.Tick, error) {
	if len(raw)%RecordSize != 0 {
		return nil, &DecodeError{
			Kind: KindMalformed,
			Err:  fmt.Errorf("buffer length %d is not a multiple of %d", len(raw), RecordSize),
		}
	}

	scale := decimal.NewFromInt(p.PriceScale)
	hour := hourStart.UTC()

	ticks := make([]model.Tick, 0, len(raw)/RecordSize)
	for off := 0; off < len(raw); off += RecordSize {
		rec := raw[off : off+RecordSize]

		ms := binary.BigEndian.Uint32(rec[0:4])
		ask := binary.BigEndian.Uint32(rec[4:8])
		bid := binary.BigEndian.Uint32(rec[8:12])
		askVol := math.Float32frombits(binary.BigEndian.Uint32(rec[12:16]))
		bidVol := math.Float32frombits(binary.BigEndian.Uint32(rec[16:20]))

		ticks = append(ticks, model.Tick{
			Time:      hour.Add(time.Duration(ms) * time.Millisecond),
			Ask:       decimal.NewFromInt(int64(ask)).Div(scale),
			Bid:       decimal.NewFromInt(int64(bid)).Div(scale),
			AskVolume: float64(askVol),
			BidVolume: float64(bidVol),
		})
	}
	return ticks, nil
}
