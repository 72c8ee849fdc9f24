// Package codec produces the protobuf wire bytes for the messages and transaction envelopes
// submitted to Cosmos chains.
package codec

import "errors"

// Decode errors.
var (
	ErrTruncated = errors.New("codec: truncated input")
	ErrOverflow  = errors.New("codec: varint overflows 64 bits")
)

const maxVarintLen = 10

// Wire types used by the encoder.
const (
	wireVarint = 0
	wireBytes  = 2
)

// AppendVarint appends v as a base-128 varint: seven bits per byte, least significant group
// first, with the continuation bit set on every byte except the last.
func AppendVarint(b []byte, v uint64) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

// VarintLen returns the number of bytes AppendVarint writes for v.
func VarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// DecodeVarint reads a varint from the start of b and returns the value and the bytes consumed.
func DecodeVarint(b []byte) (uint64, int, error) {
	var v uint64
	for i := 0; i < len(b); i++ {
		if i == maxVarintLen {
			return 0, 0, ErrOverflow
		}
		c := b[i]
		if i == maxVarintLen-1 && c > 1 {
			return 0, 0, ErrOverflow
		}
		v |= uint64(c&0x7f) << (7 * uint(i))
		if c < 0x80 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}

func appendTag(b []byte, field int, wireType int) []byte {
	return AppendVarint(b, uint64(field)<<3|uint64(wireType))
}

func appendLengthDelimited(b []byte, field int, value []byte) []byte {
	b = appendTag(b, field, wireBytes)
	b = AppendVarint(b, uint64(len(value)))
	return append(b, value...)
}
