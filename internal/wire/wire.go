package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version      byte = 1
	kindValue    byte = 1
	kindNegative byte = 2
)

var (
	ErrCorrupt = errors.New("aside: corrupt entry")
	magic4     = [...]byte{'A', 'S', 'D', 'E'}
)

// Entry is a decoded cache envelope.
type Entry struct {
	// Negative marks a cached "not found" answer; Payload is empty.
	Negative bool
	// FreshUntil is the unix-nano instant after which the entry is stale.
	// The provider may retain the entry longer (stale-while-revalidate, or
	// stores without per-entry TTL); freshness is always checked on read.
	FreshUntil int64
	Payload    []byte
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry layout: magic(4) | ver(1) | kind(1) | freshUntil(i64 be) | vlen(u32 be) | payload(vlen)
func encode(kind byte, freshUntil int64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kind)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], uint64(freshUntil))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// EncodeValue frames an encoded value with its freshness deadline.
func EncodeValue(freshUntil int64, payload []byte) []byte {
	return encode(kindValue, freshUntil, payload)
}

// EncodeNegative frames a not-found marker valid until freshUntil.
func EncodeNegative(freshUntil int64) []byte {
	return encode(kindNegative, freshUntil, nil)
}

// Decode validates the envelope and returns the entry. Any framing defect
// yields ErrCorrupt; callers are expected to delete and treat as a miss.
func Decode(b []byte) (Entry, error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return Entry{}, ErrCorrupt
	}
	kind := b[5]
	if kind != kindValue && kind != kindNegative {
		return Entry{}, ErrCorrupt
	}

	off := 6

	freshUntil := int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen > len(b)-off { // overflow-safe bound check
		return Entry{}, ErrCorrupt
	}
	if kind == kindNegative && vlen != 0 {
		return Entry{}, ErrCorrupt
	}

	return Entry{
		Negative:   kind == kindNegative,
		FreshUntil: freshUntil,
		Payload:    b[off : off+vlen],
	}, nil
}
