package persistence

import (
	"errors"
	"fmt"
)

// Snapshot layout (all integers little-endian):
//
//	[0:4]   magic "KMGO"
//	[4:6]   format version
//	[6:7]   compression codec
//	[7:8]   reserved
//	[8:16]  payload length (compressed)
//	[16:n]  payload
//	[n:n+4] CRC32 (IEEE) of the compressed payload
//
// The payload decodes to: k, dim, iterations (uint32 each), inertia
// (float64 bits), then k*dim float32 center values.

// Magic identifies a kmedgo snapshot.
var Magic = [4]byte{'K', 'M', 'G', 'O'}

// Version is the current snapshot format version.
const Version uint16 = 1

// ErrBadMagic is returned when a blob is not a kmedgo snapshot.
var ErrBadMagic = errors.New("not a kmedgo snapshot")

// ErrUnsupportedVersion is returned for snapshots written by a newer
// format version.
type ErrUnsupportedVersion struct {
	Version uint16
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported snapshot version %d (current %d)", e.Version, Version)
}

// Codec selects the snapshot payload compression.
type Codec uint8

const (
	CodecNone Codec = iota
	CodecZstd
	CodecLZ4
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "None"
	case CodecZstd:
		return "Zstd"
	case CodecLZ4:
		return "LZ4"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

func (c Codec) valid() bool {
	return c <= CodecLZ4
}
