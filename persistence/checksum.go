package persistence

import (
	"fmt"
	"hash/crc32"
)

// CRC32 (IEEE) is used for snapshot integrity: fast, hardware
// accelerated on modern CPUs, and good at detecting storage
// corruption. It is not cryptographically secure and detects
// accidents, not tampering.

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch returns true if err is a checksum mismatch error.
func IsChecksumMismatch(err error) bool {
	_, ok := err.(*ChecksumMismatchError)
	return ok
}

func checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

func verifyChecksum(data []byte, expected uint32) error {
	if actual := checksum(data); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}
