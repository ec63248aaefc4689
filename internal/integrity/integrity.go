// Package integrity provides the plaintext checksum carried inside the
// encrypted body. It distinguishes cover-text damage after a successful
// decryption from cryptographic rejection, which the cipher layer reports
// separately.
package integrity

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

const checksumSize = 4

var (
	// ErrChecksumMismatch is returned when the payload checksum disagrees after
	// a successful decryption. The cover text was reformatted, stripped or
	// normalized after embedding.
	ErrChecksumMismatch = errors.New("payload checksum mismatch")

	// ErrTooShort is returned when the sealed payload cannot even hold a checksum.
	ErrTooShort = errors.New("payload shorter than checksum")
)

// Checksum computes the CRC-32 (IEEE polynomial) of data.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// Verify reports whether data matches the expected checksum.
func Verify(data []byte, expected uint32) bool {
	return Checksum(data) == expected
}

// Seal prepends the little-endian checksum to the payload. The result goes
// into the encrypted body, never into the artifact in the clear.
func Seal(payload []byte) []byte {
	out := make([]byte, checksumSize+len(payload))
	binary.LittleEndian.PutUint32(out, Checksum(payload))
	copy(out[checksumSize:], payload)
	return out
}

// Open strips and verifies the checksum added by Seal.
func Open(sealed []byte) ([]byte, error) {
	if len(sealed) < checksumSize {
		return nil, ErrTooShort
	}
	expected := binary.LittleEndian.Uint32(sealed)
	payload := sealed[checksumSize:]
	if !Verify(payload, expected) {
		return nil, ErrChecksumMismatch
	}
	return payload, nil
}
