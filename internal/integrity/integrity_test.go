package integrity

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("RENDEZVOUS AT DAWN"),
		{},
		{0x00},
		bytes.Repeat([]byte{0xff}, 1024),
	}
	for _, payload := range payloads {
		got, err := Open(Seal(payload))
		if err != nil {
			t.Fatalf("open failed for %d-byte payload: %v", len(payload), err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("payload mismatch for %d bytes", len(payload))
		}
	}
}

func TestOpenDetectsCorruption(t *testing.T) {
	sealed := Seal([]byte("fragile"))
	for i := range sealed {
		corrupted := append([]byte(nil), sealed...)
		corrupted[i] ^= 0x80
		if _, err := Open(corrupted); !errors.Is(err, ErrChecksumMismatch) {
			t.Fatalf("flip at byte %d: want ErrChecksumMismatch, got %v", i, err)
		}
	}
}

func TestOpenTooShort(t *testing.T) {
	for _, sealed := range [][]byte{nil, {0x01}, {0x01, 0x02, 0x03}} {
		if _, err := Open(sealed); !errors.Is(err, ErrTooShort) {
			t.Fatalf("want ErrTooShort for %d bytes, got %v", len(sealed), err)
		}
	}
}

func TestVerify(t *testing.T) {
	data := []byte("known input")
	if !Verify(data, Checksum(data)) {
		t.Fatal("checksum should verify against itself")
	}
	if Verify(data, Checksum(data)+1) {
		t.Fatal("wrong checksum should not verify")
	}
}
