package stego

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("SECRET"),
		{},
		{0x00, 0xff, 0xa5},
		bytes.Repeat([]byte{0x42}, 300),
	}
	for _, payload := range payloads {
		got, err := Decode(Encode(payload))
		if err != nil {
			t.Fatalf("decode failed for %d bytes: %v", len(payload), err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("payload mismatch for %d bytes", len(payload))
		}
	}
}

func TestEncodeFraming(t *testing.T) {
	frame := []rune(string(Encode([]byte{0xE4}))) // 11 10 01 00

	if frame[0] != markStart || frame[len(frame)-1] != markEnd {
		t.Fatal("frame must be delimited by the reserved markers")
	}
	want := []rune{sym11, sym10, sym01, sym00}
	body := frame[1 : len(frame)-1]
	if len(body) != len(want) {
		t.Fatalf("want 4 data symbols, got %d", len(body))
	}
	for i := range want {
		if body[i] != want[i] {
			t.Fatalf("symbol %d: want %U, got %U (bit groups must be MSB first)", i, want[i], body[i])
		}
	}
}

func TestDataEncodingNeverEmitsMarkers(t *testing.T) {
	var all []byte
	for b := 0; b < 256; b++ {
		all = append(all, byte(b))
	}
	body := string(Encode(all))
	body = strings.TrimPrefix(body, string(markStart))
	body = strings.TrimSuffix(body, string(markEnd))
	if strings.ContainsRune(body, markStart) || strings.ContainsRune(body, markEnd) {
		t.Fatal("data encoding must never produce marker symbols")
	}
}

func TestDecodeRejectsPartialByte(t *testing.T) {
	frame := []rune(string(Encode([]byte("AB"))))
	// Drop one data symbol; the remaining count no longer maps onto bytes.
	mangled := append(append([]rune{}, frame[:1]...), frame[2:]...)
	if _, err := Decode(Frame(string(mangled))); !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("want ErrMalformedFrame, got %v", err)
	}
}

func TestDecodeRejectsMissingMarkers(t *testing.T) {
	if _, err := Decode(Frame(string([]rune{sym00, sym01}))); !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("want ErrMalformedFrame, got %v", err)
	}
}
