// Package stego maps byte streams onto invisible Unicode code points and
// interleaves them with visible cover text. Symbol order carries the data;
// which visible characters separate the symbols does not, so artifacts
// survive reflowing and re-indenting as long as the invisible characters stay
// in order.
package stego

import (
	"errors"
	"fmt"
	"strings"
)

// Data alphabet: four invisible code points, one per 2-bit group, plus two
// reserved marker code points never produced by data encoding.
const (
	sym00 = '​' // zero width space
	sym01 = '‌' // zero width non-joiner
	sym10 = '‍' // zero width joiner
	sym11 = '⁠' // word joiner

	markStart = '⁢' // invisible times
	markEnd   = '⁣' // invisible separator
)

var (
	// ErrNoArtifactFound is returned when no start marker is present. The
	// input is not a recognized artifact; when probing unknown text this is an
	// expected outcome, not damage.
	ErrNoArtifactFound = errors.New("no hidden frame found")

	// ErrTruncatedArtifact is returned when a start marker is seen but the end
	// marker never follows.
	ErrTruncatedArtifact = errors.New("hidden frame is truncated")

	// ErrMalformedFrame is returned when a frame's symbol count does not map
	// back onto whole bytes, which means data symbols were lost or injected.
	ErrMalformedFrame = errors.New("hidden frame is malformed")

	// ErrCoverTextTooShort is returned when the cover has no visible character
	// to host the frame.
	ErrCoverTextTooShort = errors.New("cover text has no visible characters")
)

var dataSymbols = [4]rune{sym00, sym01, sym10, sym11}

// Frame is the invisible-character encoding of a byte sequence: a start
// marker, four data symbols per byte (most-significant bits first), and an
// end marker.
type Frame string

// Encode converts data into a framed invisible-symbol sequence.
func Encode(data []byte) Frame {
	var b strings.Builder
	b.Grow((len(data)*4 + 2) * 3) // all symbols are 3 bytes in UTF-8
	b.WriteRune(markStart)
	for _, by := range data {
		for shift := 6; shift >= 0; shift -= 2 {
			b.WriteRune(dataSymbols[(by>>shift)&0x03])
		}
	}
	b.WriteRune(markEnd)
	return Frame(b.String())
}

// Decode is the inverse of Encode.
func Decode(frame Frame) ([]byte, error) {
	runes := []rune(string(frame))
	if len(runes) < 2 || runes[0] != markStart || runes[len(runes)-1] != markEnd {
		return nil, fmt.Errorf("%w: missing frame markers", ErrMalformedFrame)
	}
	body := runes[1 : len(runes)-1]
	if len(body)%4 != 0 {
		return nil, fmt.Errorf("%w: %d data symbols", ErrMalformedFrame, len(body))
	}

	data := make([]byte, 0, len(body)/4)
	var cur byte
	for i, r := range body {
		group, err := symbolValue(r)
		if err != nil {
			return nil, err
		}
		cur = cur<<2 | group
		if i%4 == 3 {
			data = append(data, cur)
			cur = 0
		}
	}
	return data, nil
}

func symbolValue(r rune) (byte, error) {
	for v, sym := range dataSymbols {
		if r == sym {
			return byte(v), nil
		}
	}
	return 0, fmt.Errorf("%w: unexpected symbol %U", ErrMalformedFrame, r)
}

func isReserved(r rune) bool {
	switch r {
	case sym00, sym01, sym10, sym11, markStart, markEnd:
		return true
	}
	return false
}
