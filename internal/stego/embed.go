package stego

import "strings"

// Embed interleaves the frame's symbols into cover, one symbol immediately
// after each successive visible character. When the frame outlasts the cover,
// the cover is emitted again and insertion continues from its start. Visible
// characters are never altered or removed; stray reserved code points already
// present in the cover are dropped so they cannot corrupt extraction.
func Embed(frame Frame, cover string) (string, error) {
	if Capacity(cover) == 0 {
		return "", ErrCoverTextTooShort
	}

	symbols := []rune(string(frame))
	var b strings.Builder
	b.Grow(len(cover) + len(string(frame)))

	i := 0
	for {
		for _, r := range cover {
			if isReserved(r) {
				continue
			}
			b.WriteRune(r)
			if i < len(symbols) {
				b.WriteRune(symbols[i])
				i++
			}
		}
		if i >= len(symbols) {
			return b.String(), nil
		}
	}
}

// Extract scans the artifact left to right, collecting only reserved
// invisible code points and ignoring every other character.
func Extract(artifact string) (Frame, error) {
	var b strings.Builder
	started := false
	for _, r := range artifact {
		if !isReserved(r) {
			continue
		}
		switch r {
		case markStart:
			if !started {
				started = true
				b.WriteRune(markStart)
			}
		case markEnd:
			if started {
				b.WriteRune(markEnd)
				return Frame(b.String()), nil
			}
		default:
			if started {
				b.WriteRune(r)
			}
		}
	}
	if !started {
		return "", ErrNoArtifactFound
	}
	return "", ErrTruncatedArtifact
}

// Capacity reports how many visible characters of cover can host a symbol in
// a single pass. Embedding always succeeds for any capacity of at least one,
// since insertion cycles; a frame of at most Capacity symbols fits without
// repeating the cover.
func Capacity(cover string) int {
	n := 0
	for _, r := range cover {
		if !isReserved(r) {
			n++
		}
	}
	return n
}

// SymbolCount reports how many invisible symbols, markers included, the
// frame carries. Useful for sizing cover requests.
func (f Frame) SymbolCount() int {
	return len([]rune(string(f)))
}
