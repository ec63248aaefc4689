// Package chaff packs independently encrypted envelopes into one container.
// Entries carry no role tag; which one is the decoy and which the true
// message is decided only by which identity opens which entry, so the
// container itself cannot betray the distinction.
package chaff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Querulantenkind/stegano-cli/internal/cipher"
)

const containerVersion = 1

var (
	// ErrMalformedContainer is returned when container framing cannot be parsed.
	ErrMalformedContainer = errors.New("malformed chaff container")

	// ErrAmbiguousContainer is returned when one identity opens more than one
	// entry. That means misconfigured recipients, and silently picking one
	// entry would mask it.
	ErrAmbiguousContainer = errors.New("identity opens multiple container entries")
)

// Combine packs two envelopes, normally a decoy and a true message, in an
// order drawn fresh from random so position carries no meaning.
func Combine(random io.Reader, a, b *cipher.Envelope) ([]byte, error) {
	var coin [1]byte
	if _, err := io.ReadFull(random, coin[:]); err != nil {
		return nil, fmt.Errorf("draw ordering: %w", err)
	}
	if coin[0]&1 == 1 {
		a, b = b, a
	}
	return pack(a.Marshal(), b.Marshal())
}

// Single packs one envelope. A one-entry container is the non-chaffed
// encoding, so decoding never needs to know which mode produced the bytes.
func Single(env *cipher.Envelope) ([]byte, error) {
	return pack(env.Marshal())
}

func pack(entries ...[]byte) ([]byte, error) {
	if len(entries) == 0 || len(entries) > 255 {
		return nil, fmt.Errorf("%w: %d entries", ErrMalformedContainer, len(entries))
	}
	size := 2
	for _, e := range entries {
		size += 4 + len(e)
	}
	out := make([]byte, 0, size)
	out = append(out, containerVersion, byte(len(entries)))
	for _, e := range entries {
		out = binary.BigEndian.AppendUint32(out, uint32(len(e)))
		out = append(out, e...)
	}
	return out, nil
}

// Split parses the container back into envelopes in encounter order. No role
// judgment is made.
func Split(container []byte) ([]*cipher.Envelope, error) {
	if len(container) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedContainer, len(container))
	}
	if container[0] != containerVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrMalformedContainer, container[0])
	}
	count := int(container[1])
	if count == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrMalformedContainer)
	}

	envelopes := make([]*cipher.Envelope, 0, count)
	rest := container[2:]
	for i := 0; i < count; i++ {
		if len(rest) < 4 {
			return nil, fmt.Errorf("%w: entry %d header", ErrMalformedContainer, i)
		}
		n := int(binary.BigEndian.Uint32(rest))
		rest = rest[4:]
		if len(rest) < n {
			return nil, fmt.Errorf("%w: entry %d needs %d bytes, %d left", ErrMalformedContainer, i, n, len(rest))
		}
		env, err := cipher.ParseEnvelope(rest[:n])
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedContainer, i, err)
		}
		envelopes = append(envelopes, env)
		rest = rest[n:]
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedContainer, len(rest))
	}
	return envelopes, nil
}

// Resolve decrypts the container entry addressed to id. Exactly one entry
// must open; an identity that opens none gets cipher.ErrNoMatchingIdentity,
// unless some entry was addressed to it but failed its tag, in which case the
// stronger cipher.ErrAuthentication surfaces instead.
func Resolve(container []byte, id *cipher.Identity) ([]byte, error) {
	envelopes, err := Split(container)
	if err != nil {
		return nil, err
	}

	var (
		plaintext []byte
		opened    int
		authErr   error
	)
	for _, env := range envelopes {
		p, err := cipher.Decrypt(env, id)
		switch {
		case err == nil:
			opened++
			if plaintext == nil {
				plaintext = p
			}
		case errors.Is(err, cipher.ErrAuthentication):
			authErr = err
		}
	}

	switch {
	case opened > 1:
		return nil, ErrAmbiguousContainer
	case opened == 1:
		return plaintext, nil
	case authErr != nil:
		return nil, authErr
	default:
		return nil, cipher.ErrNoMatchingIdentity
	}
}
