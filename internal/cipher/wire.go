package cipher

import "fmt"

// Wire layout, all fields fixed-size except the body:
//
//	version (1) | stanza count (1) | stanzas (count * 80) | nonce (12) | body
//
// A stanza is the 32-byte ephemeral point followed by the 48-byte wrapped
// file key. The header is everything before the body and doubles as the AAD
// for the body seal.

func (e *Envelope) headerBytes() []byte {
	buf := make([]byte, 0, 2+len(e.Stanzas)*stanzaSize+bodyNonceSize)
	buf = append(buf, e.Version, byte(len(e.Stanzas)))
	for _, st := range e.Stanzas {
		buf = append(buf, st.Ephemeral...)
		buf = append(buf, st.WrappedKey...)
	}
	buf = append(buf, e.Nonce...)
	return buf
}

// Marshal serializes the envelope.
func (e *Envelope) Marshal() []byte {
	return append(e.headerBytes(), e.Body...)
}

// ParseEnvelope deserializes an envelope, checking structural bounds. The
// ciphertext itself is only validated later, at decryption.
func ParseEnvelope(data []byte) (*Envelope, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedEnvelope, len(data))
	}
	if data[0] != envelopeVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrMalformedEnvelope, data[0])
	}
	count := int(data[1])
	if count == 0 {
		return nil, fmt.Errorf("%w: no stanzas", ErrMalformedEnvelope)
	}

	need := 2 + count*stanzaSize + bodyNonceSize
	if len(data) < need {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedEnvelope, len(data), need)
	}

	env := &Envelope{Version: data[0]}
	off := 2
	for i := 0; i < count; i++ {
		env.Stanzas = append(env.Stanzas, Stanza{
			Ephemeral:  append([]byte(nil), data[off:off+keySize]...),
			WrappedKey: append([]byte(nil), data[off+keySize:off+stanzaSize]...),
		})
		off += stanzaSize
	}
	env.Nonce = append([]byte(nil), data[off:off+bodyNonceSize]...)
	off += bodyNonceSize
	env.Body = append([]byte(nil), data[off:]...)
	return env, nil
}
