package cipher

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

const (
	envelopeVersion = 1

	hkdfInfoWrap = "stegano/envelope/wrap/v1"

	fileKeySize    = chacha20poly1305.KeySize
	wrappedKeySize = fileKeySize + chacha20poly1305.Overhead
	bodyNonceSize  = chacha20poly1305.NonceSize
	stanzaSize     = keySize + wrappedKeySize
)

// Stanza wraps the per-message file key for one recipient.
type Stanza struct {
	Ephemeral  []byte
	WrappedKey []byte
}

// Envelope is the authenticated-encryption output addressed to one or more
// recipients. The body tag binds the body to the serialized header, so a
// stanza cannot be moved between envelopes undetected.
type Envelope struct {
	Version byte
	Stanzas []Stanza
	Nonce   []byte
	Body    []byte
}

// Encrypt seals plaintext to the given recipients. A fresh file key and body
// nonce are drawn per call; the file key is wrapped once per recipient via an
// ephemeral X25519 exchange and HKDF-SHA-256. All raw key material is erased
// before returning, on error paths included.
func Encrypt(random io.Reader, plaintext []byte, recipients []*Recipient) (*Envelope, error) {
	if len(recipients) == 0 {
		return nil, ErrEmptyRecipientSet
	}
	if len(recipients) > 255 {
		return nil, fmt.Errorf("too many recipients: %d", len(recipients))
	}

	fileKey := make([]byte, fileKeySize)
	defer zeroBytes(fileKey)
	if _, err := io.ReadFull(random, fileKey); err != nil {
		return nil, fmt.Errorf("draw file key: %w", err)
	}

	env := &Envelope{Version: envelopeVersion}
	for _, rec := range recipients {
		stanza, err := wrapFileKey(random, fileKey, rec)
		if err != nil {
			return nil, err
		}
		env.Stanzas = append(env.Stanzas, stanza)
	}

	env.Nonce = make([]byte, bodyNonceSize)
	if _, err := io.ReadFull(random, env.Nonce); err != nil {
		return nil, fmt.Errorf("draw body nonce: %w", err)
	}

	aead, err := chacha20poly1305.New(fileKey)
	if err != nil {
		return nil, err
	}
	env.Body = aead.Seal(nil, env.Nonce, plaintext, env.headerBytes())
	return env, nil
}

func wrapFileKey(random io.Reader, fileKey []byte, rec *Recipient) (Stanza, error) {
	ephPriv := make([]byte, keySize)
	defer zeroBytes(ephPriv)
	if _, err := io.ReadFull(random, ephPriv); err != nil {
		return Stanza{}, fmt.Errorf("draw ephemeral scalar: %w", err)
	}

	ephPub, err := curve25519.X25519(ephPriv, curve25519.Basepoint)
	if err != nil {
		return Stanza{}, err
	}

	wrapKey, err := deriveWrapKey(ephPriv, rec.pub, ephPub, rec.pub)
	if err != nil {
		return Stanza{}, err
	}
	defer zeroBytes(wrapKey)

	aead, err := chacha20poly1305.New(wrapKey)
	if err != nil {
		return Stanza{}, err
	}
	// The wrap key is single-use, so a zero nonce is safe.
	wrapped := aead.Seal(nil, make([]byte, bodyNonceSize), fileKey, nil)
	return Stanza{Ephemeral: ephPub, WrappedKey: wrapped}, nil
}

// Decrypt recovers the plaintext using the identity's private scalar. The
// first stanza whose file key unwraps (the AEAD tag on the wrapped key is the
// key-commitment signal) is used to open the body.
func Decrypt(env *Envelope, id *Identity) ([]byte, error) {
	header := env.headerBytes()
	for _, st := range env.Stanzas {
		fileKey, ok := unwrapFileKey(st, id)
		if !ok {
			continue
		}

		aead, err := chacha20poly1305.New(fileKey)
		zeroBytes(fileKey)
		if err != nil {
			return nil, err
		}
		plaintext, err := aead.Open(nil, env.Nonce, env.Body, header)
		if err != nil {
			return nil, ErrAuthentication
		}
		return plaintext, nil
	}
	return nil, ErrNoMatchingIdentity
}

func unwrapFileKey(st Stanza, id *Identity) ([]byte, bool) {
	wrapKey, err := deriveWrapKey(id.priv, st.Ephemeral, st.Ephemeral, id.pub)
	if err != nil {
		return nil, false
	}
	defer zeroBytes(wrapKey)

	aead, err := chacha20poly1305.New(wrapKey)
	if err != nil {
		return nil, false
	}
	fileKey, err := aead.Open(nil, make([]byte, bodyNonceSize), st.WrappedKey, nil)
	if err != nil {
		return nil, false
	}
	return fileKey, true
}

// deriveWrapKey runs the X25519 exchange between scalar and point, then
// expands the shared secret with HKDF-SHA-256. The salt commits to the
// ephemeral point and the recipient's public point; both sides of the
// exchange supply the same two values.
func deriveWrapKey(scalar, point, ephPub, recipientPub []byte) ([]byte, error) {
	shared, err := curve25519.X25519(scalar, point)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(shared)

	salt := make([]byte, 0, 2*keySize)
	salt = append(salt, ephPub...)
	salt = append(salt, recipientPub...)

	reader := hkdf.New(sha256.New, shared, salt, []byte(hkdfInfoWrap))
	wrapKey := make([]byte, fileKeySize)
	if _, err := io.ReadFull(reader, wrapKey); err != nil {
		return nil, err
	}
	return wrapKey, nil
}
