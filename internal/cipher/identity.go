package cipher

import (
	"fmt"
	"io"
	"strings"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/curve25519"
)

const (
	// PrivateKeyPrefix marks a private identity token. Tokens are line-oriented
	// and may be stored one per line in a text file.
	PrivateKeyPrefix = "AGE-SECRET-KEY-1"
	// PublicKeyPrefix marks a public recipient token.
	PublicKeyPrefix = "age1"

	keySize = curve25519.ScalarSize
)

// Identity is an X25519 keypair. The private scalar stays inside this struct;
// it never appears in any artifact. Call Wipe when the identity is no longer
// needed.
type Identity struct {
	priv []byte
	pub  []byte
}

// Recipient is the public half of an identity, usable as an encryption address.
type Recipient struct {
	pub []byte
}

// GenerateIdentity draws a fresh private scalar from random and derives the
// matching public point.
func GenerateIdentity(random io.Reader) (*Identity, error) {
	priv := make([]byte, keySize)
	if _, err := io.ReadFull(random, priv); err != nil {
		return nil, fmt.Errorf("read identity scalar: %w", err)
	}
	return identityFromScalar(priv)
}

func identityFromScalar(priv []byte) (*Identity, error) {
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		zeroBytes(priv)
		return nil, fmt.Errorf("derive public point: %w", err)
	}
	return &Identity{priv: priv, pub: pub}, nil
}

// String encodes the private half as a fixed-prefix token.
func (id *Identity) String() string {
	return PrivateKeyPrefix + base58.Encode(id.priv)
}

// Recipient returns the public half of the identity.
func (id *Identity) Recipient() *Recipient {
	pub := make([]byte, len(id.pub))
	copy(pub, id.pub)
	return &Recipient{pub: pub}
}

// Wipe overwrites the private scalar. The identity must not be used afterwards.
func (id *Identity) Wipe() {
	zeroBytes(id.priv)
}

func (r *Recipient) String() string {
	return PublicKeyPrefix + base58.Encode(r.pub)
}

// ParseIdentity decodes a private-key token produced by Identity.String.
func ParseIdentity(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, PrivateKeyPrefix) {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrKeyFormat, PrivateKeyPrefix)
	}
	priv, err := base58.Decode(token[len(PrivateKeyPrefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	if len(priv) != keySize {
		zeroBytes(priv)
		return nil, fmt.Errorf("%w: private scalar must be %d bytes", ErrKeyFormat, keySize)
	}
	return identityFromScalar(priv)
}

// ParseRecipient decodes a public-key token produced by Recipient.String.
func ParseRecipient(token string) (*Recipient, error) {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, PublicKeyPrefix) {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrKeyFormat, PublicKeyPrefix)
	}
	pub, err := base58.Decode(token[len(PublicKeyPrefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	if len(pub) != keySize {
		return nil, fmt.Errorf("%w: public point must be %d bytes", ErrKeyFormat, keySize)
	}
	return &Recipient{pub: pub}, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
