package cipher

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/hkdf"
)

const hkdfInfoIdentity = "stegano/identity/x25519/v1"

// NewMnemonicIdentity draws 256 bits of entropy from random and returns the
// BIP-39 phrase alongside the identity it deterministically maps to. The
// phrase is the only backup needed to recover the identity.
func NewMnemonicIdentity(random io.Reader) (string, *Identity, error) {
	entropy := make([]byte, 32)
	if _, err := io.ReadFull(random, entropy); err != nil {
		return "", nil, fmt.Errorf("draw mnemonic entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nil, err
	}
	id, err := IdentityFromMnemonic(mnemonic)
	if err != nil {
		return "", nil, err
	}
	return mnemonic, id, nil
}

// IdentityFromMnemonic re-derives the identity backed up as a BIP-39 phrase.
func IdentityFromMnemonic(mnemonic string) (*Identity, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seedBytes := bip39.NewSeed(mnemonic, "")
	defer zeroBytes(seedBytes)

	reader := hkdf.New(sha256.New, seedBytes, nil, []byte(hkdfInfoIdentity))
	priv := make([]byte, keySize)
	if _, err := io.ReadFull(reader, priv); err != nil {
		return nil, err
	}
	return identityFromScalar(priv)
}
