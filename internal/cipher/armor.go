package cipher

import (
	"crypto/rand"
	"encoding/json"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	armorVersion = 1
	armorPrefix  = "STEGANO-ARMOR-1\n"
	armorSalt    = 16
)

// armorEnvelope wraps a private identity token under a passphrase for at-rest
// storage. KDF parameters travel with the envelope so they can be hardened
// later without breaking existing files.
type armorEnvelope struct {
	Version     uint32 `json:"version"`
	KDF         string `json:"kdf"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	Salt        []byte `json:"salt"`
	Nonce       []byte `json:"nonce"`
	Ciphertext  []byte `json:"ciphertext"`
}

// ArmorIdentity encrypts the private token with a passphrase-derived key
// (argon2id, XChaCha20-Poly1305).
func ArmorIdentity(passphrase string, id *Identity) ([]byte, error) {
	if strings.TrimSpace(passphrase) == "" {
		return nil, ErrPassphraseEmpty
	}

	salt := make([]byte, armorSalt)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := armorKey(passphrase, salt)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	token := []byte(id.String())
	defer zeroBytes(token)
	env := armorEnvelope{
		Version:     armorVersion,
		KDF:         "argon2id",
		KDFTime:     2,
		KDFMemoryKB: 64 * 1024,
		KDFThreads:  1,
		Salt:        salt,
		Nonce:       nonce,
		Ciphertext:  aead.Seal(nil, nonce, token, nil),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	return append([]byte(armorPrefix), raw...), nil
}

// UnarmorIdentity decrypts an armored private token and parses the identity.
func UnarmorIdentity(passphrase string, data []byte) (*Identity, error) {
	if !strings.HasPrefix(string(data), armorPrefix) {
		return nil, ErrArmorInvalid
	}
	var env armorEnvelope
	if err := json.Unmarshal(data[len(armorPrefix):], &env); err != nil {
		return nil, ErrArmorInvalid
	}
	if env.Version != armorVersion || env.KDF != "argon2id" {
		return nil, ErrArmorInvalid
	}

	key := argon2.IDKey([]byte(passphrase), env.Salt, env.KDFTime, env.KDFMemoryKB, env.KDFThreads, chacha20poly1305.KeySize)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	token, err := aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrPassphraseWrong
	}
	defer zeroBytes(token)
	return ParseIdentity(string(token))
}

func armorKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 2, 64*1024, 1, chacha20poly1305.KeySize)
}
