package cipher

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func mustIdentity(t *testing.T) *Identity {
	t.Helper()
	id, err := GenerateIdentity(rand.Reader)
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	return id
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	id := mustIdentity(t)
	plaintext := []byte("the quick brown fox")

	env, err := Encrypt(rand.Reader, plaintext, []*Recipient{id.Recipient()})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	got, err := Decrypt(env, id)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("plaintext mismatch: %q", got)
	}
}

func TestEncryptMultipleRecipients(t *testing.T) {
	a := mustIdentity(t)
	b := mustIdentity(t)
	c := mustIdentity(t)
	plaintext := []byte("shared secret")

	env, err := Encrypt(rand.Reader, plaintext, []*Recipient{a.Recipient(), b.Recipient()})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if len(env.Stanzas) != 2 {
		t.Fatalf("want 2 stanzas, got %d", len(env.Stanzas))
	}

	for _, id := range []*Identity{a, b} {
		got, err := Decrypt(env, id)
		if err != nil {
			t.Fatalf("decrypt failed: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatal("plaintext mismatch")
		}
	}
	if _, err := Decrypt(env, c); !errors.Is(err, ErrNoMatchingIdentity) {
		t.Fatalf("want ErrNoMatchingIdentity for outsider, got %v", err)
	}
}

func TestEncryptEmptyRecipients(t *testing.T) {
	if _, err := Encrypt(rand.Reader, []byte("x"), nil); !errors.Is(err, ErrEmptyRecipientSet) {
		t.Fatalf("want ErrEmptyRecipientSet, got %v", err)
	}
}

func TestDecryptDetectsTampering(t *testing.T) {
	id := mustIdentity(t)
	env, err := Encrypt(rand.Reader, []byte("authentic"), []*Recipient{id.Recipient()})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	for i := range env.Body {
		tampered := *env
		tampered.Body = append([]byte(nil), env.Body...)
		tampered.Body[i] ^= 0x01
		if _, err := Decrypt(&tampered, id); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("bit flip at body byte %d: want ErrAuthentication, got %v", i, err)
		}
	}
}

func TestDecryptDetectsHeaderTampering(t *testing.T) {
	id := mustIdentity(t)
	other := mustIdentity(t)
	env, err := Encrypt(rand.Reader, []byte("bound header"), []*Recipient{id.Recipient(), other.Recipient()})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	// Dropping the other stanza changes the header, which the body tag covers.
	env.Stanzas = env.Stanzas[:1]
	if _, err := Decrypt(env, id); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("want ErrAuthentication after header change, got %v", err)
	}
}

func TestFileKeyFreshness(t *testing.T) {
	id := mustIdentity(t)
	env1, err := Encrypt(rand.Reader, []byte("same input"), []*Recipient{id.Recipient()})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	env2, err := Encrypt(rand.Reader, []byte("same input"), []*Recipient{id.Recipient()})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if bytes.Equal(env1.Body, env2.Body) {
		t.Fatal("two encryptions of the same plaintext must differ")
	}
	if bytes.Equal(env1.Nonce, env2.Nonce) {
		t.Fatal("body nonce reused across encryptions")
	}
}

func TestEnvelopeMarshalParse(t *testing.T) {
	id := mustIdentity(t)
	other := mustIdentity(t)
	env, err := Encrypt(rand.Reader, []byte("wire format"), []*Recipient{id.Recipient(), other.Recipient()})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	parsed, err := ParseEnvelope(env.Marshal())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got, err := Decrypt(parsed, other)
	if err != nil {
		t.Fatalf("decrypt of reparsed envelope failed: %v", err)
	}
	if string(got) != "wire format" {
		t.Fatalf("plaintext mismatch: %q", got)
	}
}

func TestParseEnvelopeRejectsGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x01},
		{0x09, 0x01, 0xde, 0xad},       // unknown version
		{0x01, 0x00},                   // zero stanzas
		{0x01, 0x02, 0x01, 0x02, 0x03}, // truncated stanzas
	}
	for i, data := range cases {
		if _, err := ParseEnvelope(data); !errors.Is(err, ErrMalformedEnvelope) {
			t.Fatalf("case %d: want ErrMalformedEnvelope, got %v", i, err)
		}
	}
}

func TestEnvelopeShapeIndependentOfRecipient(t *testing.T) {
	a := mustIdentity(t)
	b := mustIdentity(t)
	plaintext := []byte("same length payload")

	envA, err := Encrypt(rand.Reader, plaintext, []*Recipient{a.Recipient()})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	envB, err := Encrypt(rand.Reader, plaintext, []*Recipient{b.Recipient()})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if len(envA.Marshal()) != len(envB.Marshal()) {
		t.Fatal("envelope size must not depend on which recipient it targets")
	}
}
