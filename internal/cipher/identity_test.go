package cipher

import (
	"crypto/rand"
	"errors"
	"strings"
	"testing"
)

func TestGenerateIdentityTokens(t *testing.T) {
	id, err := GenerateIdentity(rand.Reader)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	defer id.Wipe()

	if !strings.HasPrefix(id.String(), PrivateKeyPrefix) {
		t.Fatalf("private token missing prefix: %q", id.String())
	}
	if !strings.HasPrefix(id.Recipient().String(), PublicKeyPrefix) {
		t.Fatalf("public token missing prefix: %q", id.Recipient().String())
	}
	if strings.Contains(id.Recipient().String(), id.String()) {
		t.Fatal("tokens must not be confusable")
	}
}

func TestParseIdentityRoundTrip(t *testing.T) {
	id, err := GenerateIdentity(rand.Reader)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	parsed, err := ParseIdentity(id.String())
	if err != nil {
		t.Fatalf("parse identity failed: %v", err)
	}
	if parsed.Recipient().String() != id.Recipient().String() {
		t.Fatal("public token should be derivable from the private token")
	}
}

func TestParseRecipientRoundTrip(t *testing.T) {
	id, err := GenerateIdentity(rand.Reader)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	token := id.Recipient().String()
	rec, err := ParseRecipient(token)
	if err != nil {
		t.Fatalf("parse recipient failed: %v", err)
	}
	if rec.String() != token {
		t.Fatalf("recipient token changed: %q != %q", rec.String(), token)
	}
}

func TestParseRejectsMalformedTokens(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"wrong prefix", "ssh-ed25519 AAAA"},
		{"public as private", "age1abc"},
		{"bad base58", PrivateKeyPrefix + "0OIl"},
		{"short scalar", PrivateKeyPrefix + "2g"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseIdentity(tc.token); !errors.Is(err, ErrKeyFormat) {
				t.Fatalf("want ErrKeyFormat, got %v", err)
			}
		})
	}

	if _, err := ParseRecipient(PrivateKeyPrefix + "abc"); !errors.Is(err, ErrKeyFormat) {
		t.Fatalf("private token must not parse as recipient, got %v", err)
	}
}

func TestWipeClearsScalar(t *testing.T) {
	id, err := GenerateIdentity(rand.Reader)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	id.Wipe()
	for _, b := range id.priv {
		if b != 0 {
			t.Fatal("private scalar not zeroed")
		}
	}
}
