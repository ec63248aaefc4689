package cipher

import "errors"

var (
	// ErrEmptyRecipientSet is returned when encryption is attempted with no recipients.
	ErrEmptyRecipientSet = errors.New("no recipients specified")

	// ErrKeyFormat is returned when an identity or public-key token is malformed.
	ErrKeyFormat = errors.New("malformed key token")

	// ErrNoMatchingIdentity is returned when no stanza of an envelope unwraps
	// for the given identity.
	ErrNoMatchingIdentity = errors.New("no envelope stanza matches this identity")

	// ErrAuthentication is returned when a stanza unwraps but the body tag does
	// not verify. The envelope was addressed to this identity and has since been
	// tampered with, or the key belongs to a different envelope in a container.
	ErrAuthentication = errors.New("envelope authentication failed")

	// ErrMalformedEnvelope is returned when envelope bytes cannot be parsed.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	ErrPassphraseWrong = errors.New("armor authentication failed")
	ErrArmorInvalid    = errors.New("armored identity is invalid")
	ErrPassphraseEmpty = errors.New("passphrase is required")
)
