package cipher

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseRecipients reads newline-separated public-key tokens. Blank lines and
// lines starting with '#' are skipped. An input yielding no recipients is
// treated the same as an empty recipient set at encryption time.
func ParseRecipients(r io.Reader) ([]*Recipient, error) {
	var recipients []*Recipient
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		rec, err := ParseRecipient(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		recipients = append(recipients, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, ErrEmptyRecipientSet
	}
	return recipients, nil
}

// ParseIdentities reads private-key tokens from newline-separated input,
// skipping blanks and comments the same way ParseRecipients does.
func ParseIdentities(r io.Reader) ([]*Identity, error) {
	var identities []*Identity
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		id, err := ParseIdentity(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		identities = append(identities, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("%w: no identity token found", ErrKeyFormat)
	}
	return identities, nil
}
