// Package cover defines the port through which the pipeline obtains visible
// cover text. Generating convincing cover is an external concern; the only
// contract here is printable text of at least the requested visible length.
package cover

import (
	"fmt"
	"os"
)

// Provider supplies cover text with at least minVisible visible characters.
type Provider interface {
	Cover(minVisible int) (string, error)
}

// FileProvider reads cover text from a file. Shorter covers are still
// returned, since the embedding layer cycles over short covers; a reader who
// wants a single-pass artifact should size the file accordingly.
type FileProvider struct {
	Path string
}

func (p FileProvider) Cover(minVisible int) (string, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return "", fmt.Errorf("read cover file: %w", err)
	}
	return string(data), nil
}

// Static serves a fixed cover text.
type Static string

func (s Static) Cover(minVisible int) (string, error) {
	return string(s), nil
}
