// Package pipeline composes the cipher, integrity, stego and chaff layers
// into the end-to-end encode and decode transforms. Each stage either
// produces the next stage's input or aborts with its own error kind; nothing
// is retried, every failure here is a data or key mismatch.
package pipeline

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	"github.com/Querulantenkind/stegano-cli/internal/chaff"
	"github.com/Querulantenkind/stegano-cli/internal/cipher"
	"github.com/Querulantenkind/stegano-cli/internal/cover"
	"github.com/Querulantenkind/stegano-cli/internal/integrity"
	"github.com/Querulantenkind/stegano-cli/internal/stego"
)

// Pipeline holds the injected collaborators. The zero value is not usable;
// construct with New. Pipelines keep no per-call state, so one value may
// serve concurrent encodes and decodes.
type Pipeline struct {
	random io.Reader
	covers cover.Provider
	log    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRand replaces the random source used for keys, nonces and chaff
// ordering. Tests inject deterministic readers here; production code should
// leave the default.
func WithRand(r io.Reader) Option {
	return func(p *Pipeline) { p.random = r }
}

// WithCoverProvider sets the fallback source of cover text for encode
// requests that carry none of their own.
func WithCoverProvider(c cover.Provider) Option {
	return func(p *Pipeline) { p.covers = c }
}

// WithLogger attaches a logger. Secret material never reaches log attributes.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		random: rand.Reader,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EncodeRequest describes one encode invocation.
type EncodeRequest struct {
	// Message is the true payload.
	Message []byte
	// Recipients receive the true payload.
	Recipients []*cipher.Recipient

	// Decoy, when non-nil, is independently encrypted to DecoyRecipients and
	// multiplexed alongside the true message.
	Decoy           []byte
	DecoyRecipients []*cipher.Recipient

	// Cover, when non-empty, hosts the frame. Otherwise the pipeline's cover
	// provider is asked for text sized to the frame.
	Cover string
}

// Encode runs plaintext through checksum, encryption, optional chaffing,
// stego framing and embedding, producing a fresh artifact.
func (p *Pipeline) Encode(req EncodeRequest) (string, error) {
	container, err := p.seal(req)
	if err != nil {
		return "", err
	}

	frame := stego.Encode(container)
	coverText := req.Cover
	if coverText == "" {
		if p.covers == nil {
			return "", fmt.Errorf("no cover text and no cover provider configured")
		}
		coverText, err = p.covers.Cover(frame.SymbolCount())
		if err != nil {
			return "", fmt.Errorf("obtain cover: %w", err)
		}
	}

	artifact, err := stego.Embed(frame, coverText)
	if err != nil {
		return "", err
	}

	p.log.Debug("artifact encoded",
		slog.Int("payload_bytes", len(req.Message)),
		slog.Int("container_bytes", len(container)),
		slog.Int("frame_symbols", frame.SymbolCount()),
		slog.Bool("chaffed", req.Decoy != nil))
	return artifact, nil
}

func (p *Pipeline) seal(req EncodeRequest) ([]byte, error) {
	env, err := cipher.Encrypt(p.random, integrity.Seal(req.Message), req.Recipients)
	if err != nil {
		return nil, err
	}
	if req.Decoy == nil {
		return chaff.Single(env)
	}

	decoyEnv, err := cipher.Encrypt(p.random, integrity.Seal(req.Decoy), req.DecoyRecipients)
	if err != nil {
		return nil, fmt.Errorf("decoy: %w", err)
	}
	return chaff.Combine(p.random, decoyEnv, env)
}

// Decode is the exact inverse of Encode: extract the frame, decode it,
// resolve the container against the identity, verify the checksum.
func (p *Pipeline) Decode(artifact string, id *cipher.Identity) ([]byte, error) {
	frame, err := stego.Extract(artifact)
	if err != nil {
		return nil, err
	}
	container, err := stego.Decode(frame)
	if err != nil {
		return nil, err
	}
	sealed, err := chaff.Resolve(container, id)
	if err != nil {
		return nil, err
	}
	message, err := integrity.Open(sealed)
	if err != nil {
		return nil, err
	}

	p.log.Debug("artifact decoded", slog.Int("payload_bytes", len(message)))
	return message, nil
}
