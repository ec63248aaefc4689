// Package privacylog wraps an slog handler so that key material, passphrases
// and payload text can never reach log output, whichever call site forgets
// to think about it.
package privacylog

import (
	"context"
	"log/slog"
	"strings"
)

const redactedValue = "[REDACTED]"

// Attribute keys containing any of these fragments are redacted wholesale.
var sensitiveKeyParts = []string{
	"passphrase", "password", "secret", "mnemonic", "identity",
	"private", "scalar", "plaintext", "message", "decoy",
}

// String values with these prefixes are key tokens regardless of what the
// attribute is called.
var sensitiveValuePrefixes = []string{
	"AGE-SECRET-KEY-",
	"STEGANO-ARMOR-1",
}

type SanitizingHandler struct {
	next slog.Handler
}

func WrapHandler(next slog.Handler) slog.Handler {
	if next == nil {
		return nil
	}
	return &SanitizingHandler{next: next}
}

func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(SanitizeAttr(attr))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SanitizingHandler{next: h.next.WithAttrs(sanitizeAttrs(attrs))}
}

func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{next: h.next.WithGroup(name)}
}

func SanitizeAttr(attr slog.Attr) slog.Attr {
	key := strings.TrimSpace(attr.Key)
	if isSensitiveKey(strings.ToLower(key)) {
		return slog.String(key, redactedValue)
	}
	if attr.Value.Kind() == slog.KindGroup {
		return slog.Attr{Key: key, Value: slog.GroupValue(sanitizeAttrs(attr.Value.Group())...)}
	}
	if attr.Value.Kind() == slog.KindString && isSensitiveValue(attr.Value.String()) {
		return slog.String(key, redactedValue)
	}
	return attr
}

func sanitizeAttrs(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, SanitizeAttr(attr))
	}
	return out
}

func isSensitiveKey(lowerKey string) bool {
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lowerKey, part) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	trimmed := strings.TrimSpace(value)
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
