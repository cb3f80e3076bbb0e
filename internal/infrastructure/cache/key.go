package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// maxKeyLen is the longest key the networked backend accepts.
const maxKeyLen = 250

// rootKey is the sentinel for the site root, whose path normalizes to the
// empty string.
const rootKey = "home"

// longKeyMarker flags keys that were collapsed to a digest.
const longKeyMarker = "long_key_"

// keyFiller replaces whitespace and path separators inside keys.
var keyFiller = strings.NewReplacer(
	" ", "_",
	"\n", "_",
	"\r", "_",
	"\t", "_",
	"/", "_",
)

// KeyNormalizer derives backend-safe identifiers from application keys
// (URL paths). Normalization is a pure function: the same input always
// yields the same output.
type KeyNormalizer struct {
	prefix string
}

// NewKeyNormalizer creates a normalizer namespacing keys under prefix
// (a trailing colon is appended when missing).
func NewKeyNormalizer(prefix string) *KeyNormalizer {
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &KeyNormalizer{prefix: prefix}
}

// Prefix returns the namespace prefix, colon included.
func (n *KeyNormalizer) Prefix() string { return n.prefix }

// Normalize maps an application key to its backend-safe form:
// leading/trailing separators stripped, whitespace and internal separators
// replaced with underscores, the namespace prefix prepended, and keys over
// the backend limit collapsed to a fixed-length digest form. Feeding an
// already normalized key back in returns it unchanged.
func (n *KeyNormalizer) Normalize(key string) string {
	trimmed := strings.TrimSpace(key)
	if strings.HasPrefix(trimmed, n.prefix) {
		// Already namespaced; re-normalizing must not double-prefix.
		return n.capLength(trimmed)
	}

	trimmed = strings.Trim(trimmed, "/ \t\n\r")
	cleaned := keyFiller.Replace(trimmed)
	if cleaned == "" {
		cleaned = rootKey
	}

	return n.capLength(n.prefix + cleaned)
}

// capLength collapses keys exceeding the backend limit into
// "<prefix>long_key_<16-hex>", a 128-bit digest truncated to 16 hex
// characters. Distinct over-length keys keep distinct digests for all
// practical purposes.
func (n *KeyNormalizer) capLength(key string) string {
	if len(key) <= maxKeyLen {
		return key
	}
	sum := md5.Sum([]byte(key))
	return n.prefix + longKeyMarker + hex.EncodeToString(sum[:])[:16]
}
