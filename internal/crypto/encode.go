package crypto

import (
	"encoding/base64"
	"strings"
)

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// FromB64 decodes standard padded base64, rejecting non-canonical padding
// bits. Unlike the encoding package it also rejects CR and LF, which the
// decoder would otherwise skip.
func FromB64(s string) ([]byte, error) {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return nil, base64.CorruptInputError(i)
	}
	return base64.StdEncoding.Strict().DecodeString(s)
}
