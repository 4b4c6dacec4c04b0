// Package contenttype classifies card download payloads.
package contenttype

import (
	"bytes"
	"mime"
	"strings"
	"unicode/utf8"
)

// Category represents a broad payload classification.
type Category string

const (
	PNG    Category = "png"
	JSON   Category = "json"
	Text   Category = "text"
	Binary Category = "binary"
)

// pngSignature is the fixed 8-byte PNG file header.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool {
	return len(data) >= len(pngSignature) && bytes.Equal(data[:len(pngSignature)], pngSignature)
}

// Classify returns the payload category for a downloaded body. The magic
// bytes win over the content-type header: static hosts routinely serve card
// images as application/octet-stream, and error pages as text/html with a
// 200. Uses mime.ParseMediaType to strip parameters (charset etc.) before
// matching; falls back to strings.ToLower for malformed values.
func Classify(contentType string, data []byte) Category {
	if IsPNG(data) {
		return PNG
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	if strings.Contains(mediaType, "json") {
		return JSON
	}
	if strings.HasPrefix(mediaType, "text/") {
		return Text
	}

	// Unknown or missing content type: UTF-8 bodies read as text.
	if mediaType == "" && utf8.Valid(data) {
		return Text
	}
	return Binary
}

// IsJSON returns true if the content type indicates JSON (case-insensitive).
func IsJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}
