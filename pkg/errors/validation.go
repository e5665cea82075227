package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSourceBytes caps the size of diagram source accepted over the API.
const MaxSourceBytes = 4 << 20

// ValidateSource checks diagram source received from an untrusted client.
// Empty source is allowed: it clears the preview rather than failing.
func ValidateSource(source string) error {
	if len(source) > MaxSourceBytes {
		return New(ErrCodeInvalidInput, "source too large (max %d bytes)", MaxSourceBytes)
	}
	if !utf8.ValidString(source) {
		return New(ErrCodeInvalidInput, "source is not valid UTF-8")
	}
	if strings.ContainsRune(source, 0) {
		return New(ErrCodeInvalidInput, "source contains a null byte")
	}
	return nil
}

// ValidatePath validates a file path supplied by a client for open, save
// or export. It rejects empty paths and control characters; directory
// traversal is allowed because the user picks the destination.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "path too long (max 4096 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}
