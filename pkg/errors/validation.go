package errors

import (
	"strings"
	"unicode"
)

// ValidateFileID validates an artifact file identifier taken from a URL or
// the command line. It rejects anything that could escape the artifact
// directory.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 128 characters
//   - No control characters or null bytes
//   - No path separators
//   - Not "." or "..", and no ".." sequences
func ValidateFileID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPath, "file id cannot be empty")
	}

	const maxIDLength = 128
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidPath, "file id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file id contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidPath, "file id cannot contain path separators")
	}

	if id == "." || strings.Contains(id, "..") {
		return New(ErrCodeInvalidPath, "file id cannot contain path traversal sequences (..)")
	}

	return nil
}
