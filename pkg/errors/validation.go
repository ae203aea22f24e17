package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node and edge identifiers accepted from the application.
const maxIDLength = 256

// ValidateNodeID validates a node identifier supplied by the application.
//
// Ids are otherwise opaque. The rules are:
//   - No empty ids
//   - No control characters (ids end up in DOT and terminal output)
//   - Maximum length of 256 bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}
	return nil
}

// ValidateEdgeID validates an edge identifier supplied by the application.
func ValidateEdgeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "edge id cannot be empty")
	}
	if len(id) > 2*maxIDLength+32 {
		return New(ErrCodeInvalidInput, "edge id too long")
	}
	return nil
}

// ValidatePortIndex checks 0 <= index < count for the named port side.
func ValidatePortIndex(side string, index, count int) error {
	if index < 0 || index >= count {
		return New(ErrCodeInvalidPortIndex, "%s port %d out of range (node has %d)", side, index, count)
	}
	return nil
}

// ValidatePortCount rejects negative port counts.
func ValidatePortCount(side string, count int) error {
	if count < 0 {
		return New(ErrCodeInvalidInput, "%s port count must be non-negative, got %d", side, count)
	}
	return nil
}
