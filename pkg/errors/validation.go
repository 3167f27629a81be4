package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxURILength bounds identifiers accepted from design documents.
const maxURILength = 2048

// ValidateURI validates an object identifier taken from a design document.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No whitespace
//   - Maximum length of 2048 characters
func ValidateURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidURI, "uri cannot be empty")
	}

	if len(uri) > maxURILength {
		return New(ErrCodeInvalidURI, "uri too long (max %d characters)", maxURILength)
	}

	for _, r := range uri {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURI, "uri contains invalid control characters: %q", uri)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidURI, "uri contains whitespace: %q", uri)
		}
	}

	return nil
}

// soTermRegex matches Sequence Ontology accessions, bare or as the tail of a URI.
var soTermRegex = regexp.MustCompile(`SO:[0-9]{7}$`)

// ValidateRole validates an ontology role term. Roles are accepted either as
// bare accessions ("SO:0000167") or as identifiers.org style URIs ending in
// one. Terms from other ontologies are accepted as long as they are non-empty
// and contain no whitespace.
func ValidateRole(role string) error {
	if role == "" {
		return New(ErrCodeInvalidInput, "role cannot be empty")
	}
	if strings.ContainsAny(role, " \t\n") {
		return New(ErrCodeInvalidInput, "role contains whitespace: %q", role)
	}
	if strings.Contains(role, "SO:") && !soTermRegex.MatchString(role) {
		return New(ErrCodeInvalidInput, "malformed sequence ontology term: %q", role)
	}
	return nil
}

// ValidatePath validates a relative output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
