package textutil

import (
	"path/filepath"
	"strings"
	"unicode"
)

const maxExtensionLength = 10

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}

// FileExtension returns the lowercased extension of a client-supplied file
// name including the leading dot. Extensions that are empty, too long, or not
// purely alphanumeric yield fallback.
func FileExtension(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(strings.ReplaceAll(name, "\\", "/"))))
	if len(ext) < 2 || len(ext) > maxExtensionLength+1 {
		return fallback
	}
	for _, r := range ext[1:] {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return fallback
		}
	}
	return ext
}
