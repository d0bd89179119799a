package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// NewKey builds a collision-resistant object key from an optional namespace
// prefix and an original filename: "{prefix}/{uuid}_{sanitized-name}".
// Keys are opaque to the storage layer; this helper only exists so callers
// that derive keys from user-supplied filenames get safe, unique ones.
func NewKey(prefix, filename string) string {
	id := uuid.NewString()
	name := SanitizeFilename(filename)
	if name == "" {
		return path.Join(prefix, id)
	}
	return path.Join(prefix, id+"_"+name)
}

// SanitizeFilename reduces a user-supplied filename to a safe key segment:
// the base name only, spaces collapsed to dashes, anything outside
// [a-zA-Z0-9._-] dropped.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "-")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), ".")
	return out
}
