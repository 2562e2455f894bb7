package upload

import (
	"strings"
	"time"

	"github.com/karagol/memorywall/internal/fault"
)

// timestampLayout is second precision with no colons or periods, so derived
// keys stay filesystem- and URL-safe.
const timestampLayout = "2006-01-02T15-04-05"

const namespaceSuffix = "_UPLOADS"

const defaultContributor = "Memorial Guest"

// Addressing selects how a key's discriminator is derived: from the file's
// content hash (deduplicating) or from the upload time.
type Addressing struct {
	hash string
}

// ByHash addresses the key by content hash, so identical content maps to the
// same key on every upload.
func ByHash(hash string) Addressing {
	return Addressing{hash: hash}
}

// ByTimestamp addresses the key by upload time at second granularity.
func ByTimestamp() Addressing {
	return Addressing{}
}

// Deduplicating reports whether the addressing is hash based.
func (a Addressing) Deduplicating() bool {
	return a.hash != ""
}

// ResolveKey derives the storage key for an incoming file. Pure and
// deterministic: the only time source is the now argument, consulted solely
// in timestamp addressing.
//
// Keys take the form <namespace>/<discriminator>_<safeFilename>, where the
// namespace is the sanitized contributor name suffixed with _UPLOADS.
func ResolveKey(filename, contributor string, addr Addressing, now time.Time) (string, error) {
	if filename == "" {
		return "", fault.Validationf("filename is required")
	}

	discriminator := addr.hash
	if discriminator == "" {
		discriminator = now.Format(timestampLayout)
	}

	return Namespace(contributor) + "/" + discriminator + "_" + safeComponent(filename), nil
}

// Namespace returns the key prefix for a contributor, falling back to the
// shared guest namespace when no name was supplied.
func Namespace(contributor string) string {
	name := strings.TrimSpace(contributor)
	if name == "" {
		name = defaultContributor
	}
	return safeComponent(name) + namespaceSuffix
}

// safeComponent keeps [A-Za-z0-9._-] and replaces everything else with an
// underscore.
func safeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
