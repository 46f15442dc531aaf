// Package doi normalizes digital object identifiers.
package doi

import "strings"

// Resolver URL prefixes that catalogs wrap around bare DOIs.
var resolverPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"doi.org/",
}

// Normalize canonicalizes a raw DOI string into a stable lookup key:
// lowercase, surrounding whitespace removed, resolver URL prefix stripped.
// Normalizing an already-normalized value is a no-op, and an empty or
// all-whitespace input yields "".
func Normalize(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range resolverPrefixes {
		d = strings.TrimPrefix(d, prefix)
	}
	return d
}
