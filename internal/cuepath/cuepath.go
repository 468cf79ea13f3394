// Package cuepath implements the host media server's cue-sheet path
// convention: a "#" in an incoming path denotes a track indexed inside a
// cue-sheet file, which the catalog stores under a reserved substring so
// it round-trips safely through the feature index and back out as a URL.
package cuepath

import (
	"net/url"
	"strings"
)

// marker replaces "#" in a stored catalog path, since "#" is unsafe to
// carry unescaped through the rest of the pipeline.
const marker = ".CUE_TRACK."

// FromRequestPath converts an incoming request path into the catalog's
// internal storage form. A "#" appearing after the first character marks a
// cue-indexed track; it is replaced with the marker and a ".mp3" extension
// is appended, matching what the catalog stores for such entries. Paths
// without a "#" (or with one at position 0) are returned unchanged.
func FromRequestPath(path string) string {
	if pos := strings.Index(path, "#"); pos > 0 {
		return strings.ReplaceAll(path, "#", marker) + ".mp3"
	}
	return path
}

// ToResponseURL converts a catalog-internal path back into the "file://"
// URL the host media server expects, restoring the "#" cue separator and
// URL-encoding the file portion. Paths with no marker are returned
// unchanged.
func ToResponseURL(path string) string {
	pos := strings.Index(path, marker)
	if pos <= 0 {
		return path
	}
	parts := strings.SplitN(strings.ReplaceAll(path, marker, "#"), "#", 2)
	escaped := (&url.URL{Path: parts[0]}).EscapedPath()
	full := "file://" + escaped + "#" + parts[1]
	if len(full) < 4 {
		return full
	}
	return full[:len(full)-4] // drop the trailing ".mp3" appended by FromRequestPath
}
