package selection

import (
	"strings"

	"github.com/CDrummond/essentia-api/internal/catalog"
)

// christmasWords is the deterministic keyword list spec.md gives for the
// Christmas heuristic; source behavior beyond "exclude outside December" is
// unspecified, so this list is the documented, non-guessed choice.
var christmasWords = []string{"christmas", "xmas", "noel", "advent", "holiday"}

func isChristmas(t *catalog.Track) bool {
	album := strings.ToLower(t.Album)
	title := strings.ToLower(t.Title)
	for _, w := range christmasWords {
		if strings.Contains(album, w) || strings.Contains(title, w) {
			return true
		}
	}
	return false
}

// matchesAny reports whether cand shares its normalized artist or album
// with any track in the (unwindowed) list — used for the seed and
// already-accepted candidate comparisons.
func matchesAny(tracks []catalog.Track, cand *catalog.Track) bool {
	for i := range tracks {
		t := &tracks[i]
		if t.NormArtist != "" && t.NormArtist == cand.NormArtist {
			return true
		}
		if t.NormAlbum != "" && t.NormAlbum == cand.NormAlbum {
			return true
		}
	}
	return false
}

// matchesArtistInWindow reports whether cand's normalized artist matches
// any of the last window entries of tracks (window <= 0 disables the
// check, matching the min/max duration convention of 0 meaning "no bound").
func matchesArtistInWindow(tracks []catalog.Track, cand *catalog.Track, window int) bool {
	for _, t := range windowTail(tracks, window) {
		if t.NormArtist != "" && t.NormArtist == cand.NormArtist {
			return true
		}
	}
	return false
}

// matchesAlbumInWindow reports whether cand's normalized album matches any
// of the last window entries of tracks.
func matchesAlbumInWindow(tracks []catalog.Track, cand *catalog.Track, window int) bool {
	for _, t := range windowTail(tracks, window) {
		if t.NormAlbum != "" && t.NormAlbum == cand.NormAlbum {
			return true
		}
	}
	return false
}

// windowTail returns the last window entries of tracks. A window of 0 (or
// less) disables the filter entirely, so it returns no entries rather than
// the whole history.
func windowTail(tracks []catalog.Track, window int) []catalog.Track {
	if window <= 0 {
		return nil
	}
	if window >= len(tracks) {
		return tracks
	}
	return tracks[len(tracks)-window:]
}

func matchesTitle(seen map[string]bool, cand *catalog.Track) bool {
	return cand.NormTitle != "" && seen[cand.NormTitle]
}

func matchesExcludedArtist(excluded []string, cand *catalog.Track) bool {
	for _, a := range excluded {
		if a == cand.NormArtist {
			return true
		}
	}
	return false
}

func matchesExcludedAlbum(excluded []string, cand *catalog.Track) bool {
	for _, a := range excluded {
		if a == cand.NormAlbum {
			return true
		}
	}
	return false
}
