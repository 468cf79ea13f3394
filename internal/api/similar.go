package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/CDrummond/essentia-api/internal/selection"
	"github.com/CDrummond/essentia-api/internal/similarity"
)

const (
	defaultCount = 5
	minCount     = 5
	maxCount     = 50

	defaultNoRepeatArtist = 15
	defaultNoRepeatAlbum  = 25
	minNoRepeat           = 0
	maxNoRepeat           = 200
)

// Similar handles GET/POST /api/similar.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	p, err := parseRequestParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	tracks := p.strs("track")
	if len(tracks) == 0 {
		writeError(w, r, http.StatusBadRequest, ErrMalformedRequest)
		return
	}

	count, err := p.int("count", defaultCount)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	count = clamp(count, minCount, maxCount)

	noRepeatArtist, err := p.int("norepart", defaultNoRepeatArtist)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	noRepeatArtist = clamp(noRepeatArtist, minNoRepeat, maxNoRepeat)

	noRepeatAlbum, err := p.int("norepalb", defaultNoRepeatAlbum)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	noRepeatAlbum = clamp(noRepeatAlbum, minNoRepeat, maxNoRepeat)

	minDuration, err := p.int("min", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	maxDuration, err := p.int("max", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	filterGenre := p.bool01("filtergenre", false)
	shuffle := p.bool01("shuffle", true)
	excludeChristmas := p.bool01("filterxmas", false) && time.Now().Month() != time.December

	root := h.Config.LMS

	var seedRowIDs, previousRowIDs []int
	var firstSeedArtist string
	for i, raw := range tracks {
		file := decodeRequestPath(raw, root)
		rowid, err := h.Index.Lookup(file)
		if err != nil {
			continue
		}
		seedRowIDs = append(seedRowIDs, rowid)
		if i == 0 || firstSeedArtist == "" {
			firstSeedArtist = h.Index.Track(rowid).Artist
		}
	}
	if len(seedRowIDs) == 0 {
		writeError(w, r, http.StatusBadRequest, ErrNoUsableSeed)
		return
	}
	for _, raw := range p.strs("previous") {
		file := decodeRequestPath(raw, root)
		if rowid, err := h.Index.Lookup(file); err == nil {
			previousRowIDs = append(previousRowIDs, rowid)
		}
	}

	excludeArtists := normalizeAll(p.strs(excludeArtistKey(p)), h.Index.NormalizeArtist)
	excludeAlbums := normalizeAll(p.strs("excludealbum"), h.Index.NormalizeAlbum)

	matchAllGenres := h.Config.IgnoreGenreForArtist(firstSeedArtist)

	perSeedFactor := 1
	if shuffle {
		perSeedFactor = selection.DefaultShuffleFactor
	}
	numSkip := len(seedRowIDs) + len(previousRowIDs)
	k := count*perSeedFactor + numSkip

	seeds := make([]selection.SeedInput, 0, len(seedRowIDs))
	for _, rowid := range seedRowIDs {
		neighbors, err := queryEngine(r.Context(), h.Engine, rowid, k, matchAllGenres)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		seeds = append(seeds, selection.SeedInput{
			RowID:          rowid,
			Neighbors:      convertNeighbors(neighbors),
			MatchAllGenres: matchAllGenres,
		})
	}

	req := selection.Request{
		Seeds:            seeds,
		Previous:         previousRowIDs,
		Count:            count,
		Shuffle:          shuffle,
		FilterGenre:      filterGenre,
		MinDuration:      minDuration,
		MaxDuration:      maxDuration,
		NoRepeatArtist:   noRepeatArtist,
		NoRepeatAlbum:    noRepeatAlbum,
		ExcludeChristmas: excludeChristmas,
		ExcludeArtists:   excludeArtists,
		ExcludeAlbums:    excludeAlbums,
	}

	results := selection.Select(req, h.Index, h.Genre, newRNG())

	urls := make([]string, len(results))
	for i, res := range results {
		urls[i] = trackURL(h.Index.Track(res.RowID).File, root)
	}

	if p.str("format", "") == "text" {
		writeText(w, strings.Join(urls, "\n"))
		return
	}
	writeJSONArray(w, urls)
}

// excludeArtistKey mirrors the original service: "excludeartist" wins over
// its "exclude" alias when both are present.
func excludeArtistKey(p *requestParams) string {
	if p.has("excludeartist") {
		return "excludeartist"
	}
	return "exclude"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func normalizeAll(raw []string, normalize func(string) string) []string {
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		out = append(out, normalize(strings.TrimSpace(s)))
	}
	return out
}

// convertNeighbors adapts the similarity engine's result type to the
// selection pipeline's input type. The two packages define identically
// shaped but distinct Neighbor types so neither depends on the other.
func convertNeighbors(in []similarity.Neighbor) []selection.Neighbor {
	out := make([]selection.Neighbor, len(in))
	for i, n := range in {
		out[i] = selection.Neighbor{RowID: n.RowID, Similarity: n.Similarity}
	}
	return out
}
