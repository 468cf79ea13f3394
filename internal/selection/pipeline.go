// Package selection turns a seed's raw k-NN neighbor list into a final,
// history-aware, diversity-shuffled playlist: classify each candidate in
// priority order, accumulate an accepted list per seed, swap in a random
// alternate for artists that produced multiple accepted candidates,
// backfill if too few were accepted, then sort/truncate/shuffle.
package selection

import (
	"math/rand"
	"sort"

	"github.com/CDrummond/essentia-api/internal/catalog"
	"github.com/CDrummond/essentia-api/internal/genre"
)

// DefaultMaxSimRange is the similarity drift, relative to a seed's first
// accepted neighbor, past which the remaining (always-worse) neighbors for
// that seed are skipped outright. Ground truth: original_source's
// MAX_SIM_RANGE; spec.md's walkthrough doesn't name the constant.
const DefaultMaxSimRange = 0.5

// DefaultShuffleFactor is how many multiples of count are retained before
// the final shuffle truncates to count. spec.md is authoritative over the
// one source revision that used 4 instead.
const DefaultShuffleFactor = 3

// AlternatesWindow is how close (in similarity) a repeat-artist candidate
// must be to the artist's first accepted track to join its alternates
// pool rather than being filtered outright.
const AlternatesWindow = 0.25

// MinBackfill is the minimum number of accepted tracks below which the
// backfill stage tops up from the filtered-out lists.
const MinBackfill = 2

// Neighbor is one candidate offered to the pipeline for a given seed, in
// ascending-similarity order, as produced by similarity.Engine.Query.
type Neighbor struct {
	RowID      int
	Similarity float64
}

// SeedInput is one seed track together with its already-queried neighbor
// list and the match-all-genres mode that produced it.
type SeedInput struct {
	RowID          int
	Neighbors      []Neighbor
	MatchAllGenres bool
}

// Request bundles everything the pipeline needs beyond the catalog and
// genre model to classify candidates and build the final list.
type Request struct {
	Seeds    []SeedInput
	Previous []int // rowids, oldest to newest

	Count   int
	Shuffle bool

	FilterGenre      bool
	MinDuration      int
	MaxDuration      int
	NoRepeatArtist   int
	NoRepeatAlbum    int
	ExcludeChristmas bool
	ExcludeArtists   []string // normalized
	ExcludeAlbums    []string // normalized

	MaxSimRange   float64
	ShuffleFactor int
}

// Result is one final playlist entry.
type Result struct {
	RowID      int
	Similarity float64
}

type matchedArtist struct {
	similarity float64
	tracks     []Result
	pos        int
}

// Select runs the full classification/backfill/shuffle pipeline and
// returns the final ordered playlist. rng is injected for determinism in
// tests; callers pass rand.New(rand.NewSource(time.Now().UnixNano())) (or
// equivalent) in production.
func Select(req Request, index *catalog.Index, model *genre.Model, rng *rand.Rand) []Result {
	maxSimRange := req.MaxSimRange
	if maxSimRange == 0 {
		maxSimRange = DefaultMaxSimRange
	}
	shuffleFactor := req.ShuffleFactor
	if shuffleFactor == 0 {
		shuffleFactor = DefaultShuffleFactor
	}
	perSeedFactor := 1
	if req.Shuffle {
		perSeedFactor = shuffleFactor
	}

	seedTracks := trackSlice(index, seedRowIDs(req.Seeds))
	previousTracks := trackSlice(index, req.Previous)

	seedGenreGroups := model.GroupGenres(primaryGenres(seedTracks))

	seen := make(map[int]bool)
	titles := make(map[string]bool)
	for _, t := range seedTracks {
		seen[t.RowID] = true
		addTitle(titles, t.NormTitle)
	}
	for _, t := range previousTracks {
		seen[t.RowID] = true
		addTitle(titles, t.NormTitle)
	}

	var accepted []Result
	var filteredBySeeds, filteredByCurrent, filteredByPrevious []Result
	matchedArtists := make(map[string]*matchedArtist)

	for _, seed := range req.Seeds {
		acceptedForSeed := 0
		haveFirstSim := false
		var firstSim float64
		perSeedCap := req.Count * perSeedFactor

		for _, nb := range seed.Neighbors {
			if haveFirstSim && nb.Similarity-firstSim > maxSimRange {
				break
			}

			cand := index.Track(nb.RowID)

			if seen[nb.RowID] {
				continue
			}
			if outsideDuration(cand.Duration, req.MinDuration, req.MaxDuration) {
				continue
			}
			if req.FilterGenre && !seed.MatchAllGenres && !genreMatches(seedGenreGroups, cand) {
				continue // DISCARD(genre)
			}
			if req.ExcludeChristmas && isChristmas(cand) {
				continue // DISCARD(xmas)
			}
			if len(req.ExcludeArtists) > 0 && matchesExcludedArtist(req.ExcludeArtists, cand) {
				continue // DISCARD(artist)
			}
			if len(req.ExcludeAlbums) > 0 && matchesExcludedAlbum(req.ExcludeAlbums, cand) {
				continue // DISCARD(album)
			}

			result := Result{RowID: nb.RowID, Similarity: nb.Similarity}

			if matchesAny(seedTracks, cand) {
				filteredBySeeds = append(filteredBySeeds, result)
				continue
			}
			if matchesAny(acceptedTracks(index, accepted), cand) {
				filteredByCurrent = append(filteredByCurrent, result)
				if ma, ok := matchedArtists[cand.NormArtist]; ok && nb.Similarity-ma.similarity <= AlternatesWindow {
					ma.tracks = append(ma.tracks, result)
				}
				continue
			}
			if matchesArtistInWindow(previousTracks, cand, req.NoRepeatArtist) {
				filteredByPrevious = append(filteredByPrevious, result)
				continue
			}
			if matchesAlbumInWindow(previousTracks, cand, req.NoRepeatAlbum) {
				filteredByPrevious = append(filteredByPrevious, result)
				continue
			}
			if matchesTitle(titles, cand) {
				filteredByPrevious = append(filteredByPrevious, result)
				continue
			}

			// USABLE
			accepted = append(accepted, result)
			if !haveFirstSim {
				firstSim = nb.Similarity
				haveFirstSim = true
			}
			seen[nb.RowID] = true
			addTitle(titles, cand.NormTitle)
			matchedArtists[cand.NormArtist] = &matchedArtist{
				similarity: nb.Similarity,
				tracks:     []Result{result},
				pos:        len(accepted) - 1,
			}
			acceptedForSeed++
			if acceptedForSeed >= perSeedCap {
				break
			}
		}
	}

	for _, ma := range matchedArtists {
		if len(ma.tracks) > 1 {
			accepted[ma.pos] = ma.tracks[rng.Intn(len(ma.tracks))]
		}
	}

	accepted = backfill(accepted, filteredByPrevious, filteredByCurrent, filteredBySeeds)

	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].Similarity < accepted[j].Similarity })

	similarityCount := req.Count
	if req.Shuffle {
		similarityCount = req.Count * shuffleFactor
	}
	if len(accepted) > similarityCount {
		accepted = accepted[:similarityCount]
	}

	if req.Shuffle {
		rng.Shuffle(len(accepted), func(i, j int) { accepted[i], accepted[j] = accepted[j], accepted[i] })
		if len(accepted) > req.Count {
			accepted = accepted[:req.Count]
		}
	} else if len(accepted) > req.Count {
		accepted = accepted[:req.Count]
	}

	return accepted
}

func backfill(accepted, filteredByPrevious, filteredByCurrent, filteredBySeeds []Result) []Result {
	byAscendingSimilarity := func(rs []Result) []Result {
		out := append([]Result(nil), rs...)
		sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity < out[j].Similarity })
		return out
	}
	for _, pool := range [][]Result{filteredByPrevious, filteredByCurrent, filteredBySeeds} {
		if len(accepted) >= MinBackfill || len(pool) == 0 {
			continue
		}
		need := MinBackfill - len(accepted)
		sorted := byAscendingSimilarity(pool)
		if need > len(sorted) {
			need = len(sorted)
		}
		accepted = append(accepted, sorted[:need]...)
	}
	return accepted
}

func outsideDuration(duration, min, max int) bool {
	if min > 0 && duration < min {
		return true
	}
	if max > 0 && duration > max {
		return true
	}
	return false
}

func genreMatches(seedGroups map[int]bool, cand *catalog.Track) bool {
	if len(cand.IGenres) == 0 {
		return false
	}
	return seedGroups[cand.IGenres[0]]
}

func addTitle(titles map[string]bool, normTitle string) {
	if normTitle != "" {
		titles[normTitle] = true
	}
}

func seedRowIDs(seeds []SeedInput) []int {
	out := make([]int, len(seeds))
	for i, s := range seeds {
		out[i] = s.RowID
	}
	return out
}

func trackSlice(index *catalog.Index, rowids []int) []catalog.Track {
	out := make([]catalog.Track, len(rowids))
	for i, r := range rowids {
		out[i] = *index.Track(r)
	}
	return out
}

func acceptedTracks(index *catalog.Index, accepted []Result) []catalog.Track {
	out := make([]catalog.Track, len(accepted))
	for i, r := range accepted {
		out[i] = *index.Track(r.RowID)
	}
	return out
}

func primaryGenres(tracks []catalog.Track) []int {
	out := make([]int, 0, len(tracks))
	for _, t := range tracks {
		if len(t.IGenres) > 0 {
			out = append(out, t.IGenres[0])
		}
	}
	return out
}
