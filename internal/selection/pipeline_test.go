package selection

import (
	"math/rand"
	"testing"

	"github.com/CDrummond/essentia-api/internal/catalog"
	"github.com/CDrummond/essentia-api/internal/genre"
)

func newIndex(tracks []catalog.Track) *catalog.Index {
	feats := make([]float64, len(tracks)*catalog.NumFeatures)
	return catalog.NewIndexForTest(tracks, feats)
}

func track(rowid int, file, artist, album, title string, duration int, igenres []int) catalog.Track {
	return catalog.Track{
		RowID: rowid, File: file,
		Artist: artist, NormArtist: artist,
		Album: album, NormAlbum: album,
		Title: title, NormTitle: title,
		Duration: duration,
		IGenres:  igenres,
		Genres:   []string{"g"},
	}
}

// Scenario 2: seeds=[A], excludeartist=[Y]. Library {A(X), B(Y), C(Z)}.
// Expect [C] once Y is excluded.
func TestScenario2_ExcludeArtist(t *testing.T) {
	t.Parallel()
	a := track(0, "a", "x", "albA", "ta", 200, nil)
	b := track(1, "b", "y", "albB", "tb", 200, nil)
	c := track(2, "c", "z", "albC", "tc", 200, nil)
	idx := newIndex([]catalog.Track{a, b, c})
	model := genre.NewBuilder()
	model.SetGroups(nil)

	req := Request{
		Seeds: []SeedInput{{
			RowID: 0,
			Neighbors: []Neighbor{
				{RowID: 1, Similarity: 0.1},
				{RowID: 2, Similarity: 0.3},
			},
		}},
		Count:          5,
		ExcludeArtists: []string{"y"},
	}
	got := Select(req, idx, model, rand.New(rand.NewSource(1)))
	if len(got) != 1 || got[0].RowID != 2 {
		t.Fatalf("got %+v, want [{RowID:2}]", got)
	}
}

// Scenario 3: 100 tracks, identical attributes, distinct artists. Expect 5
// unique artists (count=5, no shuffle so cap = count).
func TestScenario3_DistinctArtistsAccepted(t *testing.T) {
	t.Parallel()
	n := 100
	tracks := make([]catalog.Track, n)
	neighbors := make([]Neighbor, 0, n-1)
	for i := 0; i < n; i++ {
		artist := string(rune('A' + i))
		tracks[i] = track(i, "f"+artist, artist, "alb"+artist, "t"+artist, 200, nil)
		if i != 0 {
			neighbors = append(neighbors, Neighbor{RowID: i, Similarity: float64(i) * 0.001})
		}
	}
	idx := newIndex(tracks)
	model := genre.NewBuilder()
	model.SetGroups(nil)

	req := Request{
		Seeds:   []SeedInput{{RowID: 0, Neighbors: neighbors}},
		Count:   5,
		Shuffle: false,
	}
	got := Select(req, idx, model, rand.New(rand.NewSource(1)))
	if len(got) != 5 {
		t.Fatalf("got %d results, want 5", len(got))
	}
	seen := map[int]bool{}
	for _, r := range got {
		if seen[r.RowID] {
			t.Errorf("duplicate rowid %d in result", r.RowID)
		}
		seen[r.RowID] = true
	}
}

// Scenario 4: previous contains P with the same artist as the would-be-first
// candidate K; norepart=15 means K is demoted to FILTERED(previous-artist).
func TestScenario4_PreviousArtistDemotesCandidate(t *testing.T) {
	t.Parallel()
	seed := track(0, "seed", "seedartist", "seedalb", "seedtitle", 200, nil)
	k := track(1, "k", "repeat", "albk", "tk", 200, nil) // would rank first
	second := track(2, "second", "other", "albother", "tother", 200, nil)
	prev := track(3, "prev", "repeat", "albprev", "tprev", 200, nil) // same artist as K
	// A third usable candidate keeps the accepted count at MinBackfill, so
	// backfill does not pull K back in from FILTERED(previous).
	third := track(4, "third", "third", "albthird", "tthird", 200, nil)

	idx := newIndex([]catalog.Track{seed, k, second, prev, third})
	model := genre.NewBuilder()
	model.SetGroups(nil)

	req := Request{
		Seeds: []SeedInput{{
			RowID: 0,
			Neighbors: []Neighbor{
				{RowID: 1, Similarity: 0.1}, // K, best similarity
				{RowID: 2, Similarity: 0.2}, // second best
				{RowID: 4, Similarity: 0.3},
			},
		}},
		Previous:       []int{3},
		Count:          5,
		NoRepeatArtist: 15,
	}
	got := Select(req, idx, model, rand.New(rand.NewSource(1)))
	if len(got) == 0 || got[0].RowID != 2 {
		t.Fatalf("got %+v, want first result to be rowid 2 (K demoted)", got)
	}
	for _, r := range got {
		if r.RowID == 1 {
			t.Errorf("K (rowid 1) should have been filtered by previous-artist, got %+v", got)
		}
	}
}

// NoRepeatArtist=0 disables the repeat-artist filter entirely, matching the
// min/max duration convention that 0 means "no bound" rather than "check
// the whole history."
func TestNoRepeatArtistZeroDisablesFilter(t *testing.T) {
	t.Parallel()
	seed := track(0, "seed", "seedartist", "seedalb", "seedtitle", 200, nil)
	k := track(1, "k", "repeat", "albk", "tk", 200, nil) // would rank first
	second := track(2, "second", "other", "albother", "tother", 200, nil)
	prev := track(3, "prev", "repeat", "albprev", "tprev", 200, nil) // same artist as K

	idx := newIndex([]catalog.Track{seed, k, second, prev})
	model := genre.NewBuilder()
	model.SetGroups(nil)

	req := Request{
		Seeds: []SeedInput{{
			RowID: 0,
			Neighbors: []Neighbor{
				{RowID: 1, Similarity: 0.1},
				{RowID: 2, Similarity: 0.2},
			},
		}},
		Previous:       []int{3},
		Count:          5,
		NoRepeatArtist: 0,
	}
	got := Select(req, idx, model, rand.New(rand.NewSource(1)))
	if len(got) == 0 || got[0].RowID != 1 {
		t.Fatalf("got %+v, want first result to be rowid 1 (filter disabled, not demoted)", got)
	}
}

// Scenario 5: filterxmas=1 excludes a Christmas-titled candidate (as if
// evaluated in a non-December month; month gating is the caller's concern
// before setting ExcludeChristmas, so this only tests the title match).
func TestScenario5_ChristmasFilter(t *testing.T) {
	t.Parallel()
	seed := track(0, "seed", "sa", "sb", "st", 200, nil)
	xmas := track(1, "xmas", "xa", "Christmas Album", "Silent Night", 200, nil)
	other := track(2, "other", "oa", "ob", "ot", 200, nil)

	idx := newIndex([]catalog.Track{seed, xmas, other})
	model := genre.NewBuilder()
	model.SetGroups(nil)

	req := Request{
		Seeds: []SeedInput{{
			RowID: 0,
			Neighbors: []Neighbor{
				{RowID: 1, Similarity: 0.1},
				{RowID: 2, Similarity: 0.2},
			},
		}},
		Count:            5,
		ExcludeChristmas: true,
	}
	got := Select(req, idx, model, rand.New(rand.NewSource(1)))
	for _, r := range got {
		if r.RowID == 1 {
			t.Fatalf("christmas track should have been excluded, got %+v", got)
		}
	}
	if len(got) != 1 || got[0].RowID != 2 {
		t.Fatalf("got %+v, want only rowid 2", got)
	}
}

func TestMaxSimRangeStopsScanningFarNeighbors(t *testing.T) {
	t.Parallel()
	seed := track(0, "seed", "sa", "sb", "st", 200, nil)
	near := track(1, "near", "na", "nb", "nt", 200, nil)
	far := track(2, "far", "fa", "fb", "ft", 200, nil)
	idx := newIndex([]catalog.Track{seed, near, far})
	model := genre.NewBuilder()
	model.SetGroups(nil)

	req := Request{
		Seeds: []SeedInput{{
			RowID: 0,
			Neighbors: []Neighbor{
				{RowID: 1, Similarity: 0.1},
				{RowID: 2, Similarity: 0.8}, // drift > DefaultMaxSimRange from 0.1
			},
		}},
		Count: 5,
	}
	got := Select(req, idx, model, rand.New(rand.NewSource(1)))
	for _, r := range got {
		if r.RowID == 2 {
			t.Errorf("far neighbor beyond MaxSimRange should have been skipped, got %+v", got)
		}
	}
}

func TestBackfillTopsUpWhenTooFewAccepted(t *testing.T) {
	t.Parallel()
	seed := track(0, "seed", "same", "samealb", "st", 200, nil)
	// The only candidate shares the seed's artist, so it lands in FILTERED(seeds).
	onlyOption := track(1, "only", "same", "samealb", "t1", 200, nil)
	idx := newIndex([]catalog.Track{seed, onlyOption})
	model := genre.NewBuilder()
	model.SetGroups(nil)

	req := Request{
		Seeds: []SeedInput{{
			RowID:     0,
			Neighbors: []Neighbor{{RowID: 1, Similarity: 0.1}},
		}},
		Count: 5,
	}
	got := Select(req, idx, model, rand.New(rand.NewSource(1)))
	if len(got) != 1 || got[0].RowID != 1 {
		t.Fatalf("backfill should have pulled in the only filtered-by-seeds candidate, got %+v", got)
	}
}
