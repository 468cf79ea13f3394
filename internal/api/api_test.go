package api

import (
	"github.com/CDrummond/essentia-api/internal/catalog"
	"github.com/CDrummond/essentia-api/internal/config"
	"github.com/CDrummond/essentia-api/internal/genre"
	"github.com/CDrummond/essentia-api/internal/similarity"
)

// testTrack builds a minimal catalog.Track with normalized fields equal to
// their raw counterparts, matching how pipeline tests in internal/selection
// build fixtures.
func testTrack(rowid int, file, artist, album string) catalog.Track {
	return catalog.Track{
		RowID: rowid, File: file,
		Artist: artist, NormArtist: artist,
		Album: album, NormAlbum: album,
		Title: "t" + file, NormTitle: "t" + file,
		Duration: 200,
		Genres:   []string{"Rock"},
		IGenres:  []int{1},
	}
}

// newTestHandler builds a Handler over n tracks with distinct, widely
// separated feature vectors so k-NN ordering is deterministic: track i's
// features are all i/n, so distance from seed 0 increases monotonically
// with rowid.
func newTestHandler(n int) *Handler {
	tracks := make([]catalog.Track, n)
	feats := make([]float64, n*catalog.NumFeatures)
	for i := 0; i < n; i++ {
		artist := string(rune('A' + i))
		tracks[i] = testTrack(i, "file"+artist+".mp3", artist, "album"+artist)
		v := float64(i) / float64(n)
		for j := 0; j < catalog.NumAttribs; j++ {
			feats[i*catalog.NumFeatures+j] = v
		}
	}
	index := catalog.NewIndexForTest(tracks, feats)

	model := genre.NewBuilder()
	model.Intern("Rock")
	model.SetGroups(nil)

	engine := similarity.NewEngine(index, model)

	cfg := &config.Config{LMS: "/music/", Port: 11002, Host: "127.0.0.1"}

	return NewHandler(index, model, engine, cfg)
}
