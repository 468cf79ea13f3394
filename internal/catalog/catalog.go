// Package catalog loads the read-only track catalog into an in-memory
// feature index: one pass over the on-disk table, string normalization, and
// BPM min-max scaling into a contiguous per-track feature array.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/CDrummond/essentia-api/internal/genre"
)

// NumAttribs is the count of acoustic attributes stored per track, not
// counting the derived genre-distance slot.
const NumAttribs = 12

// NumFeatures is the length of a track's feature vector: NumAttribs plus
// one trailing genre-distance slot owned by the similarity engine.
const NumFeatures = NumAttribs + 1

// essentiaAttribs names the acoustic columns in catalog column order. bpm
// is last because it is the one column that needs min-max scaling rather
// than being stored already in [0,1].
var essentiaAttribs = []string{
	"danceable", "aggressive", "electronic", "acoustic", "happy", "party",
	"relaxed", "sad", "dark", "tonal", "voice", "bpm",
}

const genreSeparator = ";"

var (
	// ErrCatalogUnavailable is returned when the catalog file cannot be
	// opened or does not expose the required schema.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrCatalogEmpty is returned when the catalog contains no usable
	// (non-ignored) tracks.
	ErrCatalogEmpty = errors.New("catalog empty")
	// ErrTrackNotFound is returned by Index.Lookup for an unknown path.
	ErrTrackNotFound = errors.New("track not found")
)

// Track is an immutable catalog entry. Raw string fields preserve the
// catalog's original casing/punctuation so exclusion lists typed by a
// caller can still be honored verbatim; Norm* fields power equality-based
// filtering in the selection pipeline.
type Track struct {
	File                              string
	Title, Artist, Album, AlbumArtist string
	NormTitle, NormArtist, NormAlbum  string
	Duration                          int
	RowID                             int
	Genres                            []string
	IGenres                           []int
}

// Index is the read-only, rowid-indexable Feature Index (C2). Feature rows
// live in a single contiguous slice for cache-friendly distance
// computation; track metadata lives in a parallel slice.
type Index struct {
	tracks   []Track
	features []float64 // len(tracks)*NumFeatures, row-major
	byFile   map[string]int
	norm     *normalizer

	MinBPM   float64
	BPMRange float64
}

// NormalizeArtist applies the same artist normalization used when loading
// the catalog, so a request parameter can be compared against Track.NormArtist.
func (idx *Index) NormalizeArtist(s string) string {
	if idx.norm == nil {
		idx.norm = newNormalizer(NormalizeOptions{})
	}
	return idx.norm.artist(s)
}

// NormalizeAlbum applies the same album normalization used when loading the
// catalog, so a request parameter can be compared against Track.NormAlbum.
func (idx *Index) NormalizeAlbum(s string) string {
	if idx.norm == nil {
		idx.norm = newNormalizer(NormalizeOptions{})
	}
	return idx.norm.album(s)
}

// NewIndexForTest builds an Index directly from tracks and a flat feature
// array, bypassing Load/DuckDB. It exists so other packages (notably
// internal/similarity and internal/selection) can exercise their own logic
// against hand-built fixtures without a catalog file. tracks[i].RowID must
// equal i, and feats must have length len(tracks)*NumFeatures.
func NewIndexForTest(tracks []Track, feats []float64) *Index {
	idx := &Index{
		tracks:   tracks,
		features: feats,
		byFile:   make(map[string]int, len(tracks)),
	}
	for _, tr := range tracks {
		idx.byFile[tr.File] = tr.RowID
	}
	return idx
}

// Len returns the number of loaded tracks.
func (idx *Index) Len() int { return len(idx.tracks) }

// Track returns the track at rowid. rowid must be in [0, Len()).
func (idx *Index) Track(rowid int) *Track {
	return &idx.tracks[rowid]
}

// Lookup resolves a catalog file path to its rowid.
func (idx *Index) Lookup(file string) (int, error) {
	rowid, ok := idx.byFile[file]
	if !ok {
		return 0, fmt.Errorf("%s: %w", file, ErrTrackNotFound)
	}
	return rowid, nil
}

// Features returns a read-only view of rowid's feature vector: NumAttribs
// acoustic attributes (BPM already scaled to [0,1]) followed by the
// genre-distance slot, owned and rewritten by the similarity engine.
func (idx *Index) Features(rowid int) []float64 {
	start := rowid * NumFeatures
	return idx.features[start : start+NumFeatures]
}

// All returns every loaded track, in rowid order. Callers must not mutate
// the returned slice.
func (idx *Index) All() []Track {
	return idx.tracks
}

// RawFeatures returns the full contiguous backing array of every track's
// feature vector, row-major: RawFeatures()[rowid*NumFeatures:][:NumFeatures]
// is equivalent to Features(rowid). It is exposed for the similarity
// engine's k-d tree, which indexes directly into the shared array rather
// than through a copy.
func (idx *Index) RawFeatures() []float64 {
	return idx.features
}

// Load performs the one-shot catalog read described in spec: BPM min/max,
// a full scan producing normalized tracks and scaled feature rows, and
// genre interning into model. model must be freshly built (NewBuilder) and
// is populated by Load; the caller calls model.SetGroups afterward once
// the configured genre groups are known.
func Load(ctx context.Context, dbPath string, model *genre.Model, opts NormalizeOptions) (*Index, error) {
	dsn := dbPath + "?access_mode=READ_ONLY&autoinstall_known_extensions=false&autoload_known_extensions=false"
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w: %w", err, ErrCatalogUnavailable)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("open catalog: %w: %w", err, ErrCatalogUnavailable)
	}

	return loadFromDB(ctx, db, model, opts)
}

// loadFromDB runs the scan/normalize pipeline against an already-open
// connection, split out from Load so it can be exercised against an
// in-memory DuckDB instance in tests without a READ_ONLY file on disk.
func loadFromDB(ctx context.Context, db *sql.DB, model *genre.Model, opts NormalizeOptions) (*Index, error) {
	minBPM, bpmRange, err := loadBPMRange(ctx, db)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		byFile:   make(map[string]int),
		MinBPM:   minBPM,
		BPMRange: bpmRange,
	}
	norm := newNormalizer(opts)
	idx.norm = norm

	cols := "file, title, artist, album, albumartist, genre, duration, ignore, rowid"
	for _, attr := range essentiaAttribs {
		cols += ", " + attr
	}
	rows, err := db.QueryContext(ctx, "SELECT "+cols+" FROM tracks")
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w: %w", err, ErrCatalogUnavailable)
	}
	defer rows.Close()

	scanned := 0
	for rows.Next() {
		scanned++
		var (
			file, title, artist, album, albumArtist string
			genreStr                                sql.NullString
			duration, ignore, rowid                 int
			raw                                      [NumAttribs]float64
		)
		dest := []any{&file, &title, &artist, &album, &albumArtist, &genreStr, &duration, &ignore, &rowid}
		for i := range raw {
			dest = append(dest, &raw[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w: %w", err, ErrCatalogUnavailable)
		}
		if ignore == 1 {
			continue
		}

		track := Track{
			File:         file,
			Title:        title,
			Artist:       artist,
			Album:        album,
			AlbumArtist:  albumArtist,
			NormTitle:    norm.title(title),
			NormArtist:   norm.artist(artist),
			NormAlbum:    norm.album(album),
			Duration:     duration,
			RowID:        len(idx.tracks),
		}

		if genreStr.Valid && genreStr.String != "" {
			names := splitGenres(genreStr.String)
			track.Genres = names
			track.IGenres = make([]int, len(names))
			for i, name := range names {
				track.IGenres[i] = model.Intern(name)
			}
		} else {
			track.Genres = []string{genre.NoGenre}
			track.IGenres = []int{0}
		}

		feats := make([]float64, NumFeatures)
		for i, attr := range essentiaAttribs {
			if attr == "bpm" {
				feats[i] = scaleBPM(raw[i], minBPM, bpmRange)
			} else {
				feats[i] = raw[i]
			}
		}
		feats[NumAttribs] = 5 // placeholder until the similarity engine first rebuilds

		idx.byFile[file] = track.RowID
		idx.tracks = append(idx.tracks, track)
		idx.features = append(idx.features, feats...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan catalog rows: %w: %w", err, ErrCatalogUnavailable)
	}
	if len(idx.tracks) == 0 {
		return nil, ErrCatalogEmpty
	}
	return idx, nil
}

func loadBPMRange(ctx context.Context, db *sql.DB) (minBPM, bpmRange float64, err error) {
	row := db.QueryRowContext(ctx, "SELECT min(bpm), max(bpm) FROM tracks")
	var maxBPM float64
	if err := row.Scan(&minBPM, &maxBPM); err != nil {
		return 0, 0, fmt.Errorf("read bpm range: %w: %w", err, ErrCatalogUnavailable)
	}
	bpmRange = maxBPM - minBPM
	if bpmRange == 0 {
		bpmRange = 1
	}
	return minBPM, bpmRange, nil
}

func scaleBPM(bpm, min, rng float64) float64 {
	return (bpm - min) / rng
}

func splitGenres(s string) []string {
	return strings.Split(s, genreSeparator)
}
