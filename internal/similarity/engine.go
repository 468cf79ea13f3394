// Package similarity implements the k-d tree nearest-neighbor search over
// the catalog's feature index, with a per-query mutable genre-distance
// dimension and a cache that avoids rebuilding the tree for back-to-back
// queries sharing the same genre context.
package similarity

import (
	"context"
	"math"
	"sync"

	"github.com/CDrummond/essentia-api/internal/catalog"
	"github.com/CDrummond/essentia-api/internal/genre"
)

// MaxSim normalizes a raw Euclidean distance in the 13-dimensional feature
// space into a [0,1] similarity score: sqrt(13) is the farthest possible
// distance between two points whose coordinates are each in [0,1].
var MaxSim = math.Sqrt(float64(dims))

// Neighbor is one result of a Query: a catalog rowid and its similarity to
// the seed, in [0,1] where 0 is identical.
type Neighbor struct {
	RowID      int
	Similarity float64
}

// cacheKey identifies the genre context the tree was last built under.
type cacheKey struct {
	matchAllGenres bool
	seedGenre      int
}

// Engine owns the mutable 13th feature column and the cached k-d tree built
// over it. Both are guarded by a single mutex: the rebuild cost dominates
// contention, so finer-grained locking buys nothing (see the concurrency
// design this mirrors).
type Engine struct {
	mu    sync.Mutex
	index *catalog.Index
	genre *genre.Model

	tree       *kdTree
	key        cacheKey
	haveKey    bool
	buildCount uint64

	// OnRebuild, if set, is called after each tree rebuild; used to feed
	// the tree-rebuild Prometheus counter.
	OnRebuild func()
}

// NewEngine creates an Engine over a loaded catalog index and genre model.
// Both must already be fully populated (Load + SetGroups) before use.
func NewEngine(index *catalog.Index, model *genre.Model) *Engine {
	return &Engine{index: index, genre: model}
}

// BuildCount returns the number of times the k-d tree has been rebuilt,
// exposed for tests verifying that back-to-back same-context queries are
// serviced without a rebuild.
func (e *Engine) BuildCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildCount
}

// Query returns the k nearest catalog entries to seedRowID, ascending by
// distance, never including the seed itself. k is count+num_skip from the
// caller's perspective; Query internally runs k-NN for k+1 to account for
// the seed always matching itself at distance 0.
func (e *Engine) Query(ctx context.Context, seedRowID int, k int, matchAllGenres bool) ([]Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := e.index.Track(seedRowID)
	seedGenre := 0
	if len(seed.IGenres) > 0 {
		seedGenre = seed.IGenres[0]
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	key := cacheKey{matchAllGenres: matchAllGenres, seedGenre: seedGenre}
	if !e.haveKey || key != e.key {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.rebuildLocked(key)
	}

	n := e.index.Len()
	want := k + 1
	if want > n {
		want = n
	}
	h := newBoundedHeap(want)

	point := make([]float64, dims)
	copy(point, e.index.Features(seedRowID))
	point[dims-1] = 0 // the seed sits at the origin of the genre dimension

	e.tree.query(point, h)

	results := h.sorted()
	out := make([]Neighbor, 0, len(results))
	for _, c := range results {
		if c.rowid == seedRowID {
			continue
		}
		out = append(out, Neighbor{RowID: c.rowid, Similarity: math.Sqrt(c.distSq) / MaxSim})
	}
	return out, nil
}

// rebuildLocked recomputes the genre-distance column for every track under
// key and rebuilds the k-d tree. Caller must hold e.mu.
func (e *Engine) rebuildLocked(key cacheKey) {
	n := e.index.Len()
	rowids := make([]int, n)
	for i := 0; i < n; i++ {
		track := e.index.Track(i)
		primary := 0
		if len(track.IGenres) > 0 {
			primary = track.IGenres[0]
		}
		feats := e.index.Features(i)
		if key.matchAllGenres {
			feats[dims-1] = 0
		} else {
			feats[dims-1] = e.genre.Diff(key.seedGenre, primary)
		}
		rowids[i] = i
	}

	e.tree = buildKDTree(e.index.RawFeatures(), rowids)
	e.key = key
	e.haveKey = true
	e.buildCount++
	if e.OnRebuild != nil {
		e.OnRebuild()
	}
}
