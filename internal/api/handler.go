package api

import (
	"context"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/CDrummond/essentia-api/internal/catalog"
	"github.com/CDrummond/essentia-api/internal/config"
	"github.com/CDrummond/essentia-api/internal/cuepath"
	"github.com/CDrummond/essentia-api/internal/genre"
	"github.com/CDrummond/essentia-api/internal/metrics"
	"github.com/CDrummond/essentia-api/internal/similarity"
)

// Handler serves the similarity API's HTTP routes against a loaded catalog,
// genre model, and similarity engine. All fields are read-only after
// construction; the Engine and Index are themselves safe for concurrent use.
type Handler struct {
	Index  *catalog.Index
	Genre  *genre.Model
	Engine *similarity.Engine
	Config *config.Config
}

// NewHandler builds a Handler over an already-loaded catalog index, genre
// model, and similarity engine.
func NewHandler(index *catalog.Index, model *genre.Model, engine *similarity.Engine, cfg *config.Config) *Handler {
	return &Handler{Index: index, Genre: model, Engine: engine, Config: cfg}
}

// decodeRequestPath converts an incoming track/previous parameter into the
// catalog's stored file form: URL-decode, strip a file:// or tmp:// scheme,
// strip the configured library root, then apply the cue-sheet convention.
// Mirrors original_source/lib/app.py's decode().
func decodeRequestPath(raw, root string) string {
	u, err := url.QueryUnescape(raw)
	if err != nil {
		u = raw
	}
	switch {
	case strings.HasPrefix(u, "file://"):
		u = u[len("file://"):]
	case strings.HasPrefix(u, "tmp://"):
		u = u[len("tmp://"):]
	}
	u = strings.TrimPrefix(u, root)
	return cuepath.FromRequestPath(u)
}

// trackURL rebuilds the response URL for a catalog file: prepend the
// library root and re-apply the cue-sheet convention in reverse.
func trackURL(file, root string) string {
	return cuepath.ToResponseURL(root + file)
}

// queryEngine runs one k-NN lookup against the similarity engine, recording
// its wall-clock duration (including any tree rebuild it triggers) against
// the engine_query_duration_seconds histogram.
func queryEngine(ctx context.Context, engine *similarity.Engine, seedRowID, k int, matchAllGenres bool) ([]similarity.Neighbor, error) {
	start := time.Now()
	neighbors, err := engine.Query(ctx, seedRowID, k, matchAllGenres)
	metrics.RecordEngineQuery(time.Since(start))
	return neighbors, err
}

// newRNG returns a source of randomness for one request's artist-alternates
// and shuffle steps. Each request gets its own *rand.Rand so concurrent
// requests never contend on a shared source.
func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(rand.Int63()))
}
