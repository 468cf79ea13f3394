/*
Package api implements the HTTP request surface of the similarity engine:
/api/similar and /api/dump, plus liveness/readiness and metrics endpoints.

Key components:

  - Router/SetupChi: Chi route tree and middleware stack
  - Handler: request handlers for similar/dump/healthz/readyz
  - requestParams: GET query / POST JSON body parameter access, mirroring
    the original service's "isPost ? body[key] : query[key][0]" convention
  - ResponseWriter: the error envelope used for 400/404/500 responses

Response bodies for /api/similar and /api/dump are never wrapped in the
error envelope: a success response is a bare JSON array, TSV, or
newline-separated text, exactly as the format parameter requests.

Usage:

	handler := api.NewHandler(index, model, engine, cfg)
	router := api.NewRouter(handler, nil)
	http.ListenAndServe(addr, router.SetupChi())

See also:

  - internal/catalog: the feature index handlers query against
  - internal/similarity: the k-d tree engine queried per seed
  - internal/selection: the classify/backfill/shuffle pipeline
*/
package api
