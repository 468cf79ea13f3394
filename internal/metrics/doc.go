/*
Package metrics provides Prometheus instrumentation for the similarity API.

Metrics are exposed at /metrics in Prometheus text format.

Available metrics:
  - api_requests_total: request count (counter), labels method/endpoint/status_code
  - api_request_duration_seconds: request latency (histogram), labels method/endpoint
  - api_active_requests: in-flight request count (gauge)
  - api_rate_limit_hits_total: rejected requests (counter), label endpoint
  - catalog_tracks_total: usable tracks loaded (gauge)
  - engine_tree_rebuilds_total: k-d tree rebuild count (counter)
  - engine_query_duration_seconds: k-NN query latency (histogram)
*/
package metrics
