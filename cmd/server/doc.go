/*
Command server is the similarity API's entry point.

It loads a prebuilt acoustic-feature catalog (a DuckDB file produced
offline from Essentia analysis output), builds the genre model and k-d
tree similarity engine over it once, then serves two HTTP endpoints for
the lifetime of the process:

	GET/POST /api/similar  - N tracks similar to one or more seeds
	GET/POST /api/dump     - raw similar-track listing for one seed

# Configuration

Configuration is loaded via Koanf v2, layered over built-in defaults and
ESSENTIA_-prefixed environment variables (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Flags:

	-config string      path to the JSON configuration file (default "config.json")
	-log-level string   log level (trace,debug,info,warn,error); info when unset

# Lifecycle

	1. Parse flags, load config.json (internal/config)
	2. Initialize zerolog logging (internal/logging)
	3. Load the catalog into memory (internal/catalog)
	4. Build the genre model and similarity engine (internal/genre, internal/similarity)
	5. Serve HTTP until SIGINT/SIGTERM, then drain in-flight requests
*/
package main
