package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

// requestParams abstracts over the two shapes a request can arrive in:
// GET query parameters (repeatable, always string-valued) and a POST JSON
// body (array values for repeatable fields, scalar values for the rest).
// Mirrors the original service's get_value(params, key, default, isPost).
type requestParams struct {
	isPost bool
	query  map[string][]string
	body   map[string]any
}

// parseRequestParams reads either r.URL.Query() (GET) or a JSON object body
// (POST) into a requestParams. Returns ErrMalformedRequest if a POST body is
// present but not valid JSON, or empty.
func parseRequestParams(r *http.Request) (*requestParams, error) {
	if r.Method == http.MethodGet {
		return &requestParams{query: map[string][]string(r.URL.Query())}, nil
	}

	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", ErrMalformedRequest)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		return nil, fmt.Errorf("decode JSON body: %w", ErrMalformedRequest)
	}
	return &requestParams{isPost: true, body: body}, nil
}

// has reports whether key is present at all.
func (p *requestParams) has(key string) bool {
	if p.isPost {
		_, ok := p.body[key]
		return ok
	}
	_, ok := p.query[key]
	return ok
}

// str returns key's scalar value, or def if absent.
func (p *requestParams) str(key, def string) string {
	if p.isPost {
		v, ok := p.body[key]
		if !ok {
			return def
		}
		return fmt.Sprint(v)
	}
	vs, ok := p.query[key]
	if !ok || len(vs) == 0 {
		return def
	}
	return vs[0]
}

// int parses key's scalar value as an integer, or def if absent. An
// unparseable value yields ErrMalformedRequest.
func (p *requestParams) int(key string, def int) (int, error) {
	if !p.has(key) {
		return def, nil
	}
	s := p.str(key, "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, s, ErrMalformedRequest)
	}
	return n, nil
}

// bool01 parses key as a "0"/"1" flag, or def if absent.
func (p *requestParams) bool01(key string, def bool) bool {
	return p.str(key, map[bool]string{true: "1", false: "0"}[def]) == "1"
}

// strs returns key's repeatable (array) values, or nil if absent.
func (p *requestParams) strs(key string) []string {
	if p.isPost {
		v, ok := p.body[key]
		if !ok {
			return nil
		}
		arr, ok := v.([]any)
		if !ok {
			return []string{fmt.Sprint(v)}
		}
		out := make([]string, len(arr))
		for i, e := range arr {
			out[i] = fmt.Sprint(e)
		}
		return out
	}
	return p.query[key]
}
