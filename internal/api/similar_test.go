package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSimilar_MissingTrackIsBadRequest(t *testing.T) {
	t.Parallel()
	h := newTestHandler(5)
	req := httptest.NewRequest(http.MethodGet, "/api/similar", nil)
	rec := httptest.NewRecorder()

	h.Similar(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSimilar_UnknownSeedIsBadRequest(t *testing.T) {
	t.Parallel()
	h := newTestHandler(5)
	req := httptest.NewRequest(http.MethodGet, "/api/similar?track=doesnotexist.mp3", nil)
	rec := httptest.NewRecorder()

	h.Similar(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSimilar_ReturnsURLsOrderedBySimilarity(t *testing.T) {
	t.Parallel()
	h := newTestHandler(10)
	req := httptest.NewRequest(http.MethodGet, "/api/similar?track=fileA.mp3&count=5&shuffle=0", nil)
	rec := httptest.NewRecorder()

	h.Similar(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var urls []string
	if err := json.Unmarshal(rec.Body.Bytes(), &urls); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(urls) == 0 {
		t.Fatalf("expected at least one result, got none")
	}
	for _, u := range urls {
		if u == "/music/fileA.mp3" {
			t.Fatalf("seed track should never be returned as its own neighbor: %v", urls)
		}
	}
	// Track i's features are i/n, so distance from the seed grows with rowid.
	want := []string{"/music/fileB.mp3", "/music/fileC.mp3", "/music/fileD.mp3", "/music/fileE.mp3", "/music/fileF.mp3"}
	if len(urls) != len(want) {
		t.Fatalf("got %d results, want %d: %v", len(urls), len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Fatalf("urls = %v, want %v (ascending distance)", urls, want)
		}
	}
}

func TestSimilar_RepeatedQueryDoesNotRebuildTree(t *testing.T) {
	t.Parallel()
	h := newTestHandler(10)

	req1 := httptest.NewRequest(http.MethodGet, "/api/similar?track=fileA.mp3&shuffle=0", nil)
	h.Similar(httptest.NewRecorder(), req1)
	builds := h.Engine.BuildCount()

	req2 := httptest.NewRequest(http.MethodGet, "/api/similar?track=fileA.mp3&shuffle=0", nil)
	h.Similar(httptest.NewRecorder(), req2)

	if got := h.Engine.BuildCount(); got != builds {
		t.Fatalf("BuildCount changed on repeated same-context query: %d -> %d", builds, got)
	}
}

func TestSimilar_TextFormat(t *testing.T) {
	t.Parallel()
	h := newTestHandler(10)
	req := httptest.NewRequest(http.MethodGet, "/api/similar?track=fileA.mp3&count=5&shuffle=0&format=text", nil)
	rec := httptest.NewRecorder()

	h.Similar(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("Content-Type = %q", ct)
	}
}
