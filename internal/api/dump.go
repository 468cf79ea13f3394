package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/CDrummond/essentia-api/internal/catalog"
)

const defaultDumpCount = 1000

// essentiaAttribs mirrors the acoustic columns emitted by the "textall"
// dump format, in catalog column order.
var essentiaAttribs = []string{
	"danceable", "aggressive", "electronic", "acoustic", "happy", "party",
	"relaxed", "sad", "dark", "tonal", "voice", "bpm",
}

type dumpRow struct {
	File       string   `json:"file"`
	Similarity float64  `json:"similarity"`
	Genres     []string `json:"genres"`
}

// Dump handles GET/POST /api/dump: a raw similar-track listing for a
// single seed, with no selection/shuffle pipeline applied.
func (h *Handler) Dump(w http.ResponseWriter, r *http.Request) {
	p, err := parseRequestParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	tracks := p.strs("track")
	if len(tracks) != 1 {
		writeError(w, r, http.StatusBadRequest, ErrMalformedRequest)
		return
	}

	root := h.Config.LMS
	file := decodeRequestPath(tracks[0], root)
	seedRowID, err := h.Index.Lookup(file)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}

	matchAllGenres := p.bool01("matchallgenres", false)
	filterArtist := p.bool01("filterartist", false)

	count, err := p.int("count", defaultDumpCount)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if count <= 0 {
		count = defaultDumpCount
	}

	seedArtist := h.Index.Track(seedRowID).NormArtist

	neighbors, err := queryEngine(r.Context(), h.Engine, seedRowID, count+1, matchAllGenres)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	rows := make([]dumpRow, 0, len(neighbors))
	for _, n := range neighbors {
		track := h.Index.Track(n.RowID)
		if filterArtist && track.NormArtist == seedArtist {
			continue
		}
		rows = append(rows, dumpRow{File: track.File, Similarity: n.Similarity, Genres: track.Genres})
		if len(rows) >= count {
			break
		}
	}

	format := p.str("format", "")
	switch format {
	case "text-url":
		writeText(w, dumpTextURL(h.Index, seedRowID, rows, root))
	case "text", "textall":
		writeText(w, dumpTSV(h.Index, rows, format == "textall"))
	default:
		writeJSONArray(w, rows)
	}
}

func dumpTextURL(index *catalog.Index, seedRowID int, rows []dumpRow, root string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, trackURL(index.Track(seedRowID).File, root))
	for _, row := range rows {
		lines = append(lines, trackURL(row.File, root))
	}
	return strings.Join(lines, "\n")
}

func dumpTSV(index *catalog.Index, rows []dumpRow, all bool) string {
	header := "file\tsimilarity\tgenres"
	if all {
		for _, attr := range essentiaAttribs {
			header += "\t" + attr
		}
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, header)
	for _, row := range rows {
		line := fmt.Sprintf("%s\t%f\t%s", row.File, row.Similarity, strings.Join(row.Genres, ";"))
		if all {
			rowid, err := index.Lookup(row.File)
			if err == nil {
				feats := index.Features(rowid)
				for i := range essentiaAttribs {
					line += fmt.Sprintf("\t%f", feats[i])
				}
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
