package catalog

import "strings"

// NormalizeOptions overrides the default tag-stripping lists used when
// normalizing album, artist, and title strings. A nil slice keeps the
// built-in default for that field.
type NormalizeOptions struct {
	Album  []string
	Artist []string
	Title  []string
}

var defaultAlbumTags = []string{
	"anniversary edition", "deluxe edition", "expanded edition",
	"extended edition", "special edition", "deluxe", "deluxe version",
	"extended deluxe", "super deluxe", "re-issue", "remastered", "mixed",
	"remixed and remastered",
}

var defaultArtistTags = []string{"feat", "ft", "featuring"}

var defaultTitleTags = []string{
	"demo", "demo version", "radio edit", "remastered", "session version",
	"live", "live acoustic", "acoustic", "industrial remix",
	"alternative version", "alternate version", "original mix",
	"bonus track", "re-recording", "alternate",
}

// normalizer holds the resolved (possibly overridden) tag lists used for
// album/artist/title normalization.
type normalizer struct {
	albumTags  []string
	artistTags []string
	titleTags  []string
}

func newNormalizer(opts NormalizeOptions) *normalizer {
	n := &normalizer{
		albumTags:  defaultAlbumTags,
		artistTags: defaultArtistTags,
		titleTags:  defaultTitleTags,
	}
	if len(opts.Album) > 0 {
		n.albumTags = lowerAll(opts.Album)
	}
	if len(opts.Artist) > 0 {
		n.artistTags = lowerAll(opts.Artist)
	}
	if len(opts.Title) > 0 {
		n.titleTags = lowerAll(opts.Title)
	}
	return n
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}

// normalizeStr lowercases by the caller, strips punctuation noise, and
// collapses whitespace. It mirrors the original service's normalize_str.
func normalizeStr(s string) string {
	if s == "" {
		return s
	}
	r := strings.NewReplacer(".", "", "(", "", ")", "", "[", "", "]", "", " & ", " and ")
	s = r.Replace(s)
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

func stripTags(lower string, tags []string) string {
	for _, tag := range tags {
		lower = strings.ReplaceAll(lower, " ("+tag+")", "")
		lower = strings.ReplaceAll(lower, " ["+tag+"]", "")
	}
	return lower
}

func (n *normalizer) album(album string) string {
	if album == "" {
		return album
	}
	return normalizeStr(stripTags(strings.ToLower(album), n.albumTags))
}

func (n *normalizer) title(title string) string {
	if title == "" {
		return title
	}
	return normalizeStr(stripTags(strings.ToLower(title), n.titleTags))
}

// artist truncates at the earliest " feat "/" ft "/" featuring " occurring
// past index 2, matching the original's guard against truncating a very
// short artist name that happens to contain one of the tags.
func (n *normalizer) artist(artist string) string {
	if artist == "" {
		return artist
	}
	ar := normalizeStr(strings.ToLower(artist))
	cut := -1
	for _, tag := range n.artistTags {
		needle := " " + tag + " "
		if pos := strings.Index(ar, needle); pos > 2 && (cut < 0 || pos < cut) {
			cut = pos
		}
	}
	if cut >= 0 {
		return ar[:cut]
	}
	return ar
}
