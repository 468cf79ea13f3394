// Package config loads and validates the similarity API's JSON configuration
// file, layered with environment variable overrides via Koanf v2.
package config

// Config is the fully resolved, validated service configuration.
type Config struct {
	LMS string `koanf:"lms"`
	DB  string `koanf:"db"`

	Port int    `koanf:"port"`
	Host string `koanf:"host"`

	Genres      [][]string `koanf:"genres"`
	IgnoreGenre []string   `koanf:"ignoregenre"`

	Album  []string `koanf:"album"`
	Artist []string `koanf:"artist"`
	Title  []string `koanf:"title"`

	LogLevel string `koanf:"-"`
}

// MatchAllGenres reports whether cfg.IgnoreGenre forces match_all_genres
// for every request regardless of seed artist, i.e. it was configured as
// the literal "*" rather than a list of artist names.
func (c *Config) MatchAllGenres() bool {
	return len(c.IgnoreGenre) == 1 && c.IgnoreGenre[0] == "*"
}

// IgnoreGenreForArtist reports whether match_all_genres should be forced
// for a seed by the given (raw, non-normalized) artist name.
func (c *Config) IgnoreGenreForArtist(artist string) bool {
	if c.MatchAllGenres() {
		return true
	}
	for _, a := range c.IgnoreGenre {
		if a == artist {
			return true
		}
	}
	return false
}
