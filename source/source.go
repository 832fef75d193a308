// Package source defines the site adapter contract for show discovery and episode retrieval.
package source

import "errors"

// MinQueryLen is the minimum accepted length for a free-text search query.
const MinQueryLen = 4

var (
	// ErrQueryTooShort is returned for search queries shorter than MinQueryLen.
	ErrQueryTooShort = errors.New("search query must be at least 4 characters")

	// ErrNoResults is returned when a well-formed search query matches nothing.
	// It is distinct from transport failures, which are returned as-is.
	ErrNoResults = errors.New("search returned no results")
)

// SearchResult is a single show candidate produced by a search.
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (r *SearchResult) String() string {
	return r.Title
}

// Source translates one specific website into the normalized show/episode model.
// Implementations are registered explicitly with the provider package.
type Source interface {
	// Name returns the human-readable identifier for the site.
	Name() string

	// ID returns the unique identifier of the source.
	ID() string

	// Search executes a free-text query and returns an ordered list of candidates.
	Search(query string) ([]*SearchResult, error)

	// Title fetches the display title for a show page URL.
	Title(showURL string) (string, error)

	// Episodes fetches the current episode set for a show page URL as a
	// mapping from episode label (e.g. "12 серия", "Фильм") to download URL.
	Episodes(showURL string) (map[string]string, error)
}
