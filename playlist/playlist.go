// Package playlist implements the ordered, immutable episode list of a show.
// Positions are 1-based everywhere.
package playlist

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"unicode"

	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

var (
	// ErrIndexOutOfRange is returned when a 1-based position falls outside the playlist.
	ErrIndexOutOfRange = errors.New("episode index out of range")

	// ErrNotFound is returned when a URL is not part of the playlist.
	ErrNotFound = errors.New("url not in playlist")
)

// MovieOrdinal is the ordinal assigned to labels without a number,
// such as films and specials. It sorts before every real episode number.
const MovieOrdinal = math.MinInt

// ParseOrdinal extracts the episode number from a label.
// The first run of digits wins; labels with no digits get MovieOrdinal.
func ParseOrdinal(label string) int {
	start := -1
	for i, r := range label {
		if unicode.IsDigit(r) {
			if start == -1 {
				start = i
			}
			continue
		}

		if start != -1 {
			return mustAtoi(label[start:i])
		}
	}

	if start != -1 {
		return mustAtoi(label[start:])
	}

	return MovieOrdinal
}

func mustAtoi(s string) int {
	var n int
	for _, r := range s {
		n = n*10 + int(r-'0')
	}

	return n
}

// Playlist is an immutable ordered list of episode URLs.
// The zero value is a valid empty playlist.
type Playlist struct {
	urls []string
}

// Build constructs a playlist from ordinal-keyed entries, ascending by ordinal.
func Build(entries map[int]string) Playlist {
	ordinals := make([]int, 0, len(entries))
	for ordinal := range entries {
		ordinals = append(ordinals, ordinal)
	}

	sort.Ints(ordinals)

	urls := make([]string, 0, len(entries))
	for _, ordinal := range ordinals {
		urls = append(urls, entries[ordinal])
	}

	return Playlist{urls: urls}
}

// FromLabels constructs a playlist from label-keyed entries, ordering by the
// ordinal parsed out of each label. When two labels share an ordinal the
// lexicographically later label wins, which keeps the result deterministic.
func FromLabels(entries map[string]string) Playlist {
	labels := make([]string, 0, len(entries))
	for label := range entries {
		labels = append(labels, label)
	}

	sort.Strings(labels)

	byOrdinal := make(map[int]string, len(entries))
	for _, label := range labels {
		byOrdinal[ParseOrdinal(label)] = entries[label]
	}

	return Build(byOrdinal)
}

// Len returns the number of episodes.
func (p Playlist) Len() int {
	return len(p.urls)
}

// Get returns the URL at the given 1-based position.
// An absent index selects the last episode.
func (p Playlist) Get(index mo.Option[int]) (string, error) {
	i, ok := index.Get()
	if !ok {
		i = len(p.urls)
	}

	if i < 1 || i > len(p.urls) {
		return "", fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(p.urls))
	}

	return p.urls[i-1], nil
}

// Last returns the URL of the final episode.
func (p Playlist) Last() (string, error) {
	return p.Get(mo.None[int]())
}

// Slice returns the URLs between the 1-based positions start and stop,
// both inclusive. An absent start means the beginning, an absent stop the end.
func (p Playlist) Slice(start, stop mo.Option[int]) ([]string, error) {
	from := start.OrElse(1)
	to := stop.OrElse(len(p.urls))

	if from > to {
		return nil, fmt.Errorf("%w: start %d after stop %d", ErrIndexOutOfRange, from, to)
	}

	if from < 1 || to > len(p.urls) {
		return nil, fmt.Errorf("%w: %d..%d of %d", ErrIndexOutOfRange, from, to, len(p.urls))
	}

	return slices.Clone(p.urls[from-1 : to]), nil
}

// IndexOf returns the 1-based position of the given URL.
func (p Playlist) IndexOf(url string) (int, error) {
	i := slices.Index(p.urls, url)
	if i == -1 {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, url)
	}

	return i + 1, nil
}

// URLs returns a copy of the underlying episode URLs in order.
func (p Playlist) URLs() []string {
	return slices.Clone(p.urls)
}

// Equal reports whether both playlists hold the same URLs in the same order.
func (p Playlist) Equal(other Playlist) bool {
	return slices.Equal(p.urls, other.urls)
}

// Compare orders playlists lexicographically by their URL sequences.
func (p Playlist) Compare(other Playlist) int {
	return slices.Compare(p.urls, other.urls)
}
