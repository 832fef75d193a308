// Package track implements the tracked show entity.
//
// A show couples a site URL with the last observed playlist and a dirty
// flag that records whether the playlist changed since the previous refresh.
package track

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/anitrack-cli/anitrack/playlist"
	"github.com/anitrack-cli/anitrack/source"
)

// ErrNoID is returned when a show URL carries no numeric identifier.
var ErrNoID = errors.New("show url has no numeric id")

var idPattern = regexp.MustCompile(`/(\d+)-`)

// ParseID extracts the numeric show identifier from a show page URL.
func ParseID(url string) (int, error) {
	groups := idPattern.FindStringSubmatch(url)
	if groups == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoID, url)
	}

	return lo.Must(strconv.Atoi(groups[1])), nil
}

// Show is a tracked show. Modified is true when the last UpdatePlaylist
// call observed a playlist different from the previously stored one, or
// when the playlist has been built for the first time.
type Show struct {
	URL      string
	Title    string
	ID       int
	Playlist playlist.Playlist
	Modified bool

	src   source.Source
	built bool
}

// New builds a show from its page URL, fetching the title from the site
// unless one is supplied, and performs the initial playlist fetch.
func New(src source.Source, url string, title mo.Option[string]) (*Show, error) {
	id, err := ParseID(url)
	if err != nil {
		return nil, err
	}

	show := &Show{
		URL: url,
		ID:  id,
		src: src,
	}

	if err = show.UpdatePlaylist(); err != nil {
		return nil, err
	}

	// a title handed over from search results wins over the fetched one,
	// it is what the user picked
	if t, ok := title.Get(); ok {
		show.Title = t
	}

	return show, nil
}

// Restore rebuilds a show from persisted state without touching the network.
func Restore(url, title string, id int, list playlist.Playlist, modified bool) *Show {
	return &Show{
		URL:      url,
		Title:    title,
		ID:       id,
		Playlist: list,
		Modified: modified,
		built:    true,
	}
}

// Bind attaches a source to a restored show so it can refresh itself.
func (s *Show) Bind(src source.Source) {
	s.src = src
}

// UpdatePlaylist fetches the current episode set and replaces the stored
// playlist with it. Modified becomes true on the first build and whenever
// the new playlist differs structurally from the old one. When the playlist
// changed, the title is re-fetched as well since sites rename shows as
// seasons conclude.
func (s *Show) UpdatePlaylist() error {
	if s.src == nil {
		return errors.New("show is not bound to a source")
	}

	episodes, err := s.src.Episodes(s.URL)
	if err != nil {
		return err
	}

	fresh := playlist.FromLabels(episodes)

	changed := !s.built || !s.Playlist.Equal(fresh)
	s.Modified = changed
	s.Playlist = fresh
	s.built = true

	if changed {
		title, err := s.src.Title(s.URL)
		if err != nil {
			return err
		}

		s.Title = title
	}

	return nil
}

// Equal reports whether both shows refer to the same page with the same
// title and playlist. The dirty flag does not participate.
func (s *Show) Equal(other *Show) bool {
	return s.URL == other.URL &&
		s.Title == other.Title &&
		s.Playlist.Equal(other.Playlist)
}

func (s *Show) String() string {
	return s.Title
}

// Persister stores shows between runs.
type Persister interface {
	Upsert(show *Show) error
	Remove(show *Show) error
}

// Save writes the show through the given persister.
func (s *Show) Save(p Persister) error {
	return p.Upsert(s)
}

// Remove deletes the show from the given persister.
func (s *Show) Remove(p Persister) error {
	return p.Remove(s)
}
