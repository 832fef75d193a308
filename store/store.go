// Package store persists tracked shows as a single versioned JSON snapshot.
//
// The snapshot is read fully, mutated in memory and written back whole.
// No file locking is done, the store assumes a single process at a time.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anitrack-cli/anitrack/filesystem"
	"github.com/anitrack-cli/anitrack/playlist"
	"github.com/anitrack-cli/anitrack/track"
	"github.com/anitrack-cli/anitrack/where"
)

const version = 1

var (
	// ErrStoreNotFound is returned when no snapshot exists yet.
	ErrStoreNotFound = errors.New("store file does not exist")

	// ErrNotFound is returned when a show is not in the store.
	ErrNotFound = errors.New("show not in store")

	// ErrNoneModified is returned by Modified when no tracked show has
	// unseen playlist changes.
	ErrNoneModified = errors.New("no tracked show has new episodes")
)

type record struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	ID       int      `json:"id"`
	Episodes []string `json:"episodes"`
	Modified bool     `json:"modified"`
}

type snapshot struct {
	Version int      `json:"version"`
	Shows   []record `json:"shows"`
}

// Store is a handle on the snapshot file.
type Store struct {
	path string
}

// Open returns a store over the configured snapshot path.
func Open() *Store {
	return &Store{path: where.Store()}
}

// OpenAt returns a store over an explicit snapshot path.
func OpenAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all tracked shows in stored order.
func (s *Store) Load() ([]*track.Show, error) {
	contents, err := filesystem.API().ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, s.path)
		}

		return nil, err
	}

	var snap snapshot
	if err = json.Unmarshal(contents, &snap); err != nil {
		return nil, fmt.Errorf("store file %s is corrupt: %w", s.path, err)
	}

	if snap.Version != version {
		return nil, fmt.Errorf("store file %s has unsupported version %d", s.path, snap.Version)
	}

	shows := make([]*track.Show, len(snap.Shows))
	for i, r := range snap.Shows {
		episodes := make(map[int]string, len(r.Episodes))
		for j, url := range r.Episodes {
			episodes[j+1] = url
		}

		shows[i] = track.Restore(r.URL, r.Title, r.ID, playlist.Build(episodes), r.Modified)
	}

	return shows, nil
}

// Save writes the given shows as a fresh snapshot, replacing any previous one.
// The write goes through a temporary file so a crash cannot leave a torn store.
func (s *Store) Save(shows []*track.Show) error {
	snap := snapshot{
		Version: version,
		Shows:   make([]record, len(shows)),
	}

	for i, show := range shows {
		snap.Shows[i] = record{
			URL:      show.URL,
			Title:    show.Title,
			ID:       show.ID,
			Episodes: show.Playlist.URLs(),
			Modified: show.Modified,
		}
	}

	contents, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	if err = filesystem.API().MkdirAll(filepath.Dir(s.path), os.ModePerm); err != nil {
		return err
	}

	temp := s.path + ".tmp"
	if err = filesystem.API().WriteFile(temp, contents, os.ModePerm); err != nil {
		return err
	}

	return filesystem.API().Rename(temp, s.path)
}

// Upsert replaces the stored show with the given one's URL, keeping its
// position, or appends it when no stored show has that URL. URL is the
// identity here: a refresh may have renamed the show or grown its playlist
// and must still land on the old record.
func (s *Store) Upsert(show *track.Show) error {
	shows, err := s.Load()
	if err != nil && !errors.Is(err, ErrStoreNotFound) {
		return err
	}

	replaced := false
	for i, stored := range shows {
		if stored.URL == show.URL {
			shows[i] = show
			replaced = true

			break
		}
	}

	if !replaced {
		shows = append(shows, show)
	}

	return s.Save(shows)
}

// Remove deletes the first stored show with the given show's URL.
func (s *Store) Remove(show *track.Show) error {
	shows, err := s.Load()
	if err != nil {
		return err
	}

	for i, stored := range shows {
		if stored.URL == show.URL {
			return s.Save(append(shows[:i], shows[i+1:]...))
		}
	}

	return fmt.Errorf("%w: %s", ErrNotFound, show.URL)
}

// Modified returns the tracked shows with unseen playlist changes,
// in stored order.
func (s *Store) Modified() ([]*track.Show, error) {
	shows, err := s.Load()
	if err != nil {
		return nil, err
	}

	var modified []*track.Show
	for _, show := range shows {
		if show.Modified {
			modified = append(modified, show)
		}
	}

	if len(modified) == 0 {
		return nil, ErrNoneModified
	}

	return modified, nil
}
