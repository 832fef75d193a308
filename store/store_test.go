package store

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/anitrack-cli/anitrack/filesystem"
	"github.com/anitrack-cli/anitrack/playlist"
	"github.com/anitrack-cli/anitrack/track"
)

func init() {
	filesystem.SetMemMapFs()
}

func sampleShow(url, title string, modified bool) *track.Show {
	list := playlist.Build(map[int]string{
		1: url + "/1.mp4",
		2: url + "/2.mp4",
	})

	return track.Restore(url, title, 42, list, modified)
}

func TestLoadSave(t *testing.T) {
	Convey("Given a store", t, func() {
		s := OpenAt("/tmp/store-roundtrip.json")

		Convey("Loading a missing snapshot fails with ErrStoreNotFound", func() {
			_, err := s.Load()
			So(err, ShouldWrap, ErrStoreNotFound)
		})

		Convey("Shows survive a save and load in order", func() {
			a := sampleShow("https://example.com/1-a.html", "A", true)
			b := sampleShow("https://example.com/2-b.html", "B", false)

			So(s.Save([]*track.Show{a, b}), ShouldBeNil)

			shows, err := s.Load()
			So(err, ShouldBeNil)
			So(shows, ShouldHaveLength, 2)

			So(shows[0].Title, ShouldEqual, "A")
			So(shows[0].Modified, ShouldBeTrue)
			So(shows[0].Playlist.Equal(a.Playlist), ShouldBeTrue)

			So(shows[1].Title, ShouldEqual, "B")
			So(shows[1].Modified, ShouldBeFalse)
		})

		Convey("A corrupt snapshot is an error, not an empty store", func() {
			So(filesystem.API().WriteFile("/tmp/store-corrupt.json", []byte("{"), 0o644), ShouldBeNil)

			_, err := OpenAt("/tmp/store-corrupt.json").Load()
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrStoreNotFound), ShouldBeFalse)
		})
	})
}

func TestUpsert(t *testing.T) {
	Convey("Given a store with two shows", t, func() {
		s := OpenAt("/tmp/store-upsert.json")

		a := sampleShow("https://example.com/1-a.html", "A", false)
		b := sampleShow("https://example.com/2-b.html", "B", false)
		So(s.Save([]*track.Show{a, b}), ShouldBeNil)

		Convey("Upserting an unknown show appends it", func() {
			c := sampleShow("https://example.com/3-c.html", "C", false)
			So(s.Upsert(c), ShouldBeNil)

			shows, err := s.Load()
			So(err, ShouldBeNil)
			So(shows, ShouldHaveLength, 3)
			So(shows[2].Title, ShouldEqual, "C")
		})

		Convey("Upserting a known show replaces it in place", func() {
			renamed := sampleShow("https://example.com/1-a.html", "A'", true)
			So(s.Upsert(renamed), ShouldBeNil)

			shows, err := s.Load()
			So(err, ShouldBeNil)
			So(shows, ShouldHaveLength, 2)
			So(shows[0].Title, ShouldEqual, "A'")
			So(shows[1].Title, ShouldEqual, "B")
		})

		Convey("Upserting into a missing store creates it", func() {
			fresh := OpenAt("/tmp/store-fresh.json")
			So(fresh.Upsert(a), ShouldBeNil)

			shows, err := fresh.Load()
			So(err, ShouldBeNil)
			So(shows, ShouldHaveLength, 1)
		})
	})
}

func TestRemove(t *testing.T) {
	Convey("Given a store with two shows", t, func() {
		s := OpenAt("/tmp/store-remove.json")

		a := sampleShow("https://example.com/1-a.html", "A", false)
		b := sampleShow("https://example.com/2-b.html", "B", false)
		So(s.Save([]*track.Show{a, b}), ShouldBeNil)

		Convey("Removing a known show keeps the rest", func() {
			So(s.Remove(a), ShouldBeNil)

			shows, err := s.Load()
			So(err, ShouldBeNil)
			So(shows, ShouldHaveLength, 1)
			So(shows[0].Title, ShouldEqual, "B")
		})

		Convey("Removing an unknown show fails", func() {
			c := sampleShow("https://example.com/3-c.html", "C", false)
			So(s.Remove(c), ShouldWrap, ErrNotFound)
		})
	})
}

func TestModified(t *testing.T) {
	Convey("Given a store", t, func() {
		s := OpenAt("/tmp/store-modified.json")

		Convey("Only dirty shows are reported", func() {
			a := sampleShow("https://example.com/1-a.html", "A", true)
			b := sampleShow("https://example.com/2-b.html", "B", false)
			c := sampleShow("https://example.com/3-c.html", "C", true)
			So(s.Save([]*track.Show{a, b, c}), ShouldBeNil)

			modified, err := s.Modified()
			So(err, ShouldBeNil)
			So(modified, ShouldHaveLength, 2)
			So(modified[0].Title, ShouldEqual, "A")
			So(modified[1].Title, ShouldEqual, "C")
		})

		Convey("No dirty shows is a distinct error", func() {
			a := sampleShow("https://example.com/1-a.html", "A", false)
			So(s.Save([]*track.Show{a}), ShouldBeNil)

			_, err := s.Modified()
			So(err, ShouldWrap, ErrNoneModified)
		})
	})
}

func TestPersisterContract(t *testing.T) {
	Convey("Store satisfies track.Persister", t, func() {
		var _ track.Persister = OpenAt("/tmp/store-contract.json")

		show := sampleShow("https://example.com/1-a.html", "A", false)
		s := OpenAt("/tmp/store-contract.json")

		So(show.Save(s), ShouldBeNil)
		So(show.Remove(s), ShouldBeNil)
	})
}
