package track

import (
	"errors"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/anitrack-cli/anitrack/playlist"
	"github.com/anitrack-cli/anitrack/source"
)

type fakeSource struct {
	title    string
	episodes map[string]string
	err      error
}

func (f *fakeSource) Name() string { return "Fake" }
func (f *fakeSource) ID() string   { return "fake" }

func (f *fakeSource) Search(string) ([]*source.SearchResult, error) { return nil, nil }

func (f *fakeSource) Title(string) (string, error) {
	return f.title, f.err
}

func (f *fakeSource) Episodes(string) (map[string]string, error) {
	return f.episodes, f.err
}

const showURL = "https://animevost.org/tip/tv/2524-znatok-drevnostey.html"

func TestParseID(t *testing.T) {
	Convey("Given show page URLs", t, func() {
		Convey("The numeric id is extracted", func() {
			id, err := ParseID(showURL)
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 2524)
		})

		Convey("A URL without an id fails", func() {
			_, err := ParseID("https://animevost.org/about.html")
			So(err, ShouldWrap, ErrNoID)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given a source", t, func() {
		src := &fakeSource{
			title: "Znatok Drevnostey",
			episodes: map[string]string{
				"1 серия": "http://cdn.example.com/1.mp4",
				"2 серия": "http://cdn.example.com/2.mp4",
			},
		}

		Convey("A new show fetches title and playlist", func() {
			show, err := New(src, showURL, mo.None[string]())
			So(err, ShouldBeNil)

			So(show.ID, ShouldEqual, 2524)
			So(show.Title, ShouldEqual, "Znatok Drevnostey")
			So(show.Playlist.Len(), ShouldEqual, 2)

			Convey("The first build marks the show modified", func() {
				So(show.Modified, ShouldBeTrue)
			})
		})

		Convey("A supplied title wins over the fetched one", func() {
			show, err := New(src, showURL, mo.Some("Custom"))
			So(err, ShouldBeNil)
			So(show.Title, ShouldEqual, "Custom")
		})

		Convey("A URL without an id fails before any network call", func() {
			_, err := New(src, "https://animevost.org/about.html", mo.None[string]())
			So(err, ShouldWrap, ErrNoID)
		})
	})
}

func TestUpdatePlaylist(t *testing.T) {
	Convey("Given a tracked show", t, func() {
		src := &fakeSource{
			title: "Show",
			episodes: map[string]string{
				"1 серия": "http://cdn.example.com/1.mp4",
			},
		}

		show, err := New(src, showURL, mo.None[string]())
		So(err, ShouldBeNil)
		So(show.Modified, ShouldBeTrue)

		Convey("An identical refresh clears the flag", func() {
			So(show.UpdatePlaylist(), ShouldBeNil)
			So(show.Modified, ShouldBeFalse)
		})

		Convey("A new episode sets the flag and replaces the playlist", func() {
			src.episodes["2 серия"] = "http://cdn.example.com/2.mp4"

			So(show.UpdatePlaylist(), ShouldBeNil)
			So(show.Modified, ShouldBeTrue)
			So(show.Playlist.Len(), ShouldEqual, 2)
		})

		Convey("A removed episode also sets the flag", func() {
			src.episodes = map[string]string{}

			So(show.UpdatePlaylist(), ShouldBeNil)
			So(show.Modified, ShouldBeTrue)
			So(show.Playlist.Len(), ShouldEqual, 0)
		})

		Convey("The title is refreshed when the playlist changed", func() {
			src.episodes["2 серия"] = "http://cdn.example.com/2.mp4"
			src.title = "Show (2nd season)"

			So(show.UpdatePlaylist(), ShouldBeNil)
			So(show.Title, ShouldEqual, "Show (2nd season)")
		})

		Convey("The title stays put when nothing changed", func() {
			src.title = "Renamed"

			So(show.UpdatePlaylist(), ShouldBeNil)
			So(show.Title, ShouldEqual, "Show")
		})

		Convey("A fetch failure leaves the show untouched", func() {
			src.err = errors.New("boom")

			So(show.UpdatePlaylist(), ShouldNotBeNil)
			So(show.Playlist.Len(), ShouldEqual, 1)
		})

		Convey("An unbound show cannot refresh", func() {
			restored := Restore(showURL, "Show", 2524, playlist.Playlist{}, false)

			So(restored.UpdatePlaylist(), ShouldNotBeNil)

			restored.Bind(src)
			So(restored.UpdatePlaylist(), ShouldBeNil)
		})
	})
}

func TestRestore(t *testing.T) {
	Convey("Given persisted state", t, func() {
		list := playlist.Build(map[int]string{1: "http://cdn.example.com/1.mp4"})
		show := Restore(showURL, "Show", 2524, list, false)

		src := &fakeSource{
			title:    "Show",
			episodes: map[string]string{"1 серия": "http://cdn.example.com/1.mp4"},
		}
		show.Bind(src)

		Convey("A refresh matching the restored playlist is not a first build", func() {
			So(show.UpdatePlaylist(), ShouldBeNil)
			So(show.Modified, ShouldBeFalse)
		})
	})
}

func TestEqual(t *testing.T) {
	Convey("Given shows", t, func() {
		list := playlist.Build(map[int]string{1: "a"})

		a := Restore(showURL, "Show", 2524, list, false)
		b := Restore(showURL, "Show", 2524, list, true)
		c := Restore(showURL, "Other", 2524, list, false)

		Convey("Equality ignores the dirty flag", func() {
			So(a.Equal(b), ShouldBeTrue)
		})

		Convey("A different title breaks equality", func() {
			So(a.Equal(c), ShouldBeFalse)
		})
	})
}
