package playlist

import (
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseOrdinal(t *testing.T) {
	Convey("Given episode labels", t, func() {
		Convey("A numbered label yields its number", func() {
			So(ParseOrdinal("12 серия"), ShouldEqual, 12)
			So(ParseOrdinal("1 серия"), ShouldEqual, 1)
			So(ParseOrdinal("Episode 105"), ShouldEqual, 105)
		})

		Convey("Only the first digit run counts", func() {
			So(ParseOrdinal("3 серия (2 сезон)"), ShouldEqual, 3)
		})

		Convey("A label without digits yields MovieOrdinal", func() {
			So(ParseOrdinal("Фильм"), ShouldEqual, MovieOrdinal)
			So(ParseOrdinal("OVA"), ShouldEqual, MovieOrdinal)
		})
	})
}

func TestBuild(t *testing.T) {
	Convey("Given ordinal-keyed entries", t, func() {
		p := Build(map[int]string{
			2: "http://example.com/2",
			1: "http://example.com/1",
			3: "http://example.com/3",
		})

		Convey("Episodes come out in ascending ordinal order", func() {
			So(p.URLs(), ShouldResemble, []string{
				"http://example.com/1",
				"http://example.com/2",
				"http://example.com/3",
			})
		})

		Convey("A movie sorts before the first episode", func() {
			withMovie := Build(map[int]string{
				1:            "http://example.com/1",
				MovieOrdinal: "http://example.com/movie",
			})

			So(withMovie.URLs()[0], ShouldEqual, "http://example.com/movie")
		})
	})
}

func TestFromLabels(t *testing.T) {
	Convey("Given label-keyed entries", t, func() {
		p := FromLabels(map[string]string{
			"10 серия": "http://example.com/10",
			"2 серия":  "http://example.com/2",
			"Фильм":    "http://example.com/movie",
		})

		Convey("Order follows parsed ordinals, not label strings", func() {
			So(p.URLs(), ShouldResemble, []string{
				"http://example.com/movie",
				"http://example.com/2",
				"http://example.com/10",
			})
		})
	})
}

func TestGet(t *testing.T) {
	Convey("Given a playlist of three episodes", t, func() {
		p := Build(map[int]string{1: "a", 2: "b", 3: "c"})

		Convey("Positions are 1-based", func() {
			url, err := p.Get(mo.Some(1))
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "a")
		})

		Convey("An absent index selects the last episode", func() {
			url, err := p.Get(mo.None[int]())
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "c")

			url, err = p.Last()
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "c")
		})

		Convey("Out of range positions fail", func() {
			_, err := p.Get(mo.Some(0))
			So(err, ShouldWrap, ErrIndexOutOfRange)

			_, err = p.Get(mo.Some(4))
			So(err, ShouldWrap, ErrIndexOutOfRange)
		})

		Convey("The empty playlist has no last episode", func() {
			var empty Playlist

			_, err := empty.Last()
			So(err, ShouldWrap, ErrIndexOutOfRange)
		})
	})
}

func TestSlice(t *testing.T) {
	Convey("Given a playlist of four episodes", t, func() {
		p := Build(map[int]string{1: "a", 2: "b", 3: "c", 4: "d"})

		Convey("Both bounds are inclusive", func() {
			urls, err := p.Slice(mo.Some(2), mo.Some(3))
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{"b", "c"})
		})

		Convey("Absent bounds default to the ends", func() {
			urls, err := p.Slice(mo.None[int](), mo.Some(2))
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{"a", "b"})

			urls, err = p.Slice(mo.Some(3), mo.None[int]())
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{"c", "d"})

			urls, err = p.Slice(mo.None[int](), mo.None[int]())
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{"a", "b", "c", "d"})
		})

		Convey("Start after stop fails", func() {
			_, err := p.Slice(mo.Some(3), mo.Some(2))
			So(err, ShouldWrap, ErrIndexOutOfRange)
		})

		Convey("Bounds outside the playlist fail", func() {
			_, err := p.Slice(mo.Some(0), mo.Some(2))
			So(err, ShouldWrap, ErrIndexOutOfRange)

			_, err = p.Slice(mo.Some(2), mo.Some(5))
			So(err, ShouldWrap, ErrIndexOutOfRange)
		})
	})
}

func TestIndexOf(t *testing.T) {
	Convey("Given a playlist", t, func() {
		p := Build(map[int]string{1: "a", 2: "b"})

		Convey("A known URL yields its 1-based position", func() {
			i, err := p.IndexOf("b")
			So(err, ShouldBeNil)
			So(i, ShouldEqual, 2)
		})

		Convey("An unknown URL fails", func() {
			_, err := p.IndexOf("z")
			So(err, ShouldWrap, ErrNotFound)
		})
	})
}

func TestEqual(t *testing.T) {
	Convey("Given playlists", t, func() {
		a := Build(map[int]string{1: "a", 2: "b"})
		b := Build(map[int]string{1: "a", 2: "b"})
		c := Build(map[int]string{1: "a"})

		Convey("Same URLs in the same order are equal", func() {
			So(a.Equal(b), ShouldBeTrue)
		})

		Convey("Different contents are not equal", func() {
			So(a.Equal(c), ShouldBeFalse)
		})

		Convey("Compare orders lexicographically", func() {
			So(a.Compare(b), ShouldEqual, 0)
			So(c.Compare(a), ShouldBeLessThan, 0)
		})
	})
}

func TestImmutability(t *testing.T) {
	Convey("Mutating a returned slice leaves the playlist intact", t, func() {
		p := Build(map[int]string{1: "a", 2: "b"})

		urls := p.URLs()
		urls[0] = "mutated"

		So(p.URLs()[0], ShouldEqual, "a")
	})
}
