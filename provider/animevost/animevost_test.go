package animevost

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/anitrack-cli/anitrack/source"
)

const searchPage = `<html><body>
<div class="shortstory">
  <div class="shortstoryHead">
    <h1><a href="https://animevost.org/tip/tv/2524-znatok.html">Знаток древностей / Antique Expert [1-12]</a></h1>
  </div>
</div>
<div class="shortstory">
  <div class="shortstoryHead">
    <h1><a href="https://animevost.org/tip/tv/2525-other.html">Другой тайтл [1-24]</a></h1>
  </div>
</div>
</body></html>`

const showPage = `<html><body>
<div class="shortstoryHead"><h1> Знаток древностей / Antique Expert [1-12] </h1></div>
</body></html>`

const frontPage = `<html><body>
<table class="raspis raspis_fixed">
<tr><td><a href="https://animevost.org/tip/tv/2524-znatok.html">Знаток древностей</a></td></tr>
</table>
</body></html>`

func testSource(handler http.HandlerFunc) (*Animevost, *httptest.Server) {
	server := httptest.NewServer(handler)

	return &Animevost{
		client: server.Client(),
		site:   server.URL,
		api:    server.URL + "/v1/playlist",
	}, server
}

func TestSearch(t *testing.T) {
	Convey("Given the site search", t, func(c C) {
		src, server := testSource(func(w http.ResponseWriter, r *http.Request) {
			c.So(r.Method, ShouldEqual, http.MethodPost)
			c.So(r.ParseForm(), ShouldBeNil)
			c.So(r.PostForm.Get("story"), ShouldEqual, "знаток")
			c.So(r.PostForm.Get("do"), ShouldEqual, "search")

			fmt.Fprint(w, searchPage)
		})
		defer server.Close()

		Convey("Results carry title and show URL", func() {
			results, err := src.Search("знаток")
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 2)

			So(results[0].Title, ShouldEqual, "Знаток древностей / Antique Expert [1-12]")
			So(results[0].URL, ShouldEqual, "https://animevost.org/tip/tv/2524-znatok.html")
		})
	})

	Convey("A short query is rejected before any request", t, func() {
		src := New()

		_, err := src.Search("abc")
		So(err, ShouldWrap, source.ErrQueryTooShort)
	})

	Convey("An empty result page is a distinct error", t, func() {
		src, server := testSource(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html><body></body></html>")
		})
		defer server.Close()

		_, err := src.Search("nothing here")
		So(err, ShouldWrap, source.ErrNoResults)
	})
}

func TestTitle(t *testing.T) {
	Convey("Given a show page", t, func() {
		src, server := testSource(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, showPage)
		})
		defer server.Close()

		Convey("The heading text is the title, trimmed", func() {
			title, err := src.Title(server.URL + "/tip/tv/2524-znatok.html")
			So(err, ShouldBeNil)
			So(title, ShouldEqual, "Знаток древностей / Antique Expert [1-12]")
		})
	})
}

func TestEpisodes(t *testing.T) {
	Convey("Given the playlist API", t, func(c C) {
		src, server := testSource(func(w http.ResponseWriter, r *http.Request) {
			c.So(r.ParseForm(), ShouldBeNil)
			c.So(r.PostForm.Get("id"), ShouldEqual, "2524")

			fmt.Fprint(w, `[
				{"name": "1 серия", "hd": "http://cdn/hd/1.mp4", "std": "http://cdn/std/1.mp4"},
				{"name": "2 серия", "hd": "", "std": "http://cdn/std/2.mp4"},
				{"name": "", "hd": "http://cdn/hd/x.mp4", "std": ""}
			]`)
		})
		defer server.Close()

		Convey("HD is preferred, std is the fallback, nameless entries drop", func() {
			episodes, err := src.Episodes("https://animevost.org/tip/tv/2524-znatok.html")
			So(err, ShouldBeNil)

			So(episodes, ShouldResemble, map[string]string{
				"1 серия": "http://cdn/hd/1.mp4",
				"2 серия": "http://cdn/std/2.mp4",
			})
		})
	})

	Convey("A show URL without an id fails before any request", t, func() {
		src := New()

		_, err := src.Episodes("https://animevost.org/about.html")
		So(err, ShouldNotBeNil)
	})

	Convey("Malformed playlist JSON is an error", t, func() {
		src, server := testSource(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "not json")
		})
		defer server.Close()

		_, err := src.Episodes("https://animevost.org/tip/tv/2524-znatok.html")
		So(err, ShouldNotBeNil)
	})
}

func TestRecent(t *testing.T) {
	Convey("Given the front page schedule", t, func() {
		src, server := testSource(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, frontPage)
		})
		defer server.Close()

		Convey("Schedule entries come back as results", func() {
			results, err := src.Recent()
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 1)
			So(results[0].Title, ShouldEqual, "Знаток древностей")
		})
	})
}

func TestContract(t *testing.T) {
	Convey("Animevost satisfies source.Source", t, func() {
		var _ source.Source = New()
		So(New().ID(), ShouldEqual, "animevost")
		So(New().Name(), ShouldEqual, "Animevost")
	})
}
