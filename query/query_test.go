package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/anitrack-cli/anitrack/filesystem"
	"github.com/anitrack-cli/anitrack/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given recorded queries", t, func() {
		So(Remember("naruto", 1), ShouldBeNil)
		So(Remember("bleach", 10), ShouldBeNil)
		So(Remember("berserk", 10), ShouldBeNil)

		memo = make(map[string][]*record)

		Convey("Suggestions come back most popular first", func() {
			s := SuggestMany("b")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldBeIn, "berserk", "bleach")
		})

		Convey("Equal ranks order alphabetically", func() {
			s := SuggestMany("be")
			So(s, ShouldContain, "berserk")
		})

		Convey("Suggest picks the top match", func() {
			So(Suggest("blea").MustGet(), ShouldEqual, "bleach")
		})

		Convey("No match means no suggestion", func() {
			So(Suggest("zzzzzz").IsAbsent(), ShouldBeTrue)
		})

		Convey("Suggestions can be turned off", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			So(SuggestMany("b"), ShouldBeEmpty)

			Reset(func() {
				viper.Set(key.SearchShowQuerySuggestions, true)
			})
		})

		Convey("Input is sanitized before storage", func() {
			So(sanitize("  NARUTO  "), ShouldEqual, "naruto")
		})
	})
}
