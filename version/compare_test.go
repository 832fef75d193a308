package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given version strings", t, func() {
		Convey("Equal versions compare to zero", func() {
			c, err := Compare("1.2.3", "1.2.3")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("The 'v' prefix is ignored", func() {
			c, err := Compare("v1.2.3", "1.2.3")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("Major beats minor beats patch", func() {
			c, _ := Compare("2.0.0", "1.9.9")
			So(c, ShouldEqual, 1)

			c, _ = Compare("1.3.0", "1.2.9")
			So(c, ShouldEqual, 1)

			c, _ = Compare("1.2.3", "1.2.4")
			So(c, ShouldEqual, -1)
		})

		Convey("Garbage is an error", func() {
			_, err := Compare("not.a.version", "1.0.0")
			So(err, ShouldNotBeNil)
		})
	})
}
