package model_test

import (
	"testing"
	"time"

	"github.com/coachkit/coachkit/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTrialValidate(t *testing.T) {
	Convey("Given trial inputs", t, func() {
		Convey("Then a well-formed trial passes", func() {
			trial := model.Trial{Correct: true, Difficulty: 1500, ReactionTime: 800 * time.Millisecond}
			So(trial.Validate(), ShouldBeNil)
		})

		Convey("Then a missing difficulty is rejected", func() {
			So(model.Trial{Correct: true}.Validate(), ShouldNotBeNil)
		})

		Convey("Then a difficulty below the scale is rejected", func() {
			So(model.Trial{Difficulty: 500}.Validate(), ShouldNotBeNil)
		})

		Convey("Then a difficulty above the scale is rejected", func() {
			So(model.Trial{Difficulty: 3000}.Validate(), ShouldNotBeNil)
		})

		Convey("Then the scale boundaries are accepted", func() {
			So(model.Trial{Difficulty: 800}.Validate(), ShouldBeNil)
			So(model.Trial{Difficulty: 2400}.Validate(), ShouldBeNil)
		})
	})
}
