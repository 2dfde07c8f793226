package skillstore_test

import (
	"context"
	"testing"

	"github.com/coachkit/coachkit/internal/adapters/skillstore"
	"github.com/coachkit/coachkit/internal/domain/model"
	"github.com/coachkit/coachkit/internal/domain/rating"
	"github.com/coachkit/coachkit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testCatalog() *model.Catalog {
	c, err := model.NewCatalog([]model.ModuleSpec{
		{ID: "alpha", Skills: []string{"memory", "focus"}},
		{ID: "beta", Skills: []string{"focus", "speed"}},
		{ID: "gamma", Skills: []string{"logic"}},
	}, nil)
	if err != nil {
		panic(err)
	}
	return c
}

func TestStoreNew(t *testing.T) {
	Convey("Given a fresh store", t, func() {
		s := skillstore.New(testCatalog())

		Convey("Then every catalog skill starts at the default rating", func() {
			all := s.All()
			So(all, ShouldHaveLength, 4)
			for _, sk := range all {
				So(sk.Rating, ShouldEqual, model.RatingDefault)
				So(sk.Trials, ShouldEqual, 0)
			}
		})

		Convey("Then skills come back in catalog order", func() {
			ids := make([]string, 0, 4)
			for _, sk := range s.All() {
				ids = append(ids, sk.ID)
			}
			So(ids, ShouldResemble, []string{"memory", "focus", "speed", "logic"})
		})
	})
}

func TestUpdateRating(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh store", t, func() {
		s := skillstore.New(testCatalog())

		Convey("When a known skill succeeds on a matched-difficulty trial", func() {
			got, err := s.UpdateRating(ctx, "memory", model.Trial{Correct: true, Difficulty: 1500})
			So(err, ShouldBeNil)

			Convey("Then the rating rises by K/2", func() {
				So(got, ShouldEqual, 1516)
			})

			Convey("And the trial count increments", func() {
				sk, ok := s.Get("memory")
				So(ok, ShouldBeTrue)
				So(sk.Trials, ShouldEqual, 1)
			})
		})

		Convey("When an unknown skill id is updated", func() {
			got, err := s.UpdateRating(ctx, "rhythm", model.Trial{Correct: false, Difficulty: 1500})
			So(err, ShouldBeNil)

			Convey("Then it is created at the default rating first", func() {
				So(got, ShouldEqual, 1484)
				sk, ok := s.Get("rhythm")
				So(ok, ShouldBeTrue)
				So(sk.Trials, ShouldEqual, 1)
			})
		})

		Convey("When the trial is malformed", func() {
			_, err := s.UpdateRating(ctx, "memory", model.Trial{Correct: true, Difficulty: 99})
			So(err, ShouldNotBeNil)
		})

		Convey("When many trials run, the rating stays in bounds", func() {
			for i := 0; i < 300; i++ {
				sk, _ := s.Get("memory")
				got, err := s.UpdateRating(ctx, "memory", model.Trial{Correct: true, Difficulty: sk.Rating})
				So(err, ShouldBeNil)
				So(got, ShouldBeBetweenOrEqual, model.RatingFloor, model.RatingCeiling)
			}
			sk, _ := s.Get("memory")
			So(sk.Rating, ShouldEqual, model.RatingCeiling)
		})
	})
}

func TestUpdateModuleSkills(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh store", t, func() {
		s := skillstore.New(testCatalog())

		Convey("When a module records a correct trial", func() {
			err := s.UpdateModuleSkills(ctx, "alpha", model.Trial{Correct: true, Difficulty: 1500})
			So(err, ShouldBeNil)

			Convey("Then every skill the module trains moves", func() {
				mem, _ := s.Get("memory")
				foc, _ := s.Get("focus")
				spd, _ := s.Get("speed")
				So(mem.Rating, ShouldEqual, 1516)
				So(foc.Rating, ShouldEqual, 1516)
				So(spd.Rating, ShouldEqual, model.RatingDefault)
			})
		})

		Convey("When the module id is unknown", func() {
			err := s.UpdateModuleSkills(ctx, "nope", model.Trial{Correct: true, Difficulty: 1500})

			Convey("Then it is a silent no-op", func() {
				So(err, ShouldBeNil)
				for _, sk := range s.All() {
					So(sk.Rating, ShouldEqual, model.RatingDefault)
				}
			})
		})
	})
}

func TestRankedQueries(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with spread-out ratings", t, func() {
		s := skillstore.New(testCatalog())

		// memory up twice, focus up once, speed down once.
		for _, step := range []struct {
			id string
			ok bool
		}{
			{"memory", true},
			{"memory", true},
			{"focus", true},
			{"speed", false},
		} {
			_, err := s.UpdateRating(ctx, step.id, model.Trial{Correct: step.ok, Difficulty: 1500})
			So(err, ShouldBeNil)
		}

		Convey("Then Weakest returns ratings ascending", func() {
			weak := s.Weakest(4)
			So(weak, ShouldHaveLength, 4)
			for i := 1; i < len(weak); i++ {
				So(weak[i-1].Rating, ShouldBeLessThanOrEqualTo, weak[i].Rating)
			}
			So(weak[0].ID, ShouldEqual, "speed")
		})

		Convey("Then Strongest returns ratings descending", func() {
			strong := s.Strongest(4)
			So(strong, ShouldHaveLength, 4)
			for i := 1; i < len(strong); i++ {
				So(strong[i-1].Rating, ShouldBeGreaterThanOrEqualTo, strong[i].Rating)
			}
			So(strong[0].ID, ShouldEqual, "memory")
		})

		Convey("Then n beyond the catalog size is clamped", func() {
			So(s.Weakest(100), ShouldHaveLength, 4)
			So(s.Strongest(100), ShouldHaveLength, 4)
		})

		Convey("Then non-positive n yields nothing", func() {
			So(s.Weakest(0), ShouldBeEmpty)
			So(s.Strongest(-1), ShouldBeEmpty)
		})
	})

	Convey("Given a store where every rating ties", t, func() {
		s := skillstore.New(testCatalog())

		Convey("Then ties break by catalog order in both directions", func() {
			weak := s.Weakest(3)
			So(weak[0].ID, ShouldEqual, "memory")
			So(weak[1].ID, ShouldEqual, "focus")
			So(weak[2].ID, ShouldEqual, "speed")

			strong := s.Strongest(3)
			So(strong[0].ID, ShouldEqual, "memory")
			So(strong[1].ID, ShouldEqual, "focus")
			So(strong[2].ID, ShouldEqual, "speed")
		})
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with recorded trials", t, func() {
		s := skillstore.New(testCatalog())
		_, err := s.UpdateRating(ctx, "memory", model.Trial{Correct: true, Difficulty: 1500})
		So(err, ShouldBeNil)

		Convey("When reset", func() {
			s.Reset(ctx)

			Convey("Then every skill returns to the default", func() {
				for _, sk := range s.All() {
					So(sk.Rating, ShouldEqual, model.RatingDefault)
					So(sk.Trials, ShouldEqual, 0)
				}
			})

			Convey("And resetting again changes nothing", func() {
				s.Reset(ctx)
				for _, sk := range s.All() {
					So(sk.Rating, ShouldEqual, model.RatingDefault)
				}
			})
		})
	})
}

func TestExportRestore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with state", t, func() {
		s := skillstore.New(testCatalog())
		_, err := s.UpdateRating(ctx, "memory", model.Trial{Correct: true, Difficulty: 1500})
		So(err, ShouldBeNil)

		Convey("When exported and restored into a fresh store", func() {
			snap := s.Export()
			fresh := skillstore.New(testCatalog())
			fresh.Restore(snap)

			Convey("Then ratings and trial counts carry over", func() {
				sk, ok := fresh.Get("memory")
				So(ok, ShouldBeTrue)
				So(sk.Rating, ShouldEqual, 1516)
				So(sk.Trials, ShouldEqual, 1)
			})

			Convey("And ranked queries see the restored ratings", func() {
				So(fresh.Strongest(1)[0].ID, ShouldEqual, "memory")
			})
		})

		Convey("When a snapshot carries an out-of-range rating", func() {
			fresh := skillstore.New(testCatalog())
			fresh.Restore(map[string]skillstore.SkillState{
				"memory": {Rating: 5000, Trials: 3},
			})

			Convey("Then it is clamped on the way in", func() {
				sk, _ := fresh.Get("memory")
				So(sk.Rating, ShouldEqual, rating.Clamp(5000))
			})
		})
	})
}

func TestOnChangeHook(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with a change hook", t, func() {
		calls := 0
		s := skillstore.New(testCatalog(), skillstore.WithOnChange(func() { calls++ }))

		Convey("Then mutations fire it and reads do not", func() {
			_, err := s.UpdateRating(ctx, "memory", model.Trial{Correct: true, Difficulty: 1500})
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 1)

			s.Weakest(2)
			s.All()
			So(calls, ShouldEqual, 1)

			s.Reset(ctx)
			So(calls, ShouldEqual, 2)
		})
	})
}
