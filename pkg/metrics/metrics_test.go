package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with an empty namespace", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil histogram buckets", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithHistogramBuckets(nil), WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording training counters", func() {
			So(func() {
				IncrementTrialsRecorded()
				IncrementRatingUpdates()
				IncrementSessionsFinished()
				IncrementPlansComposed()
			}, ShouldNotPanic)
		})

		Convey("When updating catalog gauges", func() {
			So(func() {
				UpdateCatalogSkills(7)
				UpdateCatalogModules(7)
				UpdateCatalogSkills(0)
				UpdateCatalogModules(0)
			}, ShouldNotPanic)
		})

		Convey("When updating session state", func() {
			So(func() {
				UpdateSessionOpen(true)
				UpdateSessionOpen(false)
			}, ShouldNotPanic)
		})

		Convey("When updating the fatigue level", func() {
			So(func() {
				UpdateFatigueLevel(0)
				UpdateFatigueLevel(0.5)
				UpdateFatigueLevel(1)
			}, ShouldNotPanic)
		})

		Convey("When recording persistence metrics", func() {
			So(func() {
				IncrementSnapshotSaves()
				IncrementPersistenceFailures()
				RecordSnapshotSaveDuration(0.005)
				RecordSnapshotSaveDuration(1.5)
			}, ShouldNotPanic)
		})

		Convey("When recording compose latency", func() {
			So(func() {
				RecordComposeDuration(0.0)
				RecordComposeDuration(0.25)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recording", t, func() {
		done := make(chan bool, 10)

		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					IncrementTrialsRecorded()
					UpdateFatigueLevel(float64(j) / 100)
					RecordComposeDuration(float64(j))
				}
				done <- true
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}

		Convey("Then it should handle concurrent access without panics", func() {
			So(true, ShouldBeTrue)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		Convey("Then it is available for scrape handlers", func() {
			So(Registry(), ShouldNotBeNil)
		})

		Convey("Then the registered metrics gather cleanly", func() {
			IncrementTrialsRecorded()
			families, err := Registry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
