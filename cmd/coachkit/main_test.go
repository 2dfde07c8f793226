package main

import (
	"context"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/coachkit/coachkit/internal/app"
	"github.com/coachkit/coachkit/internal/config"
	"github.com/coachkit/coachkit/internal/domain/model"
	"github.com/coachkit/coachkit/pkg/logger"
	"github.com/coachkit/coachkit/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainComponents(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("COACHKIT_LOG_LEVEL", "debug")
			_ = os.Setenv("COACHKIT_DEFAULT_DURATION", "25")
			defer func() {
				_ = os.Unsetenv("COACHKIT_LOG_LEVEL")
				_ = os.Unsetenv("COACHKIT_DEFAULT_DURATION")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.DefaultDuration, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When testing catalog construction from config", func() {
			cfg := config.New()
			catalog, err := model.NewCatalog(cfg.Modules, cfg.Skills)
			convey.So(err, convey.ShouldBeNil)
			convey.So(catalog.NumModules(), convey.ShouldEqual, 7)
			convey.So(catalog.NumSkills(), convey.ShouldEqual, 7)
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with a custom catalog", func() {
				catalog, err := model.NewCatalog(model.DefaultModules(), nil)
				convey.So(err, convey.ShouldBeNil)
				svc := app.New(app.WithCatalog(catalog))
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestStartService(t *testing.T) {
	convey.Convey("Given a clean command environment", t, func() {
		dir := t.TempDir()
		_ = os.Setenv("COACHKIT_STATE_DIR", dir)
		defer func() {
			_ = os.Unsetenv("COACHKIT_STATE_DIR")
			if svc != nil {
				svc.Stop()
				svc = nil
			}
		}()

		convey.Convey("When the service starts", func() {
			err := startService(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then the built-in catalog is live", func() {
				convey.So(svc.Skills(), convey.ShouldHaveLength, 7)
			})
		})

		convey.Convey("When the configured log level is invalid", func() {
			_ = os.Setenv("COACHKIT_LOG_LEVEL", "verbose")
			defer func() { _ = os.Unsetenv("COACHKIT_LOG_LEVEL") }()

			convey.Convey("Then startup falls back instead of failing", func() {
				err := startService(context.Background())
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestCommandWiring(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		convey.Convey("Then every subcommand is registered", func() {
			names := make(map[string]bool)
			for _, c := range rootCmd.Commands() {
				names[c.Name()] = true
			}
			for _, want := range []string{"compose", "record", "skills", "history", "stats", "reset"} {
				convey.So(names[want], convey.ShouldBeTrue)
			}
		})
	})
}
