package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/skekre98/genever-ioc/actuator"
	"github.com/skekre98/genever-ioc/config"
	"github.com/skekre98/genever-ioc/config/source"
	"github.com/skekre98/genever-ioc/core"
	"github.com/skekre98/genever-ioc/ioc"
	"github.com/skekre98/genever-ioc/logging"
	"github.com/skekre98/genever-ioc/repository"
	"github.com/skekre98/genever-ioc/web"
)

func main() {
	// 1) config: defaults < configs/application[.profile].yaml < GENEVER_* env < flags
	var cfg config.Root
	mgr, err := config.NewManager(&cfg,
		&source.StaticSource{Values: config.Defaults()},
		&source.FileSource{BasePath: "configs", Profile: os.Getenv("APP_PROFILE"), Optional: true},
		&source.EnvSource{},
		&source.CLISource{},
	)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// 2) logging
	logger := logging.New(cfg.Logging).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	)

	// 3) container
	opts := []ioc.Option{
		ioc.WithLogger(logger),
		ioc.WithMetrics(ioc.NewMetrics(prometheus.DefaultRegisterer)),
	}
	if cfg.Container.AllowOverride {
		opts = append(opts, ioc.WithOverride())
	}
	c := ioc.New(opts...)

	// 4) seed shared objects; config.Root is read fresh so reloads are visible
	err = registerConfig(c, mgr.Snapshot)
	if err == nil {
		err = ioc.RegisterSingleton(c, logger)
	}
	if err == nil {
		err = ioc.RegisterSingleton[prometheus.Gatherer](c, prometheus.DefaultGatherer)
	}
	if err == nil {
		err = repository.Register(c)
	}
	if err != nil {
		logger.Error("container", "error", err)
		os.Exit(1)
	}

	go watchReload(logger, mgr)

	// 5) compose and run
	app := core.NewApp(logger, c,
		web.Module(
			web.WithRoutes(func(r web.Router) {
				r.GET("/hello", func(ctx *gin.Context) {
					svc, err := ioc.Resolve[*repository.UserService](c)
					if err != nil {
						_ = ctx.Error(err)
						ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
						return
					}
					ctx.JSON(http.StatusOK, gin.H{"message": svc.Greeting()})
				})
			}),
		),
		actuator.Module(),
	)

	if err := app.Run(context.Background()); err != nil {
		logger.Error("app error", "error", err)
		os.Exit(1)
	}
}

// registerConfig registers config.Root as a factory over snapshot, so every
// resolution sees the latest reload. A failed snapshot surfaces as
// ioc.ErrConstruction.
func registerConfig(c *ioc.Container, snapshot func(dst any) error) error {
	return c.RegisterFactory(reflect.TypeFor[config.Root](), func() (any, error) {
		var snap config.Root
		if err := snapshot(&snap); err != nil {
			return nil, err
		}
		return snap, nil
	})
}

// watchReload re-reads every config source on SIGHUP and logs what changed.
func watchReload(logger *slog.Logger, mgr *config.Manager) {
	events := make(chan config.Event, 1)
	mgr.Subscribe(events)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)

	for {
		select {
		case <-hup:
			if err := mgr.Reload(context.Background()); err != nil {
				logger.Error("config reload failed", "error", err)
			}
		case evt := <-events:
			logger.Info("config reloaded", "changed", evt.ChangedKeys)
		}
	}
}
