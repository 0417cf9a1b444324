package actuator

import (
	"context"
	"net/http"
	"os"
	"reflect"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skekre98/genever-ioc/config"
	"github.com/skekre98/genever-ioc/ioc"
	"github.com/skekre98/genever-ioc/web"
)

const Name = "actuator"

// ActuatorModule exposes operational endpoints on the web engine.
type ActuatorModule struct{}

func Module() *ActuatorModule { return &ActuatorModule{} }

func (m *ActuatorModule) Name() string        { return Name }
func (m *ActuatorModule) DependsOn() []string { return []string{web.Name} }

// Configure mounts health, info, beans and metrics endpoints on the web
// engine. Metrics come from the prometheus.Gatherer registered in the
// container, falling back to the default registry.
func (m *ActuatorModule) Configure(c *ioc.Container) error {
	cfg, err := ioc.ResolveRegistered[config.Root](c)
	if err != nil {
		return err
	}
	engine, err := ioc.ResolveRegistered[*gin.Engine](c)
	if err != nil {
		return err
	}
	group := engine.Group(cfg.Actuator.BasePath)

	group.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status": "UP",
			"checks": []gin.H{},
		})
	})

	group.GET("/info", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"app": gin.H{
				"name":    cfg.App.Name,
				"version": cfg.App.Version,
			},
			"runtime": gin.H{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"time":         time.Now().UTC().Format(time.RFC3339),
				"pid":          os.Getpid(),
			},
		})
	})

	if cfg.Actuator.Beans {
		group.GET("/beans", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"beans": c.Services()})
		})
	}

	if cfg.Observability.Metrics.Enabled {
		gatherer := prometheus.DefaultGatherer
		if c.Registered(reflect.TypeFor[prometheus.Gatherer]()) {
			if gatherer, err = ioc.Resolve[prometheus.Gatherer](c); err != nil {
				return err
			}
		}
		engine.GET(cfg.Observability.Metrics.Path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return nil
}

func (m *ActuatorModule) Start(_ context.Context, _ *ioc.Container) error { return nil }
func (m *ActuatorModule) Stop(_ context.Context, _ *ioc.Container) error  { return nil }
