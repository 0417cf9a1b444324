package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/genever-ioc/config"
	"github.com/skekre98/genever-ioc/ioc"
)

const Name = "web"

// Engine returns the gin engine registered by the web module. It panics if
// the web module has not been configured on c.
func Engine(c *ioc.Container) *gin.Engine {
	e, err := ioc.ResolveRegistered[*gin.Engine](c)
	if err != nil {
		panic(err)
	}
	return e
}

func Module(opts ...Option) *WebModule {
	var options Options
	for _, o := range opts {
		o(&options)
	}
	return &WebModule{opts: options}
}

// WebModule serves a gin engine. Configure registers the engine and the
// *http.Server as singletons so other modules can add routes.
type WebModule struct {
	opts     Options
	server   *http.Server
	listener net.Listener
}

func (m *WebModule) Name() string        { return Name }
func (m *WebModule) DependsOn() []string { return nil }

func (m *WebModule) Configure(c *ioc.Container) error {
	cfg, err := ioc.ResolveRegistered[config.Root](c)
	if err != nil {
		return err
	}
	l, err := ioc.ResolveRegistered[*slog.Logger](c)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(RecoveryProblem(l))
	r.Use(AccessLog(l))
	r.Use(m.opts.Middlewares...)

	for _, reg := range m.opts.Routes {
		reg(r)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if err := ioc.RegisterSingleton(c, r); err != nil {
		return err
	}
	if err := ioc.RegisterSingleton(c, srv); err != nil {
		return err
	}
	m.server = srv
	return nil
}

// Start binds the listen address synchronously so address errors surface
// here, then serves in the background.
func (m *WebModule) Start(ctx context.Context, c *ioc.Container) error {
	l, err := ioc.ResolveRegistered[*slog.Logger](c)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	m.listener = ln

	go func() {
		l.Info("http server starting", "addr", ln.Addr().String())
		if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("http server error", "error", err)
		}
	}()
	return nil
}

// Addr is the bound listen address, valid after Start.
func (m *WebModule) Addr() string {
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

func (m *WebModule) Stop(ctx context.Context, _ *ioc.Container) error {
	if m.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := m.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
