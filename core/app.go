package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/skekre98/genever-ioc/ioc"
)

// ShutdownTimeout bounds the time modules get to stop.
const ShutdownTimeout = 15 * time.Second

type App struct {
	Modules   []Module
	Container *ioc.Container
	Logger    *slog.Logger
}

// NewApp wires mods against c. The container is owned by the caller, so
// shared objects can be registered before Run.
func NewApp(logger *slog.Logger, c *ioc.Container, mods ...Module) *App {
	return &App{
		Modules:   mods,
		Container: c,
		Logger:    logger,
	}
}

// Run configures and starts every module in dependency order, blocks until
// ctx is done or SIGINT/SIGTERM arrives, then stops modules in reverse order.
func (a *App) Run(ctx context.Context) error {
	order, err := topoSort(a.Modules)
	if err != nil {
		return err
	}

	for _, m := range order {
		if err := m.Configure(a.Container); err != nil {
			return fmt.Errorf("configure %s: %w", m.Name(), err)
		}
	}

	started := make([]Module, 0, len(order))
	for _, m := range order {
		a.Logger.Info("starting module", "module", m.Name())
		if err := m.Start(ctx, a.Container); err != nil {
			return errors.Join(fmt.Errorf("start %s: %w", m.Name(), err), a.stop(started))
		}
		started = append(started, m)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	select {
	case <-ctx.Done():
	case <-stop:
	}

	return a.stop(started)
}

// stop stops mods in reverse order and returns the first error.
func (a *App) stop(mods []Module) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	var firstErr error
	for i := len(mods) - 1; i >= 0; i-- {
		m := mods[i]
		a.Logger.Info("stopping module", "module", m.Name())
		if err := m.Stop(shutdownCtx, a.Container); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop %s: %w", m.Name(), err)
		}
	}
	return firstErr
}

// topoSort orders mods so every module follows its dependencies. Ties are
// broken by name so the order is stable.
func topoSort(mods []Module) ([]Module, error) {
	byName := make(map[string]Module, len(mods))
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		if _, dup := byName[m.Name()]; dup {
			return nil, fmt.Errorf("duplicate module name: %s", m.Name())
		}
		byName[m.Name()] = m
		names = append(names, m.Name())
	}
	sort.Strings(names)

	done := make(map[string]bool, len(mods))
	out := make([]Module, 0, len(mods))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		if done[name] {
			return nil
		}
		if i := slices.Index(path, name); i >= 0 {
			return fmt.Errorf("module cycle: %s", strings.Join(append(path[i:], name), " -> "))
		}
		path = append(path[:len(path):len(path)], name)
		for _, dep := range byName[name].DependsOn() {
			if _, ok := byName[dep]; !ok {
				return fmt.Errorf("missing dependency: %s depends on %s", name, dep)
			}
			if err := visit(dep, path); err != nil {
				return err
			}
		}
		done[name] = true
		out = append(out, byName[name])
		return nil
	}

	for _, n := range names {
		if err := visit(n, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}
