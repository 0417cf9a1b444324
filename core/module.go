package core

import (
	"context"

	"github.com/skekre98/genever-ioc/ioc"
)

// Module is a unit of capability that participates in the app lifecycle.
type Module interface {
	Name() string
	// DependsOn declares hard dependencies by module name.
	DependsOn() []string
	// Configure registers services into the container.
	Configure(c *ioc.Container) error
	// Start begins any long-running work or servers.
	Start(ctx context.Context, c *ioc.Container) error
	// Stop gracefully stops the module.
	Stop(ctx context.Context, c *ioc.Container) error
}
