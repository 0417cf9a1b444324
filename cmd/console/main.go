package main

import (
	"os"

	"github.com/skekre98/genever-ioc/config"
	"github.com/skekre98/genever-ioc/ioc"
	"github.com/skekre98/genever-ioc/logging"
	"github.com/skekre98/genever-ioc/repository"
)

func main() {
	logger := logging.New(config.LoggingConfig{Level: "info", Format: "text"})

	c := ioc.New(ioc.WithLogger(logger))
	if err := ioc.RegisterImplementation[repository.UserRepository, *repository.MockUserRepository](c); err != nil {
		logger.Error("register", "error", err)
		os.Exit(1)
	}

	repo, err := ioc.Resolve[repository.UserRepository](c)
	if err != nil {
		logger.Error("resolve", "error", err)
		os.Exit(1)
	}
	logger.Info("resolved user", "username", repo.GetUsername())
}
