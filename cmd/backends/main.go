// Command backends starts the four demo backend services and blocks until
// every one of them has terminated or the process receives a shutdown
// signal. Startup is all-or-nothing: if any backend fails to start, the
// ones already running are rolled back before the process exits.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/ensamble/pkg/catalog/backends"
	"github.com/Abraxas-365/ensamble/pkg/config"
	"github.com/Abraxas-365/ensamble/pkg/lifex"
	"github.com/Abraxas-365/ensamble/pkg/logx"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resources := lifex.NewResourceSet()
	container := NewContainer(cfg, resources)

	specs := []lifex.ServiceSpec{
		backends.RecommendationSpec(cfg.Backends.RecommendationAddr, container.Recommendations),
		backends.MetadataSpec(cfg.Backends.MetadataAddr, container.Metadata),
		backends.RatingSpec(cfg.Backends.RatingAddr, container.Ratings),
		backends.UserSpec(cfg.Backends.UserAddr, container.Users),
	}

	coordinator := lifex.NewCoordinator(resources)
	if err := coordinator.RunAll(ctx, specs); err != nil {
		if errors.Is(err, context.Canceled) {
			logx.Info("Shutdown complete")
			return
		}
		logx.WithError(err).Fatal("Backends exited with error")
	}
}
