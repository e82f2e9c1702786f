// Command gateway starts the composition gateway in front of the backend
// services.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/ensamble/pkg/catalog/gateway"
	"github.com/Abraxas-365/ensamble/pkg/config"
	"github.com/Abraxas-365/ensamble/pkg/lifex"
	"github.com/Abraxas-365/ensamble/pkg/logx"
	"github.com/Abraxas-365/ensamble/pkg/schedx"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resources := lifex.NewResourceSet()

	scheduler := schedx.New(cfg.Gateway.SchedulerWorkers)
	resources.Push("scheduler", scheduler)

	client := gateway.NewHTTPClient(cfg.Gateway)
	composer := gateway.NewComposer(client, scheduler, cfg.Gateway.ComposeTimeout)

	coordinator := lifex.NewCoordinator(resources)
	err := coordinator.RunAll(ctx, []lifex.ServiceSpec{
		gateway.Spec(cfg.Gateway.Addr, composer),
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logx.Info("Shutdown complete")
			return
		}
		logx.WithError(err).Fatal("Gateway exited with error")
	}
}
