package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/vyrodovalexey/avaroute/internal/observability"
)

// run serves until SIGINT or SIGTERM and then shuts down gracefully.
func run(app *application, flags cliFlags) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, app, flags)
}

// serve starts the listener and the optional watcher and blocks until ctx
// is done.
func serve(ctx context.Context, app *application, flags cliFlags) error {
	if err := app.server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	app.logger.Info("routing daemon started",
		observability.String("address", app.server.Addr()),
		observability.Int("routes", len(app.router.Routes())),
		observability.Int("services", app.rpc.Table().Len()),
	)

	if flags.watch {
		app.watcher = startWatcher(ctx, app, flags.configPath)
	}

	<-ctx.Done()
	app.logger.Info("received shutdown signal")

	shutdown(app)
	return nil
}

// shutdown stops the watcher, drains the listener and flushes traces.
func shutdown(app *application) {
	timeout := app.document().Spec.ServerOrDefault().ShutdownTimeout.Duration()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if app.watcher != nil {
		_ = app.watcher.Stop()
		app.reload.watcherStatus.Set(0)
	}

	if err := app.server.Stop(ctx); err != nil {
		app.logger.Error("failed to stop server gracefully", observability.Error(err))
	}

	if err := app.tracer.Shutdown(ctx); err != nil {
		app.logger.Error("failed to shutdown tracer", observability.Error(err))
	}

	app.logger.Info("routing daemon stopped")
}
