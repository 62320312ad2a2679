// Command menucored serves the installed protocol menus over HTTP. It opens
// the configured persistent store, installs the bundled Schrodinger plugin,
// and runs the API server until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"menucore/internal/blob"
	"menucore/internal/core"
	"menucore/internal/httpapi"
	"menucore/internal/logging"
	"menucore/plugins/schrodinger"
)

const (
	moduleName = "menucored"
	version    = "1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "menucored: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	port := flag.Int("port", httpapi.DefaultPort, "HTTP listen port")
	flag.Parse()

	logging.SetDefaultLogger(moduleName, version)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := core.NewDefaultRulesEngine()
	store, err := core.OpenPersistentStore(engine)
	if err != nil {
		return fmt.Errorf("open persistent store: %w", err)
	}

	svc := core.NewService(store, engine,
		core.WithLogger(logger),
		core.WithMetricsRecorder(core.NewPrometheusMetricsRecorder(prometheus.DefaultRegisterer)),
	)

	if _, _, err := svc.InstallPlugin(ctx, schrodinger.New()); err != nil {
		return fmt.Errorf("install schrodinger plugin: %w", err)
	}

	icons, err := blob.Open(ctx)
	if err != nil {
		return fmt.Errorf("open icon store: %w", err)
	}

	api := httpapi.NewAPI(svc,
		httpapi.WithAPILogger(logger),
		httpapi.WithIconStore(icons),
	)
	srv := httpapi.NewServer(api.Routes(),
		httpapi.WithPort(*port),
		httpapi.WithServerLogger(logger),
	)
	return srv.Serve(ctx)
}
