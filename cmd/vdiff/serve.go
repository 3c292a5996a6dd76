package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/vdiff/internal/config"
	"github.com/vango-dev/vdiff/pkg/observe"
	"github.com/vango-dev/vdiff/pkg/server"
	"github.com/vango-dev/vdiff/pkg/store"
)

func serveCmd() *cobra.Command {
	var (
		dir       string
		addr      string
		storeKind string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diff server",
		Long: `Run the HTTP and WebSocket diff server.

Settings are read from vdiff.json in the config directory; flags
override them.

Routes:
  POST /diff                              diff two documents
  GET  /ws                                stream patch frames
  GET  /sessions/{session}/frames         list archived frames
  GET  /sessions/{session}/frames/{seq}   fetch one frame
  GET  /metrics                           Prometheus metrics
  GET  /healthz                           liveness`,
		Example: `  vdiff serve
  vdiff serve --addr :9000 --store dir
  vdiff serve --config ./deploy --no-metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Kind = storeKind
			}
			if noMetrics {
				cfg.Metrics.Enabled = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, addr)
		},
	}

	cmd.Flags().StringVarP(&dir, "config", "c", ".", "Directory containing vdiff.json")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.host and server.port)")
	cmd.Flags().StringVar(&storeKind, "store", "", "Frame store (dir, s3, or empty for none)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable /metrics and diff instrumentation")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, addr string) error {
	sc := server.FromConfig(cfg)
	if addr != "" {
		sc.Address = addr
	}
	sc.Logger = slog.Default()

	if cfg.Tracing.Enabled {
		sc.DiffOptions = append(sc.DiffOptions, observe.WithTracerName(cfg.Tracing.TracerName))
	} else {
		sc.DiffOptions = append(sc.DiffOptions, observe.WithTracer(noop.NewTracerProvider().Tracer(cfg.Tracing.TracerName)))
	}

	storeCfg := cfg.Store
	if storeCfg.Kind == config.StoreDir {
		storeCfg.Dir = cfg.StoreDir()
	}
	st, err := store.Open(storeCfg)
	if err != nil {
		return err
	}
	sc.Store = st

	srv := server.New(sc)
	slog.Info("starting server",
		"addr", sc.Address,
		"metrics", sc.Registry != nil,
		"store", cfg.Store.Kind,
	)
	return srv.Run(ctx)
}
