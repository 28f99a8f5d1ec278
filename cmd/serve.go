package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pable/go-passnet/internal/api"
	"github.com/pable/go-passnet/internal/logger"
	"github.com/pable/go-passnet/internal/metrics"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored pass logs and computed networks over HTTP",
	Long: `Start the read API:
  GET  /healthz
  GET  /matches
  GET  /matches/{id}/network?exclude=&roster=&min_pair=
  POST /network            (JSON array of passes)
  GET  /metrics            (Prometheus)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :9080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := cfg.Addr
	if cmd.Flags().Changed("addr") {
		addr = serveAddr
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := api.NewServer(db, cfg.Network(), metrics.New(reg), reg, logger.WithComponent("api"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}
