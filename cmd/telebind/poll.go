package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/runixer/telebind/internal/app"
	"github.com/runixer/telebind/internal/telegram"
	"github.com/spf13/cobra"
)

func newPollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Receive updates and archive them until interrupted",
		Long: `Poll the Bot API for new messages, print each one and store them in the
configured archive (SQLite and/or Redis). Runs until SIGINT or SIGTERM.

With metrics.listen_addr set, Prometheus metrics are served on /metrics.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{archiveAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			services := getServices(cmd)
			cfg := getConfig(cmd)
			logger := getLogger(cmd)
			ctx := cmd.Context()

			poller := &app.Poller{
				Source:    services.Client,
				Sink:      services.Sink,
				Interval:  cfg.Poll.GetInterval(),
				Logger:    logger,
				OnMessage: messagePrinter(cmd.OutOrStdout(), mustGetBool(cmd, "json")),
			}

			if mustGetBool(cmd, "once") {
				n := poller.RunOnce(ctx)
				logger.Info("poll finished", "messages", n, "offset", services.Client.Offset())
				return services.Client.LastError()
			}

			if cfg.Metrics.ListenAddr != "" {
				stop := serveMetrics(ctx, logger, cfg.Metrics.ListenAddr)
				defer stop()
			}

			logger.Info("polling for updates", "interval", cfg.Poll.GetInterval(), "offset", services.Client.Offset())
			return poller.Run(ctx)
		},
	}
	cmd.Flags().Bool("once", false, "Poll a single time and exit")
	cmd.Flags().Bool("json", false, "Print messages as JSON lines")
	return cmd
}

func messagePrinter(w io.Writer, asJSON bool) func(telegram.Message) {
	return func(msg telegram.Message) {
		if asJSON {
			data, err := json.Marshal(msg)
			if err != nil {
				fmt.Fprintf(w, "{\"error\": %q}\n", err.Error())
				return
			}
			fmt.Fprintln(w, string(data))
			return
		}
		fmt.Fprintln(w, msg.String())
	}
}

// serveMetrics starts the /metrics endpoint and returns a function that shuts
// it down.
func serveMetrics(ctx context.Context, logger *slog.Logger, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", "error", err)
		}
	}
}
