// Command telebind is a command-line client for the Telegram Bot API.
//
// Usage:
//
//	TELEBIND_TELEGRAM_TOKEN=123:abc ./telebind me
//	./telebind send 12345 "Hello there"
//	./telebind send-media photo 12345 --file cat.jpg --caption "cat"
//	./telebind poll --config configs/config.yaml
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var Version = "dev"

var buildInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "telebind",
		Name:      "build_info",
		Help:      "Build information with version and Go runtime details",
	},
	[]string{"version", "go_version"},
)

func init() {
	buildInfo.WithLabelValues(Version, runtime.Version()).Set(1)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd()
	root.Version = Version
	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra already printed the error
		cancel()
		os.Exit(1)
	}
}
