package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// listenAddr and metricsAddr are fixed: there are no flags, env vars, or
// config files, so there is nothing here for a caller to set.
const (
	listenAddr  = "0.0.0.0:2053"
	metricsAddr = "0.0.0.0:9153"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go serveMetrics(logger)

	server, err := NewServer(listenAddr, logger)
	if err != nil {
		logger.Error("failed to start listener", slog.Any("err", err))
		os.Exit(1)
	}
	defer server.Close()

	logger.Info("dns resolver listening", slog.String("addr", listenAddr))
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server loop exited", slog.Any("err", err))
		os.Exit(1)
	}
}

// serveMetrics runs the Prometheus /metrics endpoint on its own goroutine.
// It never touches the UDP request path.
func serveMetrics(logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(metricsAddr, mux); err != nil {
		logger.Error("metrics listener exited", slog.Any("err", err))
	}
}
