package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MMoskowitz9/resource-provider-manager/internal/httpapi"
	"github.com/MMoskowitz9/resource-provider-manager/internal/manager"
	"github.com/MMoskowitz9/resource-provider-manager/internal/metrics"
)

func initLogger() *slog.Logger {
	level := parseLevel(env("LOG_LEVEL", "info"))
	if env("LOG_FORMAT", "pretty") == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339Nano,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	logger := initLogger()
	slog.SetDefault(logger)
	logger.Info("starting", "component", "resource-provider-manager")

	registry := prometheus.NewRegistry()
	collector := metrics.New(registry)

	mgr := manager.New(logger, collector)
	defer mgr.Close()

	srv := httpapi.NewServer(mgr, collector, logger)

	mux := http.NewServeMux()
	mux.Handle("/", srv.NewRouter())
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	addr := env("LISTEN_ADDR", ":5051")
	logger.Info("listening", "component", "http", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("serve failed", "component", "http", "err", err)
		os.Exit(1)
	}
}
