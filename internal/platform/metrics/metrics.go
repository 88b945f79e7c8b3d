package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Serve exposes the Prometheus registry on its own listener so the metrics
// surface stays off the API port.
func Serve(addr string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("metrics server starting",
		"event", "metrics_server_starting",
		"module", "internal/platform/metrics",
		"layer", "platform",
		"addr", addr,
	)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server stopped",
				"event", "metrics_server_stopped",
				"module", "internal/platform/metrics",
				"layer", "platform",
				"error", err.Error(),
			)
		}
	}()
}
