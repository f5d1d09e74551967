package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stadium-bot/internal/config"
	"stadium-bot/internal/util"
)

// New builds the companion HTTP server: liveness probe and Prometheus
// metrics.
func New(cfg config.Config) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"ts": util.NowISO(),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}
