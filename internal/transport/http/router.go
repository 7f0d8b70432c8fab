package http

import (
	"net/http"

	"go.uber.org/zap"

	"convention-quiz/internal/app"
	"convention-quiz/internal/metrics"
)

// NewRouter mounts the presenter websocket, the health probe and the metrics endpoint.
func NewRouter(service *app.PresenterService, m *metrics.Metrics, log *zap.Logger) http.Handler {
	wsHandler := NewWSHandler(service, m, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/metrics", m.Handler())
	return mux
}
