package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	v1 "github.com/Hidendra/nzbget-capped-download-queue/api/v1"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/auth"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/queue"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New sets up the application routes and required middleware. readyz reports
// whether the NZBGet control socket answers.
func New(logger *slog.Logger, h *v1.QueueHandler, host queue.Pinger) *mux.Router {

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Error("write healthz response", "err", err)
		}
	}).Methods("GET")

	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := host.Ping(ctx); err != nil {
			logger.Error("readyz ping", "err", err)
			http.Error(w, "host unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.Use(v1.RequestID)
	r.Use(h.Log)
	r.Use(auth.Middleware)

	api := r.PathPrefix("/v1").Subrouter()

	// GETs
	get := api.Methods("GET").Subrouter()
	get.HandleFunc("/queue", h.GetQueue)
	get.HandleFunc("/events", h.StreamEvents)

	// POSTs
	post := api.Methods("POST").Subrouter()
	post.HandleFunc("/queue/added", h.ItemAdded)
	post.Use(v1.MiddlewareAddedValidation)

	return r
}
