package main

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rocjay1/finance-tracker/internal/handler"
	"github.com/rocjay1/finance-tracker/internal/logging"
)

func newRouter(deps *handler.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Group(func(r chi.Router) {
			r.Use(handler.CORS(http.MethodPost))
			r.Post("/transactions/import", deps.HandleBulkImport)
			r.Options("/transactions/import", http.NotFound)
			r.Post("/upload-url", deps.HandleUploadURL)
			r.Options("/upload-url", http.NotFound)
			r.Post("/upload", deps.HandleUpload)
		})

		r.Group(func(r chi.Router) {
			r.Use(handler.CORS(http.MethodPost, http.MethodDelete))
			r.Post("/transactions", deps.HandleInsertTransaction)
			r.Delete("/transactions", deps.HandleDeleteTransaction)
			r.Options("/transactions", http.NotFound)
		})
	})

	// Adapter for HTTP Trigger (since enableForwardingHttpRequest is false)
	r.HandleFunc("/HttpTrigger", deps.HandleHttpTrigger(r))
	r.HandleFunc("/ProcessQueue", deps.ProcessQueue)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		headers := make(map[string]string)
		for k, v := range r.Header {
			headers[k] = strings.Join(v, ", ")
		}
		slog.Warn("unmatched request", "method", r.Method, "path", r.URL.Path, "headers", headers)
		http.NotFound(w, r)
	})

	return r
}
