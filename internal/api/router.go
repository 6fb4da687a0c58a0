package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const SubmitPath = "/api/submit-builder-application"

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	if h.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(h.loggingMiddleware)
	r.Use(h.recoverMiddleware)

	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post(SubmitPath, h.submit)
	return r
}
