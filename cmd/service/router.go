// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"goa.design/clue/debug"

	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	"github.com/numbersmith/number-inventory-service/internal/middleware"
)

// NewRouter mounts the API, the probes and the metrics endpoint. In debug mode
// it also mounts the pprof handlers and the runtime debug-log switch.
func NewRouter(h *NumbersHandler, auth port.Authenticator, dbg bool) http.Handler {
	r := chi.NewRouter()

	// Add RequestID middleware first
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.PrometheusMetricsMiddleware)
	r.Use(chimiddleware.Recoverer)
	if dbg {
		r.Use(debug.HTTP())

		mux := http.NewServeMux()
		debug.MountPprofHandlers(mux)
		debug.MountDebugLogEnabler(mux)
		r.Mount("/debug", mux)
	}

	r.Get("/livez", h.Livez)
	r.Get("/readyz", h.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/numbers", func(r chi.Router) {
		r.Use(middleware.BearerAuthMiddleware(auth))
		r.Post("/search", h.Search)
		r.Post("/acquire", h.Acquire)
		r.Get("/acquired", h.ListAcquired)
	})

	return r
}
