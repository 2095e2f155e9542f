package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	apperrors "grubdash/internal/errors"
)

type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

func NewRouter(orders RouteRegistrar, metrics *HTTPMetrics, logger *zap.Logger) http.Handler {
	responder := apperrors.NewResponder(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(AccessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// set before mounting so sub-routers inherit them
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responder.RespondError(w, req, apperrors.NewNotFoundError("Path not found: "+req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responder.WriteJSON(w, http.StatusMethodNotAllowed, apperrors.ErrorResponse{
			Status:  http.StatusMethodNotAllowed,
			Message: fmt.Sprintf("%s not allowed for %s", req.Method, req.URL.Path),
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		responder.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	orders.RegisterRoutes(r)

	return r
}
