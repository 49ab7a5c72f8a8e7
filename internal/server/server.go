// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package server exposes the query protocol over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dalzilio/dvn/internal/session"
)

// Runner defines the query operations used by the handlers.
type Runner interface {
	Run(ctx context.Context, data []byte) session.Response
	Batch(ctx context.Context, requests []json.RawMessage, workers int) ([]session.Response, error)
}

// Handler wires the query endpoints to a session runner.
type Handler struct {
	runner   Runner
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	workers  int
	maxBytes int64
}

// New constructs a handler. Metrics are served from gatherer; a nil gatherer
// disables the /metrics endpoint.
func New(runner Runner, logger *slog.Logger, gatherer prometheus.Gatherer, workers int, maxBytes int64) *Handler {
	return &Handler{
		runner:   runner,
		logger:   logger,
		gatherer: gatherer,
		workers:  workers,
		maxBytes: maxBytes,
	}
}

// Routes returns the router of the service.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	h.Register(r)
	return r
}

// Register mounts the endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	r.Post("/v1/query", h.HandleQuery)
	r.Post("/v1/batch", h.HandleBatch)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
}

// HandleHealth handles GET /healthz requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleQuery handles POST /v1/query requests. The body is a query request;
// the status is 400 for malformed or incomplete requests, 422 when the
// network is invalid or the query cannot be computed, and 200 otherwise.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	data, ok := h.readBody(w, r)
	if !ok {
		return
	}
	res := h.runner.Run(ctx, data)
	h.logger.InfoContext(ctx, "query",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("query_id", res.ID),
		slog.String("op", res.Op()),
		slog.String("error", res.Error),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	writeJSON(w, statusOf(res), res)
}

// HandleBatch handles POST /v1/batch requests. The body is a JSON array of
// query requests; the response is the array of their responses, in order.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, ok := h.readBody(w, r)
	if !ok {
		return
	}
	var requests []json.RawMessage
	if err := json.Unmarshal(data, &requests); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": session.ErrParse})
		return
	}
	res, err := h.runner.Batch(ctx, requests, h.workers)
	if err != nil {
		h.logger.ErrorContext(ctx, "batch failed",
			slog.String("request_id", middleware.GetReqID(ctx)),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	h.logger.InfoContext(ctx, "batch",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.Int("queries", len(res)),
		slog.Int("merges", session.Total(res).Merges),
	)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body := r.Body
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request too large"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": session.ErrParse})
		return nil, false
	}
	return data, true
}

func statusOf(res session.Response) int {
	switch res.Error {
	case "":
		return http.StatusOK
	case session.ErrParse, session.ErrNoVars, session.ErrNoOperation, session.ErrUnsupported:
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewHTTPServer builds an HTTP server with the defaults of the service.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
