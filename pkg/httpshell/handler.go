// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package httpshell serves the REST routes of the proxy. Every route is a
// thin mirror of a registry operation; all decision logic stays in the
// dispatch core so the two shells cannot drift in behavior.
package httpshell

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-core-stack/creator-data-proxy/pkg/apierr"
	"github.com/go-core-stack/creator-data-proxy/pkg/ops"
)

// routePrefix is prepended to every upstream path to form the local route.
const routePrefix = "/api"

// Dispatcher is the translation core the shell delegates every call to.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) (json.RawMessage, error)
}

// Handler routes REST requests to the dispatcher.
type Handler struct {
	dispatcher Dispatcher
	logger     zerolog.Logger
	// routes maps "METHOD /api/<path>" to the operation it serves.
	routes map[string]ops.Operation
}

// New builds the route table from the operation registry.
func New(dispatcher Dispatcher, logger zerolog.Logger) *Handler {
	routes := make(map[string]ops.Operation)
	for _, op := range ops.All() {
		routes[op.Method+" "+routePrefix+op.Path] = op
	}
	return &Handler{
		dispatcher: dispatcher,
		logger:     logger,
		routes:     routes,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	event := h.logger.With().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("remote_addr", r.RemoteAddr).
		Logger()

	op, ok := h.routes[r.Method+" "+r.URL.Path]
	if !ok {
		h.writeFailure(w, event, start, apierr.UnknownOperation(r.Method+" "+r.URL.Path))
		return
	}

	args, err := h.decodeArgs(op, r)
	if err != nil {
		h.writeFailure(w, event, start, err)
		return
	}

	payload, err := h.dispatcher.Dispatch(r.Context(), op.Name, args)
	if err != nil {
		h.writeFailure(w, event, start, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		event.Error().Err(err).Msg("write response failed")
		return
	}

	event.Info().
		Str("operation", op.Name).
		Dur("duration", time.Since(start)).
		Msg("request served")
}

// decodeArgs turns the inbound request into the dispatcher's argument map:
// query parameters for GET routes, the JSON body for POST routes.
func (h *Handler) decodeArgs(op ops.Operation, r *http.Request) (map[string]any, error) {
	args := map[string]any{}

	if op.Method == http.MethodGet {
		declared := make(map[string]struct{}, len(op.Params))
		for _, p := range op.Params {
			declared[p.Name] = struct{}{}
		}
		for key, values := range r.URL.Query() {
			if _, ok := declared[key]; !ok {
				return nil, apierr.Invalid("operation %q: unknown query parameter %q", op.Name, key)
			}
			if len(values) > 0 {
				args[key] = values[0]
			}
		}
		return args, nil
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&args); err != nil {
		return nil, apierr.Invalid("request body must be a JSON object: %v", err)
	}
	return args, nil
}

func (h *Handler) writeFailure(w http.ResponseWriter, event zerolog.Logger, start time.Time, err error) {
	status := http.StatusInternalServerError
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(apierr.FailureBody(err))

	event.Warn().
		Err(err).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("request failed")
}
