// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/tapledger/internal/platform/constants"
	"github.com/taibuivan/tapledger/internal/platform/respond"
)

// readinessTimeout bounds each dependency probe.
const readinessTimeout = 2 * time.Second

// HealthDependencies holds the checks behind /ready. A nil check is skipped.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool holding the ledger.
	CheckDatabase func(context.Context) error

	// CheckCache pings the Redis client that backs allocation locks and the stats cache.
	CheckCache func(context.Context) error
}

type dependencyProbe struct {
	name  string
	check func(context.Context) error
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type healthHandler struct {
	probes []dependencyProbe
	logger *slog.Logger
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{logger: logger}
	for _, candidate := range []dependencyProbe{
		{name: "postgres", check: deps.CheckDatabase},
		{name: "redis", check: deps.CheckCache},
	} {
		if candidate.check != nil {
			handler.probes = append(handler.probes, candidate)
		}
	}
	return handler.liveness, handler.readiness
}

// liveness answers GET /health while the process can serve at all.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// readiness answers GET /ready: 200 "ready" when every probe passes,
// 503 "degraded" otherwise, with per-dependency results either way.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, len(handler.probes))
	ready := true

	for _, probe := range handler.probes {
		result := handler.run(request.Context(), probe)
		ready = ready && result.IsOK
		results = append(results, result)
	}

	status, httpStatus := "ready", http.StatusOK
	if !ready {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}

func (handler *healthHandler) run(parent context.Context, probe dependencyProbe) checkResult {
	context, cancel := context.WithTimeout(parent, readinessTimeout)
	defer cancel()

	if err := probe.check(context); err != nil {
		handler.logger.ErrorContext(context, "readiness_check_failed",
			slog.String("dependency", probe.name),
			slog.Any("error", err),
		)
		return checkResult{Name: probe.name, Error: err.Error()}
	}
	return checkResult{Name: probe.name, IsOK: true}
}
