package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"wikiracer/application/queries"
	querybus "wikiracer/application/queries/bus"
	"wikiracer/pkg/common"
	"wikiracer/pkg/observability"
)

// RaceHandler serves the one-hop path search endpoint
type RaceHandler struct {
	queryBus *querybus.QueryBus
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewRaceHandler creates a new race handler
func NewRaceHandler(queryBus *querybus.QueryBus, tracer *observability.Tracer, logger *zap.Logger) *RaceHandler {
	return &RaceHandler{
		queryBus: queryBus,
		tracer:   tracer,
		logger:   logger,
	}
}

// Race handles GET /race?start=<title>&finish=<title>. A Found or NotFound
// outcome is a successful search; an Invalid outcome names the offending
// title and maps to 422. Provider and store faults surface as errors.
func (h *RaceHandler) Race(w http.ResponseWriter, r *http.Request) {
	query := queries.FindPathQuery{
		Start:  r.URL.Query().Get("start"),
		Finish: r.URL.Query().Get("finish"),
	}

	h.tracer.AddAnnotation(r.Context(), "start", query.Start)
	h.tracer.AddAnnotation(r.Context(), "finish", query.Finish)

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.tracer.RecordError(r.Context(), err)
		h.logger.Warn("Race failed",
			zap.String("start", query.Start),
			zap.String("finish", query.Finish),
			zap.Error(err),
		)
		respondError(w, err)
		return
	}

	pathResult, ok := result.(*queries.PathResult)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "unexpected query result type")
		return
	}

	status := http.StatusOK
	if pathResult.Outcome == queries.OutcomeInvalid {
		status = http.StatusUnprocessableEntity
	}

	common.RespondJSON(w, status, pathResult)
}
