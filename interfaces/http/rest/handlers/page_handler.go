package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"wikiracer/application/commands"
	"wikiracer/application/commands/bus"
	commands_handlers "wikiracer/application/commands/handlers"
	"wikiracer/application/queries"
	querybus "wikiracer/application/queries/bus"
	"wikiracer/pkg/common"
)

// maxRequestBodyBytes caps JSON request bodies
const maxRequestBodyBytes = 1 << 20

// PageHandler serves cached page record endpoints
type PageHandler struct {
	commandBus     *bus.CommandBus
	queryBus       *querybus.QueryBus
	cleanupHandler *commands_handlers.CleanupExpiredPagesHandler
	logger         *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	cleanupHandler *commands_handlers.CleanupExpiredPagesHandler,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		commandBus:     commandBus,
		queryBus:       queryBus,
		cleanupHandler: cleanupHandler,
		logger:         logger,
	}
}

// GetPage handles GET /pages/{title}. The title segment is URL-escaped;
// lookup is by exact title, no normalization.
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "malformed title")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetPageQuery{Title: title})
	if err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// prewarmRequest is the POST /pages payload
type prewarmRequest struct {
	Title string `json:"title"`
}

// PrewarmPage handles POST /pages. It validates and caches a record ahead of
// any race; prewarming an already cached title is a no-op.
func (h *PageHandler) PrewarmPage(w http.ResponseWriter, r *http.Request) {
	var req prewarmRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	cmd := commands.PrewarmPageCommand{Title: req.Title}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Warn("Prewarm failed", zap.String("title", req.Title), zap.Error(err))
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusAccepted, map[string]string{
		"title": req.Title,
	})
}

// cleanupRequest is the POST /pages/cleanup payload
type cleanupRequest struct {
	OlderThanHours int `json:"older_than_hours,omitempty"`
}

// CleanupPages handles POST /pages/cleanup. Without an override the sweep
// uses the configured TTL; with neither, the store stays append-only and the
// request is rejected.
func (h *PageHandler) CleanupPages(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if r.ContentLength > 0 {
		if err := common.ParseJSONBody(r, &req, maxRequestBodyBytes); err != nil {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
			return
		}
	}

	cmd := commands.CleanupExpiredPagesCommand{
		OlderThan: time.Duration(req.OlderThanHours) * time.Hour,
	}
	if err := cmd.Validate(); err != nil {
		respondError(w, err)
		return
	}

	purged, err := h.cleanupHandler.Handle(r.Context(), cmd)
	if err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]int{
		"purged": purged,
	})
}
