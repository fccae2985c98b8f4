package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wikiracer/application/commands"
	"wikiracer/application/ports"
	"wikiracer/domain/config"
	pkgerrors "wikiracer/pkg/errors"
	"wikiracer/pkg/observability"
)

// CleanupExpiredPagesHandler sweeps records older than the configured TTL
type CleanupExpiredPagesHandler struct {
	store   ports.PageRecordStore
	metrics *observability.Metrics
	cfg     *config.DomainConfig
	logger  *zap.Logger
}

// NewCleanupExpiredPagesHandler creates a new cleanup handler
func NewCleanupExpiredPagesHandler(
	store ports.PageRecordStore,
	metrics *observability.Metrics,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *CleanupExpiredPagesHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &CleanupExpiredPagesHandler{
		store:   store,
		metrics: metrics,
		cfg:     cfg,
		logger:  logger,
	}
}

// Handle purges expired records and returns how many were removed. With no
// TTL configured and no override the sweep refuses to run: the default
// store contract is append-only.
func (h *CleanupExpiredPagesHandler) Handle(ctx context.Context, cmd commands.CleanupExpiredPagesCommand) (int, error) {
	ttl := h.cfg.PageTTL
	if cmd.OlderThan > 0 {
		ttl = cmd.OlderThan
	}
	if ttl <= 0 {
		return 0, pkgerrors.NewValidationError("no TTL configured; the record store is append-only")
	}

	cutoff := time.Now().Add(-ttl)
	purged, err := h.store.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	h.metrics.Count(ctx, observability.MetricRecordsPurged, float64(purged))
	h.logger.Info("Expired page records purged",
		zap.Int("purged", purged),
		zap.Time("cutoff", cutoff),
	)

	return purged, nil
}
