package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wikiracer/application/commands"
	"wikiracer/application/ports"
	"wikiracer/application/services"
	"wikiracer/domain/config"
	"wikiracer/domain/core/entities"
	"wikiracer/domain/core/valueobjects"
	pkgerrors "wikiracer/pkg/errors"
)

const (
	prewarmLockTTL     = 30 * time.Second
	prewarmLockTimeout = 5 * time.Second
)

// PrewarmPageHandler validates and caches a single page record. Concurrent
// prewarms for the same title serialize on a per-title lock so the store
// sees exactly one fill.
type PrewarmPageHandler struct {
	validator *services.PageValidator
	store     ports.PageRecordStore
	provider  ports.LinkProvider
	locker    ports.TitleLocker
	publisher ports.EventPublisher
	cfg       *config.DomainConfig
	logger    *zap.Logger
}

// NewPrewarmPageHandler creates a new prewarm handler
func NewPrewarmPageHandler(
	validator *services.PageValidator,
	store ports.PageRecordStore,
	provider ports.LinkProvider,
	locker ports.TitleLocker,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *PrewarmPageHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &PrewarmPageHandler{
		validator: validator,
		store:     store,
		provider:  provider,
		locker:    locker,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Handle executes a PrewarmPageCommand. Prewarming an already cached title
// is a no-op.
func (h *PrewarmPageHandler) Handle(ctx context.Context, cmd commands.PrewarmPageCommand) error {
	if h.locker != nil {
		lock, err := h.locker.Acquire(ctx, cmd.Title, "prewarm", prewarmLockTTL, prewarmLockTimeout)
		if err != nil {
			return pkgerrors.NewConflictError("another fill is in progress for this title").WithCause(err)
		}
		defer func() {
			if releaseErr := lock.Release(ctx); releaseErr != nil {
				h.logger.Warn("Failed to release title lock",
					zap.String("title", cmd.Title),
					zap.Error(releaseErr),
				)
			}
		}()
	}

	existing, err := h.store.Lookup(ctx, cmd.Title)
	if err != nil {
		return err
	}
	if existing != nil {
		h.logger.Debug("Page already cached, skipping prewarm", zap.String("title", cmd.Title))
		return nil
	}

	links, err := h.validator.Validate(ctx, cmd.Title)
	if err != nil {
		return err
	}

	backlinks, err := h.provider.GetBacklinks(ctx, cmd.Title, h.cfg.BacklinksPerPage)
	if err != nil {
		return err
	}

	title, err := valueobjects.NewPageTitle(cmd.Title)
	if err != nil {
		return pkgerrors.NewInvalidPageError(cmd.Title)
	}

	record, err := entities.NewPageRecord(title, links, backlinks)
	if err != nil {
		return err
	}

	if err := h.store.Insert(ctx, record); err != nil {
		return err
	}

	if h.publisher != nil {
		if err := h.publisher.PublishBatch(ctx, record.GetUncommittedEvents()); err != nil {
			h.logger.Warn("Failed to publish prewarm events",
				zap.String("title", cmd.Title),
				zap.Error(err),
			)
		} else {
			record.MarkEventsAsCommitted()
		}
	}

	h.logger.Info("Page record prewarmed",
		zap.String("title", cmd.Title),
		zap.Int("links", len(links)),
		zap.Int("backlinks", len(backlinks)),
	)

	return nil
}
