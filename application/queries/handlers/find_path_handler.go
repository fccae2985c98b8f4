package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wikiracer/application/ports"
	"wikiracer/application/queries"
	"wikiracer/application/services"
	"wikiracer/domain/config"
	"wikiracer/domain/core/entities"
	"wikiracer/domain/core/valueobjects"
	"wikiracer/domain/events"
	pkgerrors "wikiracer/pkg/errors"
	"wikiracer/pkg/observability"
)

// FindPathHandler is the path search engine. It validates both endpoints,
// then expands the start page's links one hop in provider order, consulting
// the persistent record store before touching the remote source. The first
// candidate whose link set contains the finish title wins; the engine makes
// no shortest-path claim beyond that ordering.
type FindPathHandler struct {
	validator *services.PageValidator
	store     ports.PageRecordStore
	provider  ports.LinkProvider
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	cfg       *config.DomainConfig
	logger    *zap.Logger
}

// NewFindPathHandler creates the search engine with its collaborators
func NewFindPathHandler(
	validator *services.PageValidator,
	store ports.PageRecordStore,
	provider ports.LinkProvider,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *FindPathHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &FindPathHandler{
		validator: validator,
		store:     store,
		provider:  provider,
		publisher: publisher,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
	}
}

// Handle executes a FindPathQuery and returns a tagged PathResult.
// Invalid start or finish resolves to the Invalid outcome; a candidate that
// fails validation is skipped, not fatal; a provider or store fault aborts
// the search and surfaces as an error.
func (h *FindPathHandler) Handle(ctx context.Context, query queries.FindPathQuery) (*queries.PathResult, error) {
	if h.cfg.SearchDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.SearchDeadline)
		defer cancel()
	}

	started := time.Now()
	defer func() {
		elapsed := time.Since(started)
		h.metrics.Duration(ctx, observability.MetricSearchDuration, elapsed)
		h.logger.Info("Path search finished",
			zap.String("start", query.Start),
			zap.String("finish", query.Finish),
			zap.Duration("elapsed", elapsed),
		)
	}()

	startLinks, err := h.validator.Validate(ctx, query.Start)
	if err != nil {
		if pkgerrors.IsInvalidPage(err) {
			return queries.NewInvalidResult(query.Start), nil
		}
		return nil, err
	}

	// The finish page is validated only to confirm it exists; its links
	// play no part in a one-hop search.
	if _, err := h.validator.Validate(ctx, query.Finish); err != nil {
		if pkgerrors.IsInvalidPage(err) {
			return queries.NewInvalidResult(query.Finish), nil
		}
		return nil, err
	}

	// startLinks is bounded by the per-page cap, so the walk below is the
	// worst case for remote calls.
	for _, candidate := range startLinks {
		links, err := h.resolveCandidate(ctx, candidate)
		if err != nil {
			if pkgerrors.IsInvalidPage(err) {
				continue
			}
			return nil, err
		}

		if containsTitle(links, query.Finish) {
			h.notifyPathFound(ctx, query.Start, query.Finish, candidate)
			return queries.NewFoundResult([]string{query.Start, candidate, query.Finish}), nil
		}
	}

	return queries.NewNotFoundResult(), nil
}

// resolveCandidate returns the candidate's link set, from the store when
// cached and from the provider otherwise. A cache miss fills the store
// before the next candidate is examined, so a retried search observes the
// write.
func (h *FindPathHandler) resolveCandidate(ctx context.Context, title string) ([]string, error) {
	record, err := h.store.Lookup(ctx, title)
	if err != nil {
		return nil, err
	}
	if record != nil {
		h.metrics.Count(ctx, observability.MetricCacheHit, 1)
		return record.Links(), nil
	}
	h.metrics.Count(ctx, observability.MetricCacheMiss, 1)

	links, err := h.validator.Validate(ctx, title)
	if err != nil {
		return nil, err
	}

	backlinks, err := h.provider.GetBacklinks(ctx, title, h.cfg.BacklinksPerPage)
	if err != nil {
		return nil, err
	}

	pageTitle, err := valueobjects.NewPageTitle(title)
	if err != nil {
		return nil, pkgerrors.NewInvalidPageError(title)
	}

	newRecord, err := entities.NewPageRecord(pageTitle, links, backlinks)
	if err != nil {
		return nil, err
	}

	if err := h.store.Insert(ctx, newRecord); err != nil {
		return nil, err
	}
	h.publishEvents(ctx, newRecord)

	return links, nil
}

// notifyPathFound publishes the PathFound event; delivery is best-effort
func (h *FindPathHandler) notifyPathFound(ctx context.Context, start, finish, intermediate string) {
	if h.publisher == nil {
		return
	}
	event := events.NewPathFound(start, finish, intermediate, time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish path-found event",
			zap.String("start", start),
			zap.String("finish", finish),
			zap.Error(err),
		)
	}
}

// publishEvents drains the record's uncommitted events; delivery is
// best-effort and never fails the search
func (h *FindPathHandler) publishEvents(ctx context.Context, record *entities.PageRecord) {
	if h.publisher == nil {
		return
	}
	pending := record.GetUncommittedEvents()
	if len(pending) == 0 {
		return
	}
	if err := h.publisher.PublishBatch(ctx, pending); err != nil {
		h.logger.Warn("Failed to publish page record events",
			zap.String("title", record.Title().String()),
			zap.Error(err),
		)
		return
	}
	record.MarkEventsAsCommitted()
}

func containsTitle(links []string, title string) bool {
	for _, link := range links {
		if link == title {
			return true
		}
	}
	return false
}
