package handlers

import (
	"context"

	"go.uber.org/zap"

	"wikiracer/application/ports"
	"wikiracer/application/queries"
	pkgerrors "wikiracer/pkg/errors"
)

// GetPageHandler serves cached page records by exact title
type GetPageHandler struct {
	store  ports.PageRecordStore
	logger *zap.Logger
}

// NewGetPageHandler creates a new get-page handler
func NewGetPageHandler(store ports.PageRecordStore, logger *zap.Logger) *GetPageHandler {
	return &GetPageHandler{
		store:  store,
		logger: logger,
	}
}

// Handle looks up a record and maps it onto the read model
func (h *GetPageHandler) Handle(ctx context.Context, query queries.GetPageQuery) (*queries.PageView, error) {
	record, err := h.store.Lookup(ctx, query.Title)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, pkgerrors.NewNotFoundError("page record")
	}

	return &queries.PageView{
		ID:        record.ID().String(),
		Title:     record.Title().String(),
		Links:     record.Links(),
		Backlinks: record.Backlinks(),
		Children:  record.Children(),
		FetchedAt: record.FetchedAt(),
	}, nil
}
