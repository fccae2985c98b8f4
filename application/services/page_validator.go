package services

import (
	"context"

	"go.uber.org/zap"

	"wikiracer/application/ports"
	"wikiracer/domain/config"
	"wikiracer/domain/core/valueobjects"
	pkgerrors "wikiracer/pkg/errors"
)

// PageValidator decides whether a title denotes a usable, fetchable article.
// It performs exactly one LinkProvider fetch per call and keeps no cache of
// its own; caching is the search engine's responsibility.
type PageValidator struct {
	provider ports.LinkProvider
	cfg      *config.DomainConfig
	logger   *zap.Logger
}

// NewPageValidator creates a new page validator
func NewPageValidator(provider ports.LinkProvider, cfg *config.DomainConfig, logger *zap.Logger) *PageValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &PageValidator{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
	}
}

// Validate fetches the outbound links of title and judges it. A title is
// invalid when every character belongs to the separator set (an empty title
// is vacuously so), or when the fetched link list is empty. The fetched
// links are returned on success so callers never pay for a second fetch.
// A provider fault propagates unchanged; it is never folded into the
// invalid-page condition.
func (v *PageValidator) Validate(ctx context.Context, title string) ([]string, error) {
	structural := valueobjects.IsStructural(title, v.cfg.SeparatorChars)

	links, err := v.provider.GetLinks(ctx, title, v.cfg.LinksPerPage)
	if err != nil {
		return nil, err
	}

	if structural || len(links) == 0 {
		v.logger.Debug("Page failed validation",
			zap.String("title", title),
			zap.Bool("structural", structural),
			zap.Int("links", len(links)),
		)
		return nil, pkgerrors.NewInvalidPageError(title)
	}

	return links, nil
}
