package ports

import (
	"context"

	"wikiracer/domain/events"
)

// LinkProvider abstracts the remote link-retrieval source.
// This is a port in hexagonal architecture - the application doesn't know
// about the transport behind it.
type LinkProvider interface {
	// GetLinks returns the outbound link titles of a page in source order,
	// truncated to limit, excluding titles containing a structural
	// separator. A page without links yields an empty slice and no error;
	// a transport or parse failure yields a ProviderFault error.
	GetLinks(ctx context.Context, title string, limit int) ([]string, error)

	// GetBacklinks returns titles of pages linking to the given page,
	// truncated to limit. Fault discipline matches GetLinks.
	GetBacklinks(ctx context.Context, title string, limit int) ([]string, error)
}

// EventPublisher publishes domain events to the outside world
type EventPublisher interface {
	// Publish sends a single domain event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple domain events
	PublishBatch(ctx context.Context, batch []events.DomainEvent) error
}
