package entities

import (
	"time"

	"wikiracer/domain/core/valueobjects"
	"wikiracer/domain/events"
	pkgerrors "wikiracer/pkg/errors"
)

// PageRecord is the main entity representing a corpus page whose link set
// has already been fetched. Records are created once, after validation
// succeeds, and are never mutated afterwards apart from the descendance
// relation.
type PageRecord struct {
	// Private fields ensure encapsulation
	id        valueobjects.PageID
	title     valueobjects.PageTitle
	links     []string
	backlinks []string
	children  []string
	fetchedAt time.Time

	// Domain events that occurred during this entity's lifetime
	events []events.DomainEvent
}

// NewPageRecord creates a record for a title that passed validation.
// The link set must be non-empty: the store never holds records for
// invalid pages.
func NewPageRecord(title valueobjects.PageTitle, links, backlinks []string) (*PageRecord, error) {
	if title.IsZero() {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}
	if len(links) == 0 {
		return nil, pkgerrors.NewValidationError("cannot create a record for a page without outbound links")
	}

	now := time.Now()
	record := &PageRecord{
		id:        valueobjects.NewPageID(),
		title:     title,
		links:     append([]string(nil), links...),
		backlinks: append([]string(nil), backlinks...),
		children:  []string{},
		fetchedAt: now,
		events:    []events.DomainEvent{},
	}

	record.addEvent(events.NewPageRecordCreated(
		record.id.String(),
		title.String(),
		len(links),
		len(backlinks),
		now,
	))

	return record, nil
}

// ReconstructPageRecord rebuilds a record from repository data with its
// original identity and fetch timestamp preserved.
func ReconstructPageRecord(
	id valueobjects.PageID,
	title valueobjects.PageTitle,
	links, backlinks, children []string,
	fetchedAt time.Time,
) (*PageRecord, error) {
	if title.IsZero() {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}

	return &PageRecord{
		id:        id,
		title:     title,
		links:     append([]string(nil), links...),
		backlinks: append([]string(nil), backlinks...),
		children:  append([]string(nil), children...),
		fetchedAt: fetchedAt,
		events:    []events.DomainEvent{},
	}, nil
}

// ID returns the record's unique identifier
func (p *PageRecord) ID() valueobjects.PageID {
	return p.id
}

// Title returns the page title
func (p *PageRecord) Title() valueobjects.PageTitle {
	return p.title
}

// Links returns the ordered outbound link titles
func (p *PageRecord) Links() []string {
	// Return a copy to maintain encapsulation
	links := make([]string, len(p.links))
	copy(links, p.links)
	return links
}

// Backlinks returns the titles of pages linking to this page
func (p *PageRecord) Backlinks() []string {
	backlinks := make([]string, len(p.backlinks))
	copy(backlinks, p.backlinks)
	return backlinks
}

// Children returns the recorded descendance children
func (p *PageRecord) Children() []string {
	children := make([]string, len(p.children))
	copy(children, p.children)
	return children
}

// FetchedAt returns when the page's link set was fetched
func (p *PageRecord) FetchedAt() time.Time {
	return p.fetchedAt
}

// LinksTo reports whether the page's outbound links contain the given title
func (p *PageRecord) LinksTo(title string) bool {
	for _, link := range p.links {
		if link == title {
			return true
		}
	}
	return false
}

// AddChild records a descendance edge to a page reachable one hop further.
// Adding an existing edge is a no-op. The relation is kept for a future
// two-level search and is not consumed by the one-hop engine.
func (p *PageRecord) AddChild(childTitle string) {
	for _, c := range p.children {
		if c == childTitle {
			return
		}
	}
	p.children = append(p.children, childTitle)
	p.addEvent(events.NewDescendantLinked(p.id.String(), p.title.String(), childTitle, time.Now()))
}

// GetUncommittedEvents returns all uncommitted domain events
func (p *PageRecord) GetUncommittedEvents() []events.DomainEvent {
	return p.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (p *PageRecord) MarkEventsAsCommitted() {
	p.events = []events.DomainEvent{}
}

// addEvent adds a domain event to the uncommitted list
func (p *PageRecord) addEvent(event events.DomainEvent) {
	p.events = append(p.events, event)
}
