package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events implement
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	Aggregate string    `json:"aggregate_id"`
	Timestamp time.Time `json:"occurred_at"`
}

// EventID returns the unique event identifier
func (e BaseEvent) EventID() string { return e.ID }

// EventType returns the event type name
func (e BaseEvent) EventType() string { return e.Type }

// AggregateID returns the identifier of the aggregate that emitted the event
func (e BaseEvent) AggregateID() string { return e.Aggregate }

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

func newBaseEvent(eventType, aggregateID string, at time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Aggregate: aggregateID,
		Timestamp: at,
	}
}

// PageRecordCreated is emitted when a page record is first cached
type PageRecordCreated struct {
	BaseEvent
	Title         string `json:"title"`
	LinkCount     int    `json:"link_count"`
	BacklinkCount int    `json:"backlink_count"`
}

// NewPageRecordCreated creates a PageRecordCreated event
func NewPageRecordCreated(pageID, title string, linkCount, backlinkCount int, at time.Time) PageRecordCreated {
	return PageRecordCreated{
		BaseEvent:     newBaseEvent("page.record.created", pageID, at),
		Title:         title,
		LinkCount:     linkCount,
		BacklinkCount: backlinkCount,
	}
}

// PathFound is emitted when a race resolves to a path
type PathFound struct {
	BaseEvent
	Start        string `json:"start"`
	Finish       string `json:"finish"`
	Intermediate string `json:"intermediate"`
}

// NewPathFound creates a PathFound event
func NewPathFound(start, finish, intermediate string, at time.Time) PathFound {
	return PathFound{
		BaseEvent:    newBaseEvent("path.found", start, at),
		Start:        start,
		Finish:       finish,
		Intermediate: intermediate,
	}
}

// DescendantLinked is emitted when a descendance edge is recorded
type DescendantLinked struct {
	BaseEvent
	ParentTitle string `json:"parent_title"`
	ChildTitle  string `json:"child_title"`
}

// NewDescendantLinked creates a DescendantLinked event
func NewDescendantLinked(parentID, parentTitle, childTitle string, at time.Time) DescendantLinked {
	return DescendantLinked{
		BaseEvent:   newBaseEvent("page.descendant.linked", parentID, at),
		ParentTitle: parentTitle,
		ChildTitle:  childTitle,
	}
}
