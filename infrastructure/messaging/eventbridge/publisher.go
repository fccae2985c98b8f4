// Package eventbridge publishes domain events to an AWS EventBridge bus.
package eventbridge

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"wikiracer/application/ports"
	"wikiracer/domain/events"
	pkgerrors "wikiracer/pkg/errors"
)

const eventSource = "wikiracer"

// maxEntriesPerCall is the PutEvents API batch limit
const maxEntriesPerCall = 10

// Publisher implements the EventPublisher interface using EventBridge
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish sends a single domain event
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends domain events in PutEvents-sized batches
func (p *Publisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	entries := make([]types.PutEventsRequestEntry, 0, len(domainEvents))
	for _, event := range domainEvents {
		detail, err := json.Marshal(event)
		if err != nil {
			return pkgerrors.NewInternalError("failed to marshal domain event").WithCause(err)
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.busName),
			Source:       aws.String(eventSource),
			DetailType:   aws.String(event.EventType()),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.OccurredAt()),
		})
	}

	for start := 0; start < len(entries); start += maxEntriesPerCall {
		end := start + maxEntriesPerCall
		if end > len(entries) {
			end = len(entries)
		}

		result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
			Entries: entries[start:end],
		})
		if err != nil {
			return pkgerrors.NewInternalError("failed to publish domain events").WithCause(err)
		}
		if result.FailedEntryCount > 0 {
			for _, entry := range result.Entries {
				if entry.ErrorCode != nil {
					p.logger.Warn("Event entry rejected by the bus",
						zap.String("errorCode", aws.ToString(entry.ErrorCode)),
						zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
					)
				}
			}
			return pkgerrors.NewInternalError("event bus rejected some entries")
		}
	}

	p.logger.Debug("Domain events published",
		zap.Int("count", len(domainEvents)),
		zap.String("bus", p.busName),
	)

	return nil
}
