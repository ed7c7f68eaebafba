package broker

import (
	"context"
	"fmt"
	"time"

	"pickle-admin/internal/models"

	"github.com/google/uuid"
)

// EventPublisher handles publishing domain events. A nil EventPublisher is
// valid and drops every event, so event publishing stays optional.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes an OrderCreated event for a persisted order.
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, order models.Order) error {
	if ep == nil || ep.producer == nil {
		return nil
	}

	event := models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now().UTC(),
		},
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Total:       order.Total,
		Items:       order.OrderItems,
	}

	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%s", order.ID), event)
}

// PublishStockDepleted publishes a StockDepleted event when a product hits
// zero units.
func (ep *EventPublisher) PublishStockDepleted(ctx context.Context, productID, productName string) error {
	if ep == nil || ep.producer == nil {
		return nil
	}

	event := models.StockDepletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockDepleted,
			Timestamp: time.Now().UTC(),
		},
		ProductID:   productID,
		ProductName: productName,
	}

	return ep.producer.PublishEvent(ctx, fmt.Sprintf("product-%s", productID), event)
}
