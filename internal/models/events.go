package models

import "time"

// Event types
const (
	EventTypeOrderCreated  = "ORDER_CREATED"
	EventTypeStockDepleted = "STOCK_DEPLETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent is published after an order has been persisted and the
// derived statistics updated.
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	CustomerID  string      `json:"customer_id"`
	Total       float64     `json:"total"`
	Items       []OrderItem `json:"items"`
}

// StockDepletedEvent is published when a stock decrement leaves a product at
// zero units.
type StockDepletedEvent struct {
	BaseEvent
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
}
