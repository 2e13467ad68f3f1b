package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderValidated = "OrderValidated"
	EventTypeOrderInvoiced  = "OrderInvoiced"
	EventTypeOrderShipped   = "OrderShipped"
	EventTypeOrderCancelled = "OrderCancelled"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	Numero   string    `json:"numero"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Numero:          order.Numero,
		ClientID:        order.ClientID,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderValidatedEvent is raised when a draft order is validated
type OrderValidatedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	Numero     string          `json:"numero"`
	ClientID   uuid.UUID       `json:"client_id"`
	TotalGross decimal.Decimal `json:"total_gross"`
}

// NewOrderValidatedEvent creates a new OrderValidatedEvent
func NewOrderValidatedEvent(order *Order) *OrderValidatedEvent {
	return &OrderValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderValidated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Numero:          order.Numero,
		ClientID:        order.ClientID,
		TotalGross:      order.TotalGross,
	}
}

// EventType returns the event type name
func (e *OrderValidatedEvent) EventType() string {
	return EventTypeOrderValidated
}

// OrderInvoicedEvent is raised when an invoice is derived from the order
type OrderInvoicedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	Numero     string          `json:"numero"`
	ClientID   uuid.UUID       `json:"client_id"`
	TotalGross decimal.Decimal `json:"total_gross"`
}

// NewOrderInvoicedEvent creates a new OrderInvoicedEvent
func NewOrderInvoicedEvent(order *Order) *OrderInvoicedEvent {
	return &OrderInvoicedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderInvoiced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Numero:          order.Numero,
		ClientID:        order.ClientID,
		TotalGross:      order.TotalGross,
	}
}

// EventType returns the event type name
func (e *OrderInvoicedEvent) EventType() string {
	return EventTypeOrderInvoiced
}

// OrderShippedEvent is raised when a delivery note is derived from the order
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	Numero   string    `json:"numero"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(order *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Numero:          order.Numero,
		ClientID:        order.ClientID,
	}
}

// EventType returns the event type name
func (e *OrderShippedEvent) EventType() string {
	return EventTypeOrderShipped
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	Numero   string    `json:"numero"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Numero:          order.Numero,
		ClientID:        order.ClientID,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
