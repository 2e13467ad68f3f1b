package shipping

import (
	"github.com/gescom/backend/internal/domain/shared"
)

const AggregateTypeDeliveryNote = "DeliveryNote"

const (
	EventTypeDeliveryCreated   = "shipping.delivery.created"
	EventTypeDeliveryShipped   = "shipping.delivery.shipped"
	EventTypeDeliveryDelivered = "shipping.delivery.delivered"
)

// DeliveryCreatedEvent is emitted when a delivery note is cut for an order
type DeliveryCreatedEvent struct {
	shared.BaseDomainEvent
	Numero  string `json:"numero"`
	OrderID string `json:"order_id"`
}

func NewDeliveryCreatedEvent(note *DeliveryNote) *DeliveryCreatedEvent {
	return &DeliveryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryCreated, AggregateTypeDeliveryNote, note.ID),
		Numero:          note.Numero,
		OrderID:         note.OrderID.String(),
	}
}

func (e *DeliveryCreatedEvent) EventType() string {
	return EventTypeDeliveryCreated
}

// DeliveryShippedEvent is emitted when the parcels leave the warehouse
type DeliveryShippedEvent struct {
	shared.BaseDomainEvent
	Numero         string `json:"numero"`
	OrderID        string `json:"order_id"`
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

func NewDeliveryShippedEvent(note *DeliveryNote) *DeliveryShippedEvent {
	return &DeliveryShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryShipped, AggregateTypeDeliveryNote, note.ID),
		Numero:          note.Numero,
		OrderID:         note.OrderID.String(),
		Carrier:         note.Carrier,
		TrackingNumber:  note.TrackingNumber,
	}
}

func (e *DeliveryShippedEvent) EventType() string {
	return EventTypeDeliveryShipped
}

// DeliveryDeliveredEvent is emitted on client reception
type DeliveryDeliveredEvent struct {
	shared.BaseDomainEvent
	Numero  string `json:"numero"`
	OrderID string `json:"order_id"`
}

func NewDeliveryDeliveredEvent(note *DeliveryNote) *DeliveryDeliveredEvent {
	return &DeliveryDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryDelivered, AggregateTypeDeliveryNote, note.ID),
		Numero:          note.Numero,
		OrderID:         note.OrderID.String(),
	}
}

func (e *DeliveryDeliveredEvent) EventType() string {
	return EventTypeDeliveryDelivered
}
