package shipping

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/domain/shared/valueobject"
)

// DeliveryStatus represents the lifecycle status of a delivery note
type DeliveryStatus string

const (
	DeliveryStatusInPreparation DeliveryStatus = "in_preparation"
	DeliveryStatusPrepared      DeliveryStatus = "prepared"
	DeliveryStatusShipped       DeliveryStatus = "shipped"
	DeliveryStatusDelivered     DeliveryStatus = "delivered"
	DeliveryStatusReturned      DeliveryStatus = "returned"
	DeliveryStatusCancelled     DeliveryStatus = "cancelled"
)

// IsValid checks if the status is a valid DeliveryStatus
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusInPreparation, DeliveryStatusPrepared, DeliveryStatusShipped,
		DeliveryStatusDelivered, DeliveryStatusReturned, DeliveryStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DeliveryStatus
func (s DeliveryStatus) String() string {
	return string(s)
}

// deliveryTransitions is the sanctioned transition table. Shipping straight
// from in_preparation is allowed; warehouses skip the prepared step for
// single-parcel notes.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusInPreparation: {DeliveryStatusPrepared, DeliveryStatusShipped, DeliveryStatusCancelled},
	DeliveryStatusPrepared:      {DeliveryStatusShipped, DeliveryStatusCancelled},
	DeliveryStatusShipped:       {DeliveryStatusDelivered, DeliveryStatusReturned},
	DeliveryStatusDelivered:     {DeliveryStatusReturned},
	DeliveryStatusReturned:      {},
	DeliveryStatusCancelled:     {},
}

// CanTransitionTo checks if the status can transition to the target status
func (s DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	for _, allowed := range deliveryTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transition leaves this status
func (s DeliveryStatus) IsTerminal() bool {
	return len(deliveryTransitions[s]) == 0
}

// DeliveryLine is one article entry within a delivery note. The quantity is
// the quantity physically shipped, which may be less than what the source
// order line asked for.
type DeliveryLine struct {
	ID          uuid.UUID
	DeliveryID  uuid.UUID
	LineNumber  int
	OrderLineID *uuid.UUID
	ArticleID   uuid.UUID
	Description string
	Quantity    int
	Size        string
	Color       string
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDeliveryLine creates a new delivery line
func NewDeliveryLine(deliveryID uuid.UUID, lineNumber int, articleID uuid.UUID, description string, quantity int) (*DeliveryLine, error) {
	if articleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ARTICLE", "Article ID cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Shipped quantity must be positive")
	}

	now := time.Now()
	return &DeliveryLine{
		ID:          uuid.New(),
		DeliveryID:  deliveryID,
		LineNumber:  lineNumber,
		ArticleID:   articleID,
		Description: description,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetVariant sets the optional size/color variant tags
func (l *DeliveryLine) SetVariant(size, color string) {
	l.Size = size
	l.Color = color
	l.UpdatedAt = time.Now()
}

// SetLocation sets the warehouse picking location
func (l *DeliveryLine) SetLocation(location string) {
	l.Location = location
	l.UpdatedAt = time.Now()
}

// DeliveryNote is the shipping aggregate root. It is always tied to a
// source order and records what actually left the warehouse.
type DeliveryNote struct {
	shared.BaseAggregateRoot
	Numero          string
	OrderID         uuid.UUID
	ClientID        uuid.UUID
	RepID           *uuid.UUID
	Status          DeliveryStatus
	ShippingAddress valueobject.Address
	Carrier         string
	TrackingNumber  string
	TotalWeightKg   decimal.Decimal
	ParcelCount     int
	Notes           string
	Lines           []DeliveryLine
	PreparedAt      *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	ReturnedAt      *time.Time
	CancelledAt     *time.Time
}

// NewDeliveryNote creates a delivery note for an order, in in_preparation
// status and without lines
func NewDeliveryNote(numero string, orderID, clientID uuid.UUID, shippingAddress valueobject.Address) (*DeliveryNote, error) {
	if numero == "" {
		return nil, shared.NewDomainError("INVALID_NUMERO", "Delivery numero cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Source order ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	note := &DeliveryNote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Numero:            numero,
		OrderID:           orderID,
		ClientID:          clientID,
		Status:            DeliveryStatusInPreparation,
		ShippingAddress:   shippingAddress,
		TotalWeightKg:     decimal.Zero,
		ParcelCount:       0,
		Lines:             make([]DeliveryLine, 0),
	}

	note.AddDomainEvent(NewDeliveryCreatedEvent(note))

	return note, nil
}

// AddLine adds a shipped line to the note
// Only allowed while the note is in preparation
func (d *DeliveryNote) AddLine(orderLineID *uuid.UUID, articleID uuid.UUID, description string, quantity int) (*DeliveryLine, error) {
	if d.Status != DeliveryStatusInPreparation {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a delivery note that left preparation")
	}

	line, err := NewDeliveryLine(d.ID, len(d.Lines)+1, articleID, description, quantity)
	if err != nil {
		return nil, err
	}
	line.OrderLineID = orderLineID

	d.Lines = append(d.Lines, *line)
	d.UpdatedAt = time.Now()

	return &d.Lines[len(d.Lines)-1], nil
}

// SetRep associates a sales representative with the delivery note
func (d *DeliveryNote) SetRep(repID uuid.UUID) error {
	if repID == uuid.Nil {
		return shared.NewDomainError("INVALID_REP", "Sales rep ID cannot be empty")
	}
	d.RepID = &repID
	d.UpdatedAt = time.Now()
	return nil
}

// SetCarrier sets the carrier and optional tracking number
// Frozen once the note is in a terminal status
func (d *DeliveryNote) SetCarrier(carrier, trackingNumber string) error {
	if d.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the carrier of a closed delivery note")
	}
	d.Carrier = carrier
	d.TrackingNumber = trackingNumber
	d.UpdatedAt = time.Now()
	return nil
}

// SetParcelInfo records the physical parcel count and total weight.
// Weight is kept at three decimal places (grams resolution).
func (d *DeliveryNote) SetParcelInfo(parcelCount int, totalWeightKg decimal.Decimal) error {
	if parcelCount < 0 {
		return shared.NewDomainError("INVALID_PARCELS", "Parcel count cannot be negative")
	}
	if totalWeightKg.IsNegative() {
		return shared.NewDomainError("INVALID_WEIGHT", "Total weight cannot be negative")
	}
	d.ParcelCount = parcelCount
	d.TotalWeightKg = totalWeightKg.Round(3)
	d.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets the delivery notes
func (d *DeliveryNote) SetNotes(notes string) {
	d.Notes = notes
	d.UpdatedAt = time.Now()
}

// MarkPrepared transitions the note to prepared
func (d *DeliveryNote) MarkPrepared() error {
	if !d.Status.CanTransitionTo(DeliveryStatusPrepared) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot mark a delivery in %s status as prepared", d.Status))
	}
	if len(d.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot prepare a delivery note without lines")
	}

	now := time.Now()
	d.Status = DeliveryStatusPrepared
	d.PreparedAt = &now
	d.UpdatedAt = now
	return nil
}

// Ship transitions the note to shipped
func (d *DeliveryNote) Ship() error {
	if !d.Status.CanTransitionTo(DeliveryStatusShipped) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot ship a delivery in %s status", d.Status))
	}
	if len(d.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot ship a delivery note without lines")
	}

	now := time.Now()
	d.Status = DeliveryStatusShipped
	d.ShippedAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDeliveryShippedEvent(d))

	return nil
}

// Deliver records client reception of the parcels
func (d *DeliveryNote) Deliver() error {
	if !d.Status.CanTransitionTo(DeliveryStatusDelivered) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot deliver a delivery in %s status", d.Status))
	}

	now := time.Now()
	d.Status = DeliveryStatusDelivered
	d.DeliveredAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDeliveryDeliveredEvent(d))

	return nil
}

// MarkReturned records that the shipment came back
func (d *DeliveryNote) MarkReturned() error {
	if !d.Status.CanTransitionTo(DeliveryStatusReturned) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot return a delivery in %s status", d.Status))
	}

	now := time.Now()
	d.Status = DeliveryStatusReturned
	d.ReturnedAt = &now
	d.UpdatedAt = now
	return nil
}

// Cancel cancels a delivery note that has not shipped yet
func (d *DeliveryNote) Cancel() error {
	if !d.Status.CanTransitionTo(DeliveryStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel a delivery in %s status", d.Status))
	}

	now := time.Now()
	d.Status = DeliveryStatusCancelled
	d.CancelledAt = &now
	d.UpdatedAt = now
	return nil
}

// TotalQuantity returns the total shipped quantity over all lines
func (d *DeliveryNote) TotalQuantity() int {
	total := 0
	for _, line := range d.Lines {
		total += line.Quantity
	}
	return total
}

// IsEmpty returns true if the note carries no lines
func (d *DeliveryNote) IsEmpty() bool {
	return len(d.Lines) == 0
}

// LineCount returns the number of lines in the note
func (d *DeliveryNote) LineCount() int {
	return len(d.Lines)
}
