package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/domain/shared/pricing"
	"github.com/gescom/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the lifecycle status of a sales order
type OrderStatus string

const (
	OrderStatusDraft         OrderStatus = "draft"
	OrderStatusValidated     OrderStatus = "validated"
	OrderStatusInPreparation OrderStatus = "in_preparation"
	OrderStatusPrepared      OrderStatus = "prepared"
	OrderStatusShipped       OrderStatus = "shipped"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusInvoiced      OrderStatus = "invoiced"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusValidated, OrderStatusInPreparation, OrderStatusPrepared,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusInvoiced, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// orderTransitions is the sanctioned transition table. Invoicing is legal
// from every live state because billing is independent of fulfillment
// ("invoice now, ship later"); it is absent from invoiced itself so a
// second derivation fails instead of silently producing a twin invoice.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:         {OrderStatusValidated, OrderStatusShipped, OrderStatusInvoiced, OrderStatusCancelled},
	OrderStatusValidated:     {OrderStatusInPreparation, OrderStatusShipped, OrderStatusInvoiced, OrderStatusCancelled},
	OrderStatusInPreparation: {OrderStatusPrepared, OrderStatusShipped, OrderStatusInvoiced, OrderStatusCancelled},
	OrderStatusPrepared:      {OrderStatusShipped, OrderStatusInvoiced, OrderStatusCancelled},
	OrderStatusShipped:       {OrderStatusDelivered, OrderStatusInvoiced},
	OrderStatusDelivered:     {OrderStatusInvoiced},
	OrderStatusInvoiced:      {},
	OrderStatusCancelled:     {},
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transition leaves this status
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// OrderLine is one article entry within an order. The delivered quantity
// starts at zero and never decreases; it can never exceed the ordered
// quantity.
type OrderLine struct {
	ID                uuid.UUID
	OrderID           uuid.UUID
	LineNumber        int
	ArticleID         uuid.UUID
	Description       string
	Quantity          int
	DeliveredQuantity int
	UnitPrice         decimal.Decimal // 4 decimal places
	DiscountPct       decimal.Decimal
	TaxPct            decimal.Decimal
	NetAmount         decimal.Decimal // 2 decimal places
	Size              string
	Color             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewOrderLine creates a new order line and computes its net amount
func NewOrderLine(orderID uuid.UUID, lineNumber int, articleID uuid.UUID, description string, quantity int, unitPrice, discountPct, taxPct decimal.Decimal) (*OrderLine, error) {
	if articleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ARTICLE", "Article ID cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if !pricing.ValidPercent(discountPct) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Line discount must be between 0 and 100")
	}
	if !pricing.ValidPercent(taxPct) {
		return nil, shared.NewDomainError("INVALID_TAX", "Tax percentage must be between 0 and 100")
	}

	now := time.Now()
	return &OrderLine{
		ID:          uuid.New(),
		OrderID:     orderID,
		LineNumber:  lineNumber,
		ArticleID:   articleID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		DiscountPct: discountPct,
		TaxPct:      taxPct,
		NetAmount:   pricing.LineAmount(quantity, unitPrice, discountPct),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetVariant sets the optional size/color variant tags
func (l *OrderLine) SetVariant(size, color string) {
	l.Size = size
	l.Color = color
	l.UpdatedAt = time.Now()
}

// UpdateQuantity updates the ordered quantity and recomputes the net amount
func (l *OrderLine) UpdateQuantity(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quantity < l.DeliveredQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot drop below the delivered quantity")
	}
	l.Quantity = quantity
	l.NetAmount = pricing.LineAmount(quantity, l.UnitPrice, l.DiscountPct)
	l.UpdatedAt = time.Now()
	return nil
}

// RemainingQuantity returns the quantity not yet delivered
func (l *OrderLine) RemainingQuantity() int {
	return l.Quantity - l.DeliveredQuantity
}

// markFullyDelivered records that everything still open on the line went out
func (l *OrderLine) markFullyDelivered() {
	l.DeliveredQuantity = l.Quantity
	l.UpdatedAt = time.Now()
}

// GetNetAmountMoney returns the line net amount as Money
func (l *OrderLine) GetNetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(l.NetAmount)
}

// Order is the sales order aggregate root. It owns its lines and carries
// denormalized totals that are recomputed on every line or discount change.
type Order struct {
	shared.BaseAggregateRoot
	Numero              string
	ClientID            uuid.UUID
	RepID               *uuid.UUID
	Status              OrderStatus
	OrderDate           time.Time
	DesiredDeliveryDate *time.Time
	ClientReference     string
	Notes               string
	ShippingAddress     valueobject.Address
	GlobalDiscountPct   decimal.Decimal
	TotalNet            decimal.Decimal
	TotalTax            decimal.Decimal
	TotalGross          decimal.Decimal
	Lines               []OrderLine
	ValidatedAt         *time.Time
	ShippedAt           *time.Time
	InvoicedAt          *time.Time
	CancelledAt         *time.Time
}

// NewOrder creates a new sales order in draft status
func NewOrder(numero string, clientID uuid.UUID) (*Order, error) {
	if numero == "" {
		return nil, shared.NewDomainError("INVALID_NUMERO", "Order numero cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Numero:            numero,
		ClientID:          clientID,
		Status:            OrderStatusDraft,
		OrderDate:         time.Now(),
		GlobalDiscountPct: decimal.Zero,
		TotalNet:          decimal.Zero,
		TotalTax:          decimal.Zero,
		TotalGross:        decimal.Zero,
		Lines:             make([]OrderLine, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddLine adds a new line to the order
// Only allowed in draft status
func (o *Order) AddLine(articleID uuid.UUID, description string, quantity int, unitPrice, discountPct, taxPct decimal.Decimal) (*OrderLine, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft order")
	}

	line, err := NewOrderLine(o.ID, len(o.Lines)+1, articleID, description, quantity, unitPrice, discountPct, taxPct)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return &o.Lines[len(o.Lines)-1], nil
}

// UpdateLineQuantity updates the quantity of an existing line
// Only allowed in draft status
func (o *Order) UpdateLineQuantity(lineID uuid.UUID, quantity int) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines in a non-draft order")
	}

	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			if err := o.Lines[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// RemoveLine removes a line from the order and renumbers the remainder
// Only allowed in draft status
func (o *Order) RemoveLine(lineID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft order")
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			for i := range o.Lines {
				o.Lines[i].LineNumber = i + 1
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// SetGlobalDiscount applies a document-level discount percentage
// Only allowed in draft status
func (o *Order) SetGlobalDiscount(discountPct decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the discount of a non-draft order")
	}
	if !pricing.ValidPercent(discountPct) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Global discount must be between 0 and 100")
	}

	o.GlobalDiscountPct = discountPct
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// SetShippingAddress replaces the shipping-address snapshot
// Only allowed in draft status
func (o *Order) SetShippingAddress(addr valueobject.Address) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the address of a non-draft order")
	}
	o.ShippingAddress = addr
	o.UpdatedAt = time.Now()
	return nil
}

// SetRep associates a sales representative with the order
func (o *Order) SetRep(repID uuid.UUID) error {
	if repID == uuid.Nil {
		return shared.NewDomainError("INVALID_REP", "Sales rep ID cannot be empty")
	}
	o.RepID = &repID
	o.UpdatedAt = time.Now()
	return nil
}

// SetClientReference sets the client's free-text reference
func (o *Order) SetClientReference(reference string) {
	o.ClientReference = reference
	o.UpdatedAt = time.Now()
}

// SetNotes sets the order notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// SetDesiredDeliveryDate sets the requested delivery date
func (o *Order) SetDesiredDeliveryDate(date time.Time) {
	o.DesiredDeliveryDate = &date
	o.UpdatedAt = time.Now()
}

// Validate transitions the order from draft to validated
func (o *Order) Validate() error {
	if !o.Status.CanTransitionTo(OrderStatusValidated) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot validate an order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot validate an order without lines")
	}

	now := time.Now()
	o.Status = OrderStatusValidated
	o.ValidatedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderValidatedEvent(o))

	return nil
}

// StartPreparation moves a validated order into preparation
func (o *Order) StartPreparation() error {
	if !o.Status.CanTransitionTo(OrderStatusInPreparation) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot start preparing an order in %s status", o.Status))
	}
	o.Status = OrderStatusInPreparation
	o.UpdatedAt = time.Now()
	return nil
}

// MarkPrepared marks an order in preparation as picked and packed
func (o *Order) MarkPrepared() error {
	if !o.Status.CanTransitionTo(OrderStatusPrepared) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot mark an order in %s status as prepared", o.Status))
	}
	o.Status = OrderStatusPrepared
	o.UpdatedAt = time.Now()
	return nil
}

// MarkDelivered records that the shipped goods reached the client
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot mark an order in %s status as delivered", o.Status))
	}
	o.Status = OrderStatusDelivered
	o.UpdatedAt = time.Now()
	return nil
}

// MarkInvoiced records that an invoice was derived from the order. Billing
// does not wait for fulfillment, so any live state may be invoiced; a
// second attempt fails because invoiced has no outgoing transitions.
func (o *Order) MarkInvoiced() error {
	if !o.Status.CanTransitionTo(OrderStatusInvoiced) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot invoice an order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusInvoiced
	o.InvoicedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderInvoicedEvent(o))

	return nil
}

// MarkShipped records that a delivery note was derived from the order.
// Repeat shipment of an already-shipped order is a no-op so that an empty
// follow-up delivery note remains legal; an invoiced order keeps its
// invoiced status rather than regressing to shipped.
func (o *Order) MarkShipped() error {
	switch o.Status {
	case OrderStatusCancelled:
		return shared.NewDomainError("INVALID_TRANSITION", "Cannot ship a cancelled order")
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusInvoiced:
		return nil
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// Cancel cancels the order. Invoiced and cancelled orders cannot be
// cancelled.
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel an order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// DeliveryAllocation is the outcome of draining one order line for a
// delivery note derivation: the quantity still owed, with the line's
// article snapshot.
type DeliveryAllocation struct {
	LineID      uuid.UUID
	ArticleID   uuid.UUID
	Description string
	Quantity    int
	Size        string
	Color       string
}

// DrainUndelivered collects the remaining quantity of every line and marks
// those lines fully delivered. Lines with nothing remaining are skipped, so
// a second drain returns no allocations. The caller is expected to follow
// up with MarkShipped.
func (o *Order) DrainUndelivered() ([]DeliveryAllocation, error) {
	if o.Status == OrderStatusCancelled {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Cannot ship a cancelled order")
	}

	allocations := make([]DeliveryAllocation, 0, len(o.Lines))
	for idx := range o.Lines {
		remaining := o.Lines[idx].RemainingQuantity()
		if remaining <= 0 {
			continue
		}
		allocations = append(allocations, DeliveryAllocation{
			LineID:      o.Lines[idx].ID,
			ArticleID:   o.Lines[idx].ArticleID,
			Description: o.Lines[idx].Description,
			Quantity:    remaining,
			Size:        o.Lines[idx].Size,
			Color:       o.Lines[idx].Color,
		})
		o.Lines[idx].markFullyDelivered()
	}
	if len(allocations) > 0 {
		o.UpdatedAt = time.Now()
	}
	return allocations, nil
}

// recalculateTotals recomputes the denormalized totals from the lines
func (o *Order) recalculateTotals() {
	lines := make([]pricing.TaxableLine, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = pricing.TaxableLine{NetAmount: line.NetAmount, TaxPct: line.TaxPct}
	}
	totals := pricing.ComputeTotals(lines, o.GlobalDiscountPct)
	o.TotalNet = totals.Net
	o.TotalTax = totals.Tax
	o.TotalGross = totals.Gross
}

// Totals returns the denormalized totals of the order
func (o *Order) Totals() pricing.Totals {
	return pricing.Totals{Net: o.TotalNet, Tax: o.TotalTax, Gross: o.TotalGross}
}

// IsDraft returns true if the order is in draft status
func (o *Order) IsDraft() bool {
	return o.Status == OrderStatusDraft
}

// IsFullyDelivered returns true when every line has been delivered in full
func (o *Order) IsFullyDelivered() bool {
	for _, line := range o.Lines {
		if line.RemainingQuantity() > 0 {
			return false
		}
	}
	return true
}

// CanModify returns true if the order fields and lines can still change
func (o *Order) CanModify() bool {
	return o.IsDraft()
}

// LineCount returns the number of lines in the order
func (o *Order) LineCount() int {
	return len(o.Lines)
}

// GetLine returns a line by its ID
func (o *Order) GetLine(lineID uuid.UUID) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}
