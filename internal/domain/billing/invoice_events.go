package billing

import (
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/shared"
)

const AggregateTypeInvoice = "Invoice"

const (
	EventTypeInvoiceCreated  = "billing.invoice.created"
	EventTypeInvoiceIssued   = "billing.invoice.issued"
	EventTypePaymentRecorded = "billing.invoice.payment_recorded"
	EventTypeInvoicePaid     = "billing.invoice.paid"
)

// InvoiceCreatedEvent is emitted when a standalone invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Numero   string `json:"numero"`
	ClientID string `json:"client_id"`
}

func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID),
		Numero:          invoice.Numero,
		ClientID:        invoice.ClientID.String(),
	}
}

func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// InvoiceIssuedEvent is emitted when an invoice becomes a legal document,
// either explicitly or by derivation from an order
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	Numero     string          `json:"numero"`
	ClientID   string          `json:"client_id"`
	OrderID    string          `json:"order_id,omitempty"`
	TotalGross decimal.Decimal `json:"total_gross"`
}

func NewInvoiceIssuedEvent(invoice *Invoice) *InvoiceIssuedEvent {
	event := &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceIssued, AggregateTypeInvoice, invoice.ID),
		Numero:          invoice.Numero,
		ClientID:        invoice.ClientID.String(),
		TotalGross:      invoice.TotalGross,
	}
	if invoice.OrderID != nil {
		event.OrderID = invoice.OrderID.String()
	}
	return event
}

func (e *InvoiceIssuedEvent) EventType() string {
	return EventTypeInvoiceIssued
}

// PaymentRecordedEvent is emitted for every payment applied to the ledger
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Numero      string          `json:"numero"`
	PaymentID   string          `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

func NewPaymentRecordedEvent(invoice *Invoice, record *PaymentRecord) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeInvoice, invoice.ID),
		Numero:          invoice.Numero,
		PaymentID:       record.ID.String(),
		Amount:          record.Amount,
		AmountPaid:      invoice.AmountPaid,
		Outstanding:     invoice.OutstandingAmount(),
	}
}

func (e *PaymentRecordedEvent) EventType() string {
	return EventTypePaymentRecorded
}

// InvoicePaidEvent is emitted when the ledger reaches the gross total
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	Numero     string          `json:"numero"`
	TotalGross decimal.Decimal `json:"total_gross"`
}

func NewInvoicePaidEvent(invoice *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, invoice.ID),
		Numero:          invoice.Numero,
		TotalGross:      invoice.TotalGross,
	}
}

func (e *InvoicePaidEvent) EventType() string {
	return EventTypeInvoicePaid
}
