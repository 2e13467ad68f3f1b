package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/domain/shared/pricing"
	"github.com/gescom/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusIssued        InvoiceStatus = "issued"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
	InvoiceStatusCreditNote    InvoiceStatus = "credit_note"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusSent, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled, InvoiceStatusCreditNote:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// invoiceTransitions is the sanctioned transition table. The payment ledger
// drives partially_paid and paid; sent and overdue are set by outer layers
// (dispatch, dunning) but stay bounded by the table.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:         {InvoiceStatusIssued, InvoiceStatusCancelled},
	InvoiceStatusIssued:        {InvoiceStatusSent, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusSent:          {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusPartiallyPaid: {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue:       {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:          {InvoiceStatusCreditNote},
	InvoiceStatusCancelled:     {},
	InvoiceStatusCreditNote:    {},
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// CanRecordPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanRecordPayment() bool {
	switch s {
	case InvoiceStatusIssued, InvoiceStatusSent, InvoiceStatusPartiallyPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// IsTerminal returns true if no further transition leaves this status
func (s InvoiceStatus) IsTerminal() bool {
	return len(invoiceTransitions[s]) == 0
}

// PaymentRecord is one payment applied to the invoice. It is a value object
// within the Invoice aggregate, stored as JSONB.
type PaymentRecord struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// PaymentRecords is a slice of PaymentRecord implementing GORM
// Scanner/Valuer for JSONB storage
type PaymentRecords []PaymentRecord

// Value implements driver.Valuer for JSONB storage
func (p PaymentRecords) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentRecords{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentRecords: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentRecords{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// InvoiceLine is one article entry within an invoice. Same shape as an
// order line minus delivered-quantity tracking.
type InvoiceLine struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	LineNumber  int
	ArticleID   uuid.UUID
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
	TaxPct      decimal.Decimal
	NetAmount   decimal.Decimal
	Size        string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewInvoiceLine creates a new invoice line and computes its net amount
func NewInvoiceLine(invoiceID uuid.UUID, lineNumber int, articleID uuid.UUID, description string, quantity int, unitPrice, discountPct, taxPct decimal.Decimal) (*InvoiceLine, error) {
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
	return &InvoiceLine{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
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
func (l *InvoiceLine) SetVariant(size, color string) {
	l.Size = size
	l.Color = color
	l.UpdatedAt = time.Now()
}

// Invoice is the billing aggregate root. It owns its lines, carries
// denormalized totals, and accumulates payments through the ledger.
type Invoice struct {
	shared.BaseAggregateRoot
	Numero            string
	ClientID          uuid.UUID
	OrderID           *uuid.UUID
	RepID             *uuid.UUID
	Status            InvoiceStatus
	IssueDate         time.Time
	DueDate           *time.Time
	PaymentTerms      string
	ClientReference   string
	Notes             string
	BillingAddress    valueobject.Address
	GlobalDiscountPct decimal.Decimal
	TotalNet          decimal.Decimal
	TotalTax          decimal.Decimal
	TotalGross        decimal.Decimal
	AmountPaid        decimal.Decimal
	Payments          PaymentRecords
	Lines             []InvoiceLine
	PaidAt            *time.Time
	CancelledAt       *time.Time
}

// NewInvoice creates a new standalone invoice in draft status
func NewInvoice(numero string, clientID uuid.UUID) (*Invoice, error) {
	if numero == "" {
		return nil, shared.NewDomainError("INVALID_NUMERO", "Invoice numero cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Numero:            numero,
		ClientID:          clientID,
		Status:            InvoiceStatusDraft,
		IssueDate:         time.Now(),
		GlobalDiscountPct: decimal.Zero,
		TotalNet:          decimal.Zero,
		TotalTax:          decimal.Zero,
		TotalGross:        decimal.Zero,
		AmountPaid:        decimal.Zero,
		Payments:          make(PaymentRecords, 0),
		Lines:             make([]InvoiceLine, 0),
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// DerivedLine is a verbatim line copy used when deriving an invoice from a
// source order: the net amount is carried over, not recomputed.
type DerivedLine struct {
	ArticleID   uuid.UUID
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
	TaxPct      decimal.Decimal
	NetAmount   decimal.Decimal
	Size        string
	Color       string
}

// DerivationSource is the snapshot of an order that an invoice is derived
// from. It holds an id-only reference to the order; the totals are the
// order's already-computed ones.
type DerivationSource struct {
	OrderID           uuid.UUID
	ClientID          uuid.UUID
	RepID             *uuid.UUID
	BillingAddress    valueobject.Address
	GlobalDiscountPct decimal.Decimal
	TotalNet          decimal.Decimal
	TotalTax          decimal.Decimal
	TotalGross        decimal.Decimal
	Lines             []DerivedLine
}

// NewInvoiceFromOrder creates an invoice derived from a source order.
//
// The invoice starts directly in issued status. Lines and totals are copied
// verbatim from the order rather than recomputed; since the source totals
// were produced by the same pricing computation over the same lines, the
// copy is intentionally trusted.
func NewInvoiceFromOrder(numero string, src DerivationSource) (*Invoice, error) {
	if numero == "" {
		return nil, shared.NewDomainError("INVALID_NUMERO", "Invoice numero cannot be empty")
	}
	if src.ClientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if src.OrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Source order ID cannot be empty")
	}

	orderID := src.OrderID
	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Numero:            numero,
		ClientID:          src.ClientID,
		OrderID:           &orderID,
		RepID:             src.RepID,
		Status:            InvoiceStatusIssued,
		IssueDate:         time.Now(),
		BillingAddress:    src.BillingAddress,
		GlobalDiscountPct: src.GlobalDiscountPct,
		TotalNet:          src.TotalNet,
		TotalTax:          src.TotalTax,
		TotalGross:        src.TotalGross,
		AmountPaid:        decimal.Zero,
		Payments:          make(PaymentRecords, 0),
		Lines:             make([]InvoiceLine, 0, len(src.Lines)),
	}

	now := time.Now()
	for i, src := range src.Lines {
		invoice.Lines = append(invoice.Lines, InvoiceLine{
			ID:          uuid.New(),
			InvoiceID:   invoice.ID,
			LineNumber:  i + 1,
			ArticleID:   src.ArticleID,
			Description: src.Description,
			Quantity:    src.Quantity,
			UnitPrice:   src.UnitPrice,
			DiscountPct: src.DiscountPct,
			TaxPct:      src.TaxPct,
			NetAmount:   src.NetAmount,
			Size:        src.Size,
			Color:       src.Color,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	invoice.AddDomainEvent(NewInvoiceIssuedEvent(invoice))

	return invoice, nil
}

// AddLine adds a new line to a standalone invoice
// Only allowed in draft status
func (inv *Invoice) AddLine(articleID uuid.UUID, description string, quantity int, unitPrice, discountPct, taxPct decimal.Decimal) (*InvoiceLine, error) {
	if inv.Status != InvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft invoice")
	}

	line, err := NewInvoiceLine(inv.ID, len(inv.Lines)+1, articleID, description, quantity, unitPrice, discountPct, taxPct)
	if err != nil {
		return nil, err
	}

	inv.Lines = append(inv.Lines, *line)
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()

	return &inv.Lines[len(inv.Lines)-1], nil
}

// SetGlobalDiscount applies a document-level discount percentage
// Only allowed in draft status
func (inv *Invoice) SetGlobalDiscount(discountPct decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the discount of a non-draft invoice")
	}
	if !pricing.ValidPercent(discountPct) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Global discount must be between 0 and 100")
	}

	inv.GlobalDiscountPct = discountPct
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()
	return nil
}

// SetBillingAddress replaces the billing-address snapshot
// Only allowed in draft status
func (inv *Invoice) SetBillingAddress(addr valueobject.Address) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the address of a non-draft invoice")
	}
	inv.BillingAddress = addr
	inv.UpdatedAt = time.Now()
	return nil
}

// SetPaymentTerms sets the payment-terms string
func (inv *Invoice) SetPaymentTerms(terms string) {
	inv.PaymentTerms = terms
	inv.UpdatedAt = time.Now()
}

// SetDueDate sets the payment due date
func (inv *Invoice) SetDueDate(date time.Time) {
	inv.DueDate = &date
	inv.UpdatedAt = time.Now()
}

// SetClientReference sets the client's free-text reference
func (inv *Invoice) SetClientReference(reference string) {
	inv.ClientReference = reference
	inv.UpdatedAt = time.Now()
}

// SetNotes sets the invoice notes
func (inv *Invoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
}

// SetRep associates a sales representative with the invoice
func (inv *Invoice) SetRep(repID uuid.UUID) error {
	if repID == uuid.Nil {
		return shared.NewDomainError("INVALID_REP", "Sales rep ID cannot be empty")
	}
	inv.RepID = &repID
	inv.UpdatedAt = time.Now()
	return nil
}

// Issue transitions a draft invoice to issued
func (inv *Invoice) Issue() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusIssued) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot issue an invoice in %s status", inv.Status))
	}
	if len(inv.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot issue an invoice without lines")
	}

	inv.Status = InvoiceStatusIssued
	inv.IssueDate = time.Now()
	inv.UpdatedAt = inv.IssueDate

	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))

	return nil
}

// MarkSent records that the invoice was dispatched to the client
func (inv *Invoice) MarkSent() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusSent) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot mark an invoice in %s status as sent", inv.Status))
	}
	inv.Status = InvoiceStatusSent
	inv.UpdatedAt = time.Now()
	return nil
}

// MarkOverdue records that the invoice passed its due date unpaid
func (inv *Invoice) MarkOverdue() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusOverdue) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot mark an invoice in %s status as overdue", inv.Status))
	}
	inv.Status = InvoiceStatusOverdue
	inv.UpdatedAt = time.Now()
	return nil
}

// Cancel cancels the invoice
func (inv *Invoice) Cancel() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel an invoice in %s status", inv.Status))
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.UpdatedAt = now
	return nil
}

// RecordPayment applies a payment to the invoice ledger.
//
// The amount must be strictly positive, and a payment that would push the
// cumulative paid amount past the gross total is rejected rather than
// clamped. The resulting status is a pure function of paid vs gross.
func (inv *Invoice) RecordPayment(amount decimal.Decimal, reference string) error {
	if !inv.Status.CanRecordPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record a payment on an invoice in %s status", inv.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive")
	}

	newPaid := inv.AmountPaid.Add(amount)
	if newPaid.GreaterThan(inv.TotalGross) {
		return shared.NewDomainError("OVERPAYMENT_REJECTED",
			fmt.Sprintf("Payment of %s exceeds the outstanding balance of %s", amount.StringFixed(2), inv.OutstandingAmount().StringFixed(2)))
	}

	now := time.Now()
	record := PaymentRecord{
		ID:         uuid.New(),
		Amount:     amount,
		Reference:  reference,
		RecordedAt: now,
	}
	inv.Payments = append(inv.Payments, record)
	inv.AmountPaid = newPaid

	if inv.AmountPaid.GreaterThanOrEqual(inv.TotalGross) {
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
	}
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewPaymentRecordedEvent(inv, &record))

	return nil
}

// OutstandingAmount returns the gross total minus the cumulative paid amount
func (inv *Invoice) OutstandingAmount() decimal.Decimal {
	return inv.TotalGross.Sub(inv.AmountPaid)
}

// recalculateTotals recomputes the denormalized totals from the lines
func (inv *Invoice) recalculateTotals() {
	lines := make([]pricing.TaxableLine, len(inv.Lines))
	for i, line := range inv.Lines {
		lines[i] = pricing.TaxableLine{NetAmount: line.NetAmount, TaxPct: line.TaxPct}
	}
	totals := pricing.ComputeTotals(lines, inv.GlobalDiscountPct)
	inv.TotalNet = totals.Net
	inv.TotalTax = totals.Tax
	inv.TotalGross = totals.Gross
}

// GetTotalGrossMoney returns the gross total as Money
func (inv *Invoice) GetTotalGrossMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(inv.TotalGross)
}

// IsDraft returns true if the invoice is in draft status
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsPaid returns true if the invoice is fully paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// LineCount returns the number of lines in the invoice
func (inv *Invoice) LineCount() int {
	return len(inv.Lines)
}
