package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/billing"
	"github.com/gescom/backend/internal/domain/shared/valueobject"
)

// AddressInput is a postal-address snapshot in requests
type AddressInput struct {
	Street     string `json:"street" validate:"max=200"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	City       string `json:"city" validate:"max=100"`
	Country    string `json:"country" validate:"max=100"`
}

// ToAddress converts the input into an address value object
func (a AddressInput) ToAddress() valueobject.Address {
	return valueobject.NewAddress(a.Street, a.PostalCode, a.City, a.Country)
}

// CreateInvoiceLineInput represents a line in the create invoice request
type CreateInvoiceLineInput struct {
	ArticleID   uuid.UUID       `json:"article_id" validate:"required"`
	Description string          `json:"description" validate:"required,min=1,max=200"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	TaxPct      decimal.Decimal `json:"tax_pct"`
	Size        string          `json:"size" validate:"max=20"`
	Color       string          `json:"color" validate:"max=50"`
}

// CreateInvoiceRequest represents a request to create a standalone invoice
type CreateInvoiceRequest struct {
	ClientID          uuid.UUID                `json:"client_id" validate:"required"`
	RepID             *uuid.UUID               `json:"rep_id"`
	DueDate           *time.Time               `json:"due_date"`
	PaymentTerms      string                   `json:"payment_terms" validate:"max=100"`
	ClientReference   string                   `json:"client_reference" validate:"max=100"`
	Notes             string                   `json:"notes" validate:"max=1000"`
	BillingAddress    *AddressInput            `json:"billing_address"`
	GlobalDiscountPct *decimal.Decimal         `json:"global_discount_pct"`
	Lines             []CreateInvoiceLineInput `json:"lines" validate:"dive"`
}

// UpdateInvoiceRequest represents a request to update a draft invoice
type UpdateInvoiceRequest struct {
	RepID             *uuid.UUID       `json:"rep_id"`
	DueDate           *time.Time       `json:"due_date"`
	PaymentTerms      *string          `json:"payment_terms" validate:"omitempty,max=100"`
	ClientReference   *string          `json:"client_reference" validate:"omitempty,max=100"`
	Notes             *string          `json:"notes" validate:"omitempty,max=1000"`
	BillingAddress    *AddressInput    `json:"billing_address"`
	GlobalDiscountPct *decimal.Decimal `json:"global_discount_pct"`
}

// CreateFromOrderRequest represents a request to derive an invoice from an order
type CreateFromOrderRequest struct {
	OrderID      uuid.UUID  `json:"order_id" validate:"required"`
	DueDate      *time.Time `json:"due_date"`
	PaymentTerms string     `json:"payment_terms" validate:"max=100"`
}

// RecordPaymentRequest represents a request to apply a payment
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Reference string          `json:"reference" validate:"max=100"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Search   string                 `form:"search"`
	ClientID *uuid.UUID             `form:"client_id"`
	Status   *billing.InvoiceStatus `form:"status"`
	Page     int                    `form:"page" validate:"min=0"`
	PageSize int                    `form:"page_size" validate:"min=0,max=200"`
	OrderBy  string                 `form:"order_by"`
	OrderDir string                 `form:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// InvoiceLineResponse represents an invoice line in responses
type InvoiceLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	LineNumber  int             `json:"line_number"`
	ArticleID   uuid.UUID       `json:"article_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	TaxPct      decimal.Decimal `json:"tax_pct"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
}

// PaymentResponse represents one ledger entry in responses
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// InvoiceResponse represents an invoice in responses
type InvoiceResponse struct {
	ID                uuid.UUID             `json:"id"`
	Numero            string                `json:"numero"`
	ClientID          uuid.UUID             `json:"client_id"`
	OrderID           *uuid.UUID            `json:"order_id,omitempty"`
	RepID             *uuid.UUID            `json:"rep_id,omitempty"`
	Status            string                `json:"status"`
	IssueDate         time.Time             `json:"issue_date"`
	DueDate           *time.Time            `json:"due_date,omitempty"`
	PaymentTerms      string                `json:"payment_terms,omitempty"`
	ClientReference   string                `json:"client_reference,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	BillingAddress    valueobject.Address   `json:"billing_address"`
	GlobalDiscountPct decimal.Decimal       `json:"global_discount_pct"`
	TotalNet          decimal.Decimal       `json:"total_net"`
	TotalTax          decimal.Decimal       `json:"total_tax"`
	TotalGross        decimal.Decimal       `json:"total_gross"`
	AmountPaid        decimal.Decimal       `json:"amount_paid"`
	Outstanding       decimal.Decimal       `json:"outstanding"`
	Payments          []PaymentResponse     `json:"payments"`
	Lines             []InvoiceLineResponse `json:"lines"`
	PaidAt            *time.Time            `json:"paid_at,omitempty"`
	CancelledAt       *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to its response shape
func ToInvoiceResponse(invoice *billing.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(invoice.Lines))
	for i, line := range invoice.Lines {
		lines[i] = InvoiceLineResponse{
			ID:          line.ID,
			LineNumber:  line.LineNumber,
			ArticleID:   line.ArticleID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			DiscountPct: line.DiscountPct,
			TaxPct:      line.TaxPct,
			NetAmount:   line.NetAmount,
			Size:        line.Size,
			Color:       line.Color,
		}
	}

	payments := make([]PaymentResponse, len(invoice.Payments))
	for i, record := range invoice.Payments {
		payments[i] = PaymentResponse{
			ID:         record.ID,
			Amount:     record.Amount,
			Reference:  record.Reference,
			RecordedAt: record.RecordedAt,
		}
	}

	return InvoiceResponse{
		ID:                invoice.ID,
		Numero:            invoice.Numero,
		ClientID:          invoice.ClientID,
		OrderID:           invoice.OrderID,
		RepID:             invoice.RepID,
		Status:            invoice.Status.String(),
		IssueDate:         invoice.IssueDate,
		DueDate:           invoice.DueDate,
		PaymentTerms:      invoice.PaymentTerms,
		ClientReference:   invoice.ClientReference,
		Notes:             invoice.Notes,
		BillingAddress:    invoice.BillingAddress,
		GlobalDiscountPct: invoice.GlobalDiscountPct,
		TotalNet:          invoice.TotalNet,
		TotalTax:          invoice.TotalTax,
		TotalGross:        invoice.TotalGross,
		AmountPaid:        invoice.AmountPaid,
		Outstanding:       invoice.OutstandingAmount(),
		Payments:          payments,
		Lines:             lines,
		PaidAt:            invoice.PaidAt,
		CancelledAt:       invoice.CancelledAt,
		CreatedAt:         invoice.CreatedAt,
		UpdatedAt:         invoice.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain invoices to response shapes
func ToInvoiceResponses(invoices []*billing.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i, invoice := range invoices {
		responses[i] = ToInvoiceResponse(invoice)
	}
	return responses
}
