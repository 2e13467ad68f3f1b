package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/billing"
	"github.com/gescom/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// The payment ledger is stored as JSONB on the invoice row.
type InvoiceModel struct {
	AggregateModel
	Numero            string                 `gorm:"type:varchar(20);not null;uniqueIndex"`
	ClientID          uuid.UUID              `gorm:"type:uuid;not null;index"`
	OrderID           *uuid.UUID             `gorm:"type:uuid;index"`
	RepID             *uuid.UUID             `gorm:"type:uuid;index"`
	Status            billing.InvoiceStatus  `gorm:"type:varchar(20);not null;default:'draft';index"`
	IssueDate         time.Time              `gorm:"not null"`
	DueDate           *time.Time             `gorm:"index"`
	PaymentTerms      string                 `gorm:"type:varchar(100)"`
	ClientReference   string                 `gorm:"type:varchar(100)"`
	Notes             string                 `gorm:"type:text"`
	BillingStreet     string                 `gorm:"type:varchar(200)"`
	BillingPostalCode string                 `gorm:"type:varchar(20)"`
	BillingCity       string                 `gorm:"type:varchar(100)"`
	BillingCountry    string                 `gorm:"type:varchar(100)"`
	GlobalDiscountPct decimal.Decimal        `gorm:"type:decimal(5,2);not null;default:0"`
	TotalNet          decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTax          decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	TotalGross        decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	AmountPaid        decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	Payments          billing.PaymentRecords `gorm:"type:jsonb;not null;default:'[]'"`
	Lines             []InvoiceLineModel     `gorm:"foreignKey:InvoiceID;references:ID"`
	PaidAt            *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel is the persistence model for an invoice line.
type InvoiceLineModel struct {
	BaseModel
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNumber  int             `gorm:"not null"`
	ArticleID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxPct      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	NetAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Size        string          `gorm:"type:varchar(20)"`
	Color       string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	invoice := &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Numero:            m.Numero,
		ClientID:          m.ClientID,
		OrderID:           m.OrderID,
		RepID:             m.RepID,
		Status:            m.Status,
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		PaymentTerms:      m.PaymentTerms,
		ClientReference:   m.ClientReference,
		Notes:             m.Notes,
		BillingAddress: valueobject.Address{
			Street:     m.BillingStreet,
			PostalCode: m.BillingPostalCode,
			City:       m.BillingCity,
			Country:    m.BillingCountry,
		},
		GlobalDiscountPct: m.GlobalDiscountPct,
		TotalNet:          m.TotalNet,
		TotalTax:          m.TotalTax,
		TotalGross:        m.TotalGross,
		AmountPaid:        m.AmountPaid,
		Payments:          m.Payments,
		PaidAt:            m.PaidAt,
		CancelledAt:       m.CancelledAt,
	}
	if invoice.Payments == nil {
		invoice.Payments = make(billing.PaymentRecords, 0)
	}

	invoice.Lines = make([]billing.InvoiceLine, len(m.Lines))
	for i, line := range m.Lines {
		invoice.Lines[i] = billing.InvoiceLine{
			ID:          line.ID,
			InvoiceID:   line.InvoiceID,
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
			CreatedAt:   line.CreatedAt,
			UpdatedAt:   line.UpdatedAt,
		}
	}

	return invoice
}

// FromDomain populates the persistence model from a domain Invoice aggregate.
func (m *InvoiceModel) FromDomain(invoice *billing.Invoice) {
	m.FromDomainAggregateRoot(invoice.BaseAggregateRoot)
	m.Numero = invoice.Numero
	m.ClientID = invoice.ClientID
	m.OrderID = invoice.OrderID
	m.RepID = invoice.RepID
	m.Status = invoice.Status
	m.IssueDate = invoice.IssueDate
	m.DueDate = invoice.DueDate
	m.PaymentTerms = invoice.PaymentTerms
	m.ClientReference = invoice.ClientReference
	m.Notes = invoice.Notes
	m.BillingStreet = invoice.BillingAddress.Street
	m.BillingPostalCode = invoice.BillingAddress.PostalCode
	m.BillingCity = invoice.BillingAddress.City
	m.BillingCountry = invoice.BillingAddress.Country
	m.GlobalDiscountPct = invoice.GlobalDiscountPct
	m.TotalNet = invoice.TotalNet
	m.TotalTax = invoice.TotalTax
	m.TotalGross = invoice.TotalGross
	m.AmountPaid = invoice.AmountPaid
	m.Payments = invoice.Payments
	m.PaidAt = invoice.PaidAt
	m.CancelledAt = invoice.CancelledAt

	m.Lines = make([]InvoiceLineModel, len(invoice.Lines))
	for i, line := range invoice.Lines {
		m.Lines[i] = InvoiceLineModel{
			BaseModel: BaseModel{
				ID:        line.ID,
				CreatedAt: line.CreatedAt,
				UpdatedAt: line.UpdatedAt,
			},
			InvoiceID:   invoice.ID,
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
}
