package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/sales"
	"github.com/gescom/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the sales Order aggregate root.
type OrderModel struct {
	AggregateModel
	Numero              string             `gorm:"type:varchar(20);not null;uniqueIndex"`
	ClientID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	RepID               *uuid.UUID         `gorm:"type:uuid;index"`
	Status              sales.OrderStatus  `gorm:"type:varchar(20);not null;default:'draft';index"`
	OrderDate           time.Time          `gorm:"not null"`
	DesiredDeliveryDate *time.Time
	ClientReference     string             `gorm:"type:varchar(100)"`
	Notes               string             `gorm:"type:text"`
	ShippingStreet      string             `gorm:"type:varchar(200)"`
	ShippingPostalCode  string             `gorm:"type:varchar(20)"`
	ShippingCity        string             `gorm:"type:varchar(100)"`
	ShippingCountry     string             `gorm:"type:varchar(100)"`
	GlobalDiscountPct   decimal.Decimal    `gorm:"type:decimal(5,2);not null;default:0"`
	TotalNet            decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTax            decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TotalGross          decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Lines               []OrderLineModel   `gorm:"foreignKey:OrderID;references:ID"`
	ValidatedAt         *time.Time
	ShippedAt           *time.Time `gorm:"index"`
	InvoicedAt          *time.Time
	CancelledAt         *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel is the persistence model for an order line.
type OrderLineModel struct {
	BaseModel
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNumber        int             `gorm:"not null"`
	ArticleID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description       string          `gorm:"type:varchar(200);not null"`
	Quantity          int             `gorm:"not null"`
	DeliveredQuantity int             `gorm:"not null;default:0"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPct       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxPct            decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	NetAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Size              string          `gorm:"type:varchar(20)"`
	Color             string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *sales.Order {
	order := &sales.Order{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		Numero:              m.Numero,
		ClientID:            m.ClientID,
		RepID:               m.RepID,
		Status:              m.Status,
		OrderDate:           m.OrderDate,
		DesiredDeliveryDate: m.DesiredDeliveryDate,
		ClientReference:     m.ClientReference,
		Notes:               m.Notes,
		ShippingAddress: valueobject.Address{
			Street:     m.ShippingStreet,
			PostalCode: m.ShippingPostalCode,
			City:       m.ShippingCity,
			Country:    m.ShippingCountry,
		},
		GlobalDiscountPct: m.GlobalDiscountPct,
		TotalNet:          m.TotalNet,
		TotalTax:          m.TotalTax,
		TotalGross:        m.TotalGross,
		ValidatedAt:       m.ValidatedAt,
		ShippedAt:         m.ShippedAt,
		InvoicedAt:        m.InvoicedAt,
		CancelledAt:       m.CancelledAt,
	}

	order.Lines = make([]sales.OrderLine, len(m.Lines))
	for i, line := range m.Lines {
		order.Lines[i] = sales.OrderLine{
			ID:                line.ID,
			OrderID:           line.OrderID,
			LineNumber:        line.LineNumber,
			ArticleID:         line.ArticleID,
			Description:       line.Description,
			Quantity:          line.Quantity,
			DeliveredQuantity: line.DeliveredQuantity,
			UnitPrice:         line.UnitPrice,
			DiscountPct:       line.DiscountPct,
			TaxPct:            line.TaxPct,
			NetAmount:         line.NetAmount,
			Size:              line.Size,
			Color:             line.Color,
			CreatedAt:         line.CreatedAt,
			UpdatedAt:         line.UpdatedAt,
		}
	}

	return order
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(order *sales.Order) {
	m.FromDomainAggregateRoot(order.BaseAggregateRoot)
	m.Numero = order.Numero
	m.ClientID = order.ClientID
	m.RepID = order.RepID
	m.Status = order.Status
	m.OrderDate = order.OrderDate
	m.DesiredDeliveryDate = order.DesiredDeliveryDate
	m.ClientReference = order.ClientReference
	m.Notes = order.Notes
	m.ShippingStreet = order.ShippingAddress.Street
	m.ShippingPostalCode = order.ShippingAddress.PostalCode
	m.ShippingCity = order.ShippingAddress.City
	m.ShippingCountry = order.ShippingAddress.Country
	m.GlobalDiscountPct = order.GlobalDiscountPct
	m.TotalNet = order.TotalNet
	m.TotalTax = order.TotalTax
	m.TotalGross = order.TotalGross
	m.ValidatedAt = order.ValidatedAt
	m.ShippedAt = order.ShippedAt
	m.InvoicedAt = order.InvoicedAt
	m.CancelledAt = order.CancelledAt

	m.Lines = make([]OrderLineModel, len(order.Lines))
	for i, line := range order.Lines {
		m.Lines[i] = OrderLineModel{
			BaseModel: BaseModel{
				ID:        line.ID,
				CreatedAt: line.CreatedAt,
				UpdatedAt: line.UpdatedAt,
			},
			OrderID:           order.ID,
			LineNumber:        line.LineNumber,
			ArticleID:         line.ArticleID,
			Description:       line.Description,
			Quantity:          line.Quantity,
			DeliveredQuantity: line.DeliveredQuantity,
			UnitPrice:         line.UnitPrice,
			DiscountPct:       line.DiscountPct,
			TaxPct:            line.TaxPct,
			NetAmount:         line.NetAmount,
			Size:              line.Size,
			Color:             line.Color,
		}
	}
}
