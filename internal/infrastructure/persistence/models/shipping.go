package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/shared/valueobject"
	"github.com/gescom/backend/internal/domain/shipping"
)

// DeliveryNoteModel is the persistence model for the DeliveryNote aggregate root.
type DeliveryNoteModel struct {
	AggregateModel
	Numero             string                  `gorm:"type:varchar(20);not null;uniqueIndex"`
	OrderID            uuid.UUID               `gorm:"type:uuid;not null;index"`
	ClientID           uuid.UUID               `gorm:"type:uuid;not null;index"`
	RepID              *uuid.UUID              `gorm:"type:uuid;index"`
	Status             shipping.DeliveryStatus `gorm:"type:varchar(20);not null;default:'in_preparation';index"`
	ShippingStreet     string                  `gorm:"type:varchar(200)"`
	ShippingPostalCode string                  `gorm:"type:varchar(20)"`
	ShippingCity       string                  `gorm:"type:varchar(100)"`
	ShippingCountry    string                  `gorm:"type:varchar(100)"`
	Carrier            string                  `gorm:"type:varchar(100)"`
	TrackingNumber     string                  `gorm:"type:varchar(100)"`
	TotalWeightKg      decimal.Decimal         `gorm:"type:decimal(10,3);not null;default:0"`
	ParcelCount        int                     `gorm:"not null;default:0"`
	Notes              string                  `gorm:"type:text"`
	Lines              []DeliveryLineModel     `gorm:"foreignKey:DeliveryID;references:ID"`
	PreparedAt         *time.Time
	ShippedAt          *time.Time `gorm:"index"`
	DeliveredAt        *time.Time
	ReturnedAt         *time.Time
	CancelledAt        *time.Time
}

// TableName returns the table name for GORM
func (DeliveryNoteModel) TableName() string {
	return "delivery_notes"
}

// DeliveryLineModel is the persistence model for a delivery line.
type DeliveryLineModel struct {
	BaseModel
	DeliveryID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	LineNumber  int        `gorm:"not null"`
	OrderLineID *uuid.UUID `gorm:"type:uuid;index"`
	ArticleID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Description string     `gorm:"type:varchar(200);not null"`
	Quantity    int        `gorm:"not null"`
	Size        string     `gorm:"type:varchar(20)"`
	Color       string     `gorm:"type:varchar(50)"`
	Location    string     `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (DeliveryLineModel) TableName() string {
	return "delivery_lines"
}

// ToDomain converts the persistence model to a domain DeliveryNote aggregate.
func (m *DeliveryNoteModel) ToDomain() *shipping.DeliveryNote {
	note := &shipping.DeliveryNote{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Numero:            m.Numero,
		OrderID:           m.OrderID,
		ClientID:          m.ClientID,
		RepID:             m.RepID,
		Status:            m.Status,
		ShippingAddress: valueobject.Address{
			Street:     m.ShippingStreet,
			PostalCode: m.ShippingPostalCode,
			City:       m.ShippingCity,
			Country:    m.ShippingCountry,
		},
		Carrier:        m.Carrier,
		TrackingNumber: m.TrackingNumber,
		TotalWeightKg:  m.TotalWeightKg,
		ParcelCount:    m.ParcelCount,
		Notes:          m.Notes,
		PreparedAt:     m.PreparedAt,
		ShippedAt:      m.ShippedAt,
		DeliveredAt:    m.DeliveredAt,
		ReturnedAt:     m.ReturnedAt,
		CancelledAt:    m.CancelledAt,
	}

	note.Lines = make([]shipping.DeliveryLine, len(m.Lines))
	for i, line := range m.Lines {
		note.Lines[i] = shipping.DeliveryLine{
			ID:          line.ID,
			DeliveryID:  line.DeliveryID,
			LineNumber:  line.LineNumber,
			OrderLineID: line.OrderLineID,
			ArticleID:   line.ArticleID,
			Description: line.Description,
			Quantity:    line.Quantity,
			Size:        line.Size,
			Color:       line.Color,
			Location:    line.Location,
			CreatedAt:   line.CreatedAt,
			UpdatedAt:   line.UpdatedAt,
		}
	}

	return note
}

// FromDomain populates the persistence model from a domain DeliveryNote aggregate.
func (m *DeliveryNoteModel) FromDomain(note *shipping.DeliveryNote) {
	m.FromDomainAggregateRoot(note.BaseAggregateRoot)
	m.Numero = note.Numero
	m.OrderID = note.OrderID
	m.ClientID = note.ClientID
	m.RepID = note.RepID
	m.Status = note.Status
	m.ShippingStreet = note.ShippingAddress.Street
	m.ShippingPostalCode = note.ShippingAddress.PostalCode
	m.ShippingCity = note.ShippingAddress.City
	m.ShippingCountry = note.ShippingAddress.Country
	m.Carrier = note.Carrier
	m.TrackingNumber = note.TrackingNumber
	m.TotalWeightKg = note.TotalWeightKg
	m.ParcelCount = note.ParcelCount
	m.Notes = note.Notes
	m.PreparedAt = note.PreparedAt
	m.ShippedAt = note.ShippedAt
	m.DeliveredAt = note.DeliveredAt
	m.ReturnedAt = note.ReturnedAt
	m.CancelledAt = note.CancelledAt

	m.Lines = make([]DeliveryLineModel, len(note.Lines))
	for i, line := range note.Lines {
		m.Lines[i] = DeliveryLineModel{
			BaseModel: BaseModel{
				ID:        line.ID,
				CreatedAt: line.CreatedAt,
				UpdatedAt: line.UpdatedAt,
			},
			DeliveryID:  note.ID,
			LineNumber:  line.LineNumber,
			OrderLineID: line.OrderLineID,
			ArticleID:   line.ArticleID,
			Description: line.Description,
			Quantity:    line.Quantity,
			Size:        line.Size,
			Color:       line.Color,
			Location:    line.Location,
		}
	}
}
