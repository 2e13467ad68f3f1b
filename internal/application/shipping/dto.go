package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/shared/valueobject"
	"github.com/gescom/backend/internal/domain/shipping"
)

// CreateFromOrderRequest represents a request to derive a delivery note
// from an order
type CreateFromOrderRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Carrier string    `json:"carrier" validate:"max=100"`
	Notes   string    `json:"notes" validate:"max=1000"`
}

// SetCarrierRequest represents a request to set the carrier information
type SetCarrierRequest struct {
	Carrier        string `json:"carrier" validate:"required,min=1,max=100"`
	TrackingNumber string `json:"tracking_number" validate:"max=100"`
}

// SetParcelInfoRequest represents a request to record parcel count and weight
type SetParcelInfoRequest struct {
	ParcelCount   int             `json:"parcel_count" validate:"min=0"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg"`
}

// DeliveryListFilter represents filter options for the delivery note list
type DeliveryListFilter struct {
	Search   string                   `form:"search"`
	ClientID *uuid.UUID               `form:"client_id"`
	Status   *shipping.DeliveryStatus `form:"status"`
	Page     int                      `form:"page" validate:"min=0"`
	PageSize int                      `form:"page_size" validate:"min=0,max=200"`
	OrderBy  string                   `form:"order_by"`
	OrderDir string                   `form:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// DeliveryLineResponse represents a delivery line in responses
type DeliveryLineResponse struct {
	ID          uuid.UUID  `json:"id"`
	LineNumber  int        `json:"line_number"`
	OrderLineID *uuid.UUID `json:"order_line_id,omitempty"`
	ArticleID   uuid.UUID  `json:"article_id"`
	Description string     `json:"description"`
	Quantity    int        `json:"quantity"`
	Size        string     `json:"size,omitempty"`
	Color       string     `json:"color,omitempty"`
	Location    string     `json:"location,omitempty"`
}

// DeliveryNoteResponse represents a delivery note in responses
type DeliveryNoteResponse struct {
	ID              uuid.UUID              `json:"id"`
	Numero          string                 `json:"numero"`
	OrderID         uuid.UUID              `json:"order_id"`
	ClientID        uuid.UUID              `json:"client_id"`
	RepID           *uuid.UUID             `json:"rep_id,omitempty"`
	Status          string                 `json:"status"`
	ShippingAddress valueobject.Address    `json:"shipping_address"`
	Carrier         string                 `json:"carrier,omitempty"`
	TrackingNumber  string                 `json:"tracking_number,omitempty"`
	TotalWeightKg   decimal.Decimal        `json:"total_weight_kg"`
	ParcelCount     int                    `json:"parcel_count"`
	Notes           string                 `json:"notes,omitempty"`
	Lines           []DeliveryLineResponse `json:"lines"`
	TotalQuantity   int                    `json:"total_quantity"`
	PreparedAt      *time.Time             `json:"prepared_at,omitempty"`
	ShippedAt       *time.Time             `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time             `json:"delivered_at,omitempty"`
	ReturnedAt      *time.Time             `json:"returned_at,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ToDeliveryNoteResponse converts a domain delivery note to its response shape
func ToDeliveryNoteResponse(note *shipping.DeliveryNote) DeliveryNoteResponse {
	lines := make([]DeliveryLineResponse, len(note.Lines))
	for i, line := range note.Lines {
		lines[i] = DeliveryLineResponse{
			ID:          line.ID,
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

	return DeliveryNoteResponse{
		ID:              note.ID,
		Numero:          note.Numero,
		OrderID:         note.OrderID,
		ClientID:        note.ClientID,
		RepID:           note.RepID,
		Status:          note.Status.String(),
		ShippingAddress: note.ShippingAddress,
		Carrier:         note.Carrier,
		TrackingNumber:  note.TrackingNumber,
		TotalWeightKg:   note.TotalWeightKg,
		ParcelCount:     note.ParcelCount,
		Notes:           note.Notes,
		Lines:           lines,
		TotalQuantity:   note.TotalQuantity(),
		PreparedAt:      note.PreparedAt,
		ShippedAt:       note.ShippedAt,
		DeliveredAt:     note.DeliveredAt,
		ReturnedAt:      note.ReturnedAt,
		CancelledAt:     note.CancelledAt,
		CreatedAt:       note.CreatedAt,
		UpdatedAt:       note.UpdatedAt,
	}
}

// ToDeliveryNoteResponses converts a slice of domain delivery notes to
// response shapes
func ToDeliveryNoteResponses(notes []*shipping.DeliveryNote) []DeliveryNoteResponse {
	responses := make([]DeliveryNoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToDeliveryNoteResponse(note)
	}
	return responses
}
