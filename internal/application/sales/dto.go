package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gescom/backend/internal/domain/sales"
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

// CreateOrderLineInput represents a line in the create order request
type CreateOrderLineInput struct {
	ArticleID   uuid.UUID       `json:"article_id" validate:"required"`
	Description string          `json:"description" validate:"required,min=1,max=200"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	TaxPct      decimal.Decimal `json:"tax_pct"`
	Size        string          `json:"size" validate:"max=20"`
	Color       string          `json:"color" validate:"max=50"`
}

// CreateOrderRequest represents a request to create a sales order
type CreateOrderRequest struct {
	ClientID            uuid.UUID              `json:"client_id" validate:"required"`
	RepID               *uuid.UUID             `json:"rep_id"`
	DesiredDeliveryDate *time.Time             `json:"desired_delivery_date"`
	ClientReference     string                 `json:"client_reference" validate:"max=100"`
	Notes               string                 `json:"notes" validate:"max=1000"`
	ShippingAddress     *AddressInput          `json:"shipping_address"`
	GlobalDiscountPct   *decimal.Decimal       `json:"global_discount_pct"`
	Lines               []CreateOrderLineInput `json:"lines" validate:"dive"`
}

// UpdateOrderRequest represents a request to update a draft order
type UpdateOrderRequest struct {
	RepID               *uuid.UUID       `json:"rep_id"`
	DesiredDeliveryDate *time.Time       `json:"desired_delivery_date"`
	ClientReference     *string          `json:"client_reference" validate:"omitempty,max=100"`
	Notes               *string          `json:"notes" validate:"omitempty,max=1000"`
	ShippingAddress     *AddressInput    `json:"shipping_address"`
	GlobalDiscountPct   *decimal.Decimal `json:"global_discount_pct"`
}

// AddOrderLineRequest represents a request to add a line to a draft order
type AddOrderLineRequest struct {
	ArticleID   uuid.UUID       `json:"article_id" validate:"required"`
	Description string          `json:"description" validate:"required,min=1,max=200"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	TaxPct      decimal.Decimal `json:"tax_pct"`
	Size        string          `json:"size" validate:"max=20"`
	Color       string          `json:"color" validate:"max=50"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search   string             `form:"search"`
	ClientID *uuid.UUID         `form:"client_id"`
	Status   *sales.OrderStatus `form:"status"`
	Page     int                `form:"page" validate:"min=0"`
	PageSize int                `form:"page_size" validate:"min=0,max=200"`
	OrderBy  string             `form:"order_by"`
	OrderDir string             `form:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// OrderLineResponse represents an order line in responses
type OrderLineResponse struct {
	ID                uuid.UUID       `json:"id"`
	LineNumber        int             `json:"line_number"`
	ArticleID         uuid.UUID       `json:"article_id"`
	Description       string          `json:"description"`
	Quantity          int             `json:"quantity"`
	DeliveredQuantity int             `json:"delivered_quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DiscountPct       decimal.Decimal `json:"discount_pct"`
	TaxPct            decimal.Decimal `json:"tax_pct"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	Size              string          `json:"size,omitempty"`
	Color             string          `json:"color,omitempty"`
}

// OrderResponse represents a sales order in responses
type OrderResponse struct {
	ID                  uuid.UUID           `json:"id"`
	Numero              string              `json:"numero"`
	ClientID            uuid.UUID           `json:"client_id"`
	RepID               *uuid.UUID          `json:"rep_id,omitempty"`
	Status              string              `json:"status"`
	OrderDate           time.Time           `json:"order_date"`
	DesiredDeliveryDate *time.Time          `json:"desired_delivery_date,omitempty"`
	ClientReference     string              `json:"client_reference,omitempty"`
	Notes               string              `json:"notes,omitempty"`
	ShippingAddress     valueobject.Address `json:"shipping_address"`
	GlobalDiscountPct   decimal.Decimal     `json:"global_discount_pct"`
	TotalNet            decimal.Decimal     `json:"total_net"`
	TotalTax            decimal.Decimal     `json:"total_tax"`
	TotalGross          decimal.Decimal     `json:"total_gross"`
	Lines               []OrderLineResponse `json:"lines"`
	ValidatedAt         *time.Time          `json:"validated_at,omitempty"`
	ShippedAt           *time.Time          `json:"shipped_at,omitempty"`
	InvoicedAt          *time.Time          `json:"invoiced_at,omitempty"`
	CancelledAt         *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// ToOrderLineResponse converts a domain order line to its response shape
func ToOrderLineResponse(line sales.OrderLine) OrderLineResponse {
	return OrderLineResponse{
		ID:                line.ID,
		LineNumber:        line.LineNumber,
		ArticleID:         line.ArticleID,
		Description:       line.Description,
		Quantity:          line.Quantity,
		DeliveredQuantity: line.DeliveredQuantity,
		RemainingQuantity: line.RemainingQuantity(),
		UnitPrice:         line.UnitPrice,
		DiscountPct:       line.DiscountPct,
		TaxPct:            line.TaxPct,
		NetAmount:         line.NetAmount,
		Size:              line.Size,
		Color:             line.Color,
	}
}

// ToOrderResponse converts a domain order to its response shape
func ToOrderResponse(order *sales.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = ToOrderLineResponse(line)
	}
	return OrderResponse{
		ID:                  order.ID,
		Numero:              order.Numero,
		ClientID:            order.ClientID,
		RepID:               order.RepID,
		Status:              order.Status.String(),
		OrderDate:           order.OrderDate,
		DesiredDeliveryDate: order.DesiredDeliveryDate,
		ClientReference:     order.ClientReference,
		Notes:               order.Notes,
		ShippingAddress:     order.ShippingAddress,
		GlobalDiscountPct:   order.GlobalDiscountPct,
		TotalNet:            order.TotalNet,
		TotalTax:            order.TotalTax,
		TotalGross:          order.TotalGross,
		Lines:               lines,
		ValidatedAt:         order.ValidatedAt,
		ShippedAt:           order.ShippedAt,
		InvoicedAt:          order.InvoicedAt,
		CancelledAt:         order.CancelledAt,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders to response shapes
func ToOrderResponses(orders []*sales.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = ToOrderResponse(order)
	}
	return responses
}
