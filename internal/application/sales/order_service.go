package sales

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/sales"
	"github.com/gescom/backend/internal/domain/shared"
)

// OrderService handles sales order business operations
type OrderService struct {
	orderRepo      sales.OrderRepository
	allocator      numbering.Allocator
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo sales.OrderRepository, allocator numbering.Allocator) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		allocator: allocator,
		validate:  validator.New(),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new sales order with an allocated numero
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	numero, err := s.allocator.Next(ctx, numbering.DocTypeOrder)
	if err != nil {
		return nil, err
	}

	order, err := sales.NewOrder(numero, req.ClientID)
	if err != nil {
		return nil, err
	}

	if req.RepID != nil {
		if err := order.SetRep(*req.RepID); err != nil {
			return nil, err
		}
	}
	if req.DesiredDeliveryDate != nil {
		order.SetDesiredDeliveryDate(*req.DesiredDeliveryDate)
	}
	if req.ClientReference != "" {
		order.SetClientReference(req.ClientReference)
	}
	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}
	if req.ShippingAddress != nil {
		if err := order.SetShippingAddress(req.ShippingAddress.ToAddress()); err != nil {
			return nil, err
		}
	}

	for _, input := range req.Lines {
		line, err := order.AddLine(input.ArticleID, input.Description, input.Quantity, input.UnitPrice, input.DiscountPct, input.TaxPct)
		if err != nil {
			return nil, err
		}
		if input.Size != "" || input.Color != "" {
			line.SetVariant(input.Size, input.Color)
		}
	}

	if req.GlobalDiscountPct != nil {
		if err := order.SetGlobalDiscount(*req.GlobalDiscountPct); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a sales order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByNumero retrieves a sales order by its numero
func (s *OrderService) GetByNumero(ctx context.Context, numero string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByNumero(ctx, numero)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves sales orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	if err := s.validate.Struct(filter); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Update updates a sales order (only allowed in draft status)
func (s *OrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Order can only be modified in draft status")
	}

	if req.RepID != nil {
		if err := order.SetRep(*req.RepID); err != nil {
			return nil, err
		}
	}
	if req.DesiredDeliveryDate != nil {
		order.SetDesiredDeliveryDate(*req.DesiredDeliveryDate)
	}
	if req.ClientReference != nil {
		order.SetClientReference(*req.ClientReference)
	}
	if req.Notes != nil {
		order.SetNotes(*req.Notes)
	}
	if req.ShippingAddress != nil {
		if err := order.SetShippingAddress(req.ShippingAddress.ToAddress()); err != nil {
			return nil, err
		}
	}
	if req.GlobalDiscountPct != nil {
		if err := order.SetGlobalDiscount(*req.GlobalDiscountPct); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// AddLine adds a line to a draft order
func (s *OrderService) AddLine(ctx context.Context, orderID uuid.UUID, req AddOrderLineRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	line, err := order.AddLine(req.ArticleID, req.Description, req.Quantity, req.UnitPrice, req.DiscountPct, req.TaxPct)
	if err != nil {
		return nil, err
	}
	if req.Size != "" || req.Color != "" {
		line.SetVariant(req.Size, req.Color)
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateLineQuantity changes the ordered quantity of a line on a draft order
func (s *OrderService) UpdateLineQuantity(ctx context.Context, orderID, lineID uuid.UUID, quantity int) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateLineQuantity(lineID, quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// RemoveLine removes a line from a draft order
func (s *OrderService) RemoveLine(ctx context.Context, orderID, lineID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Validate confirms a draft order
func (s *OrderService) Validate(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, (*sales.Order).Validate)
}

// StartPreparation moves a validated order into warehouse preparation
func (s *OrderService) StartPreparation(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, (*sales.Order).StartPreparation)
}

// MarkPrepared marks an order as prepared
func (s *OrderService) MarkPrepared(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, (*sales.Order).MarkPrepared)
}

// MarkShipped marks an order as shipped without deriving a delivery note
func (s *OrderService) MarkShipped(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, (*sales.Order).MarkShipped)
}

// MarkDelivered records client reception of the order
func (s *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, (*sales.Order).MarkDelivered)
}

// Cancel cancels an order
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, (*sales.Order).Cancel)
}

// transition loads the order, applies a domain transition and saves it with
// an optimistic lock
func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, fn func(*sales.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := fn(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// publishEvents drains the aggregate's domain events to the publisher, if any
func (s *OrderService) publishEvents(ctx context.Context, order *sales.Order) {
	if s.eventPublisher == nil {
		order.ClearDomainEvents()
		return
	}
	for _, event := range order.GetDomainEvents() {
		// Event delivery is best effort; the state change is already saved.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
