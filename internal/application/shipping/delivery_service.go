package shipping

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/domain/shipping"
)

// DeliveryService handles delivery note business operations, including
// derivation from sales orders
type DeliveryService struct {
	deliveryRepo   shipping.DeliveryNoteRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(deliveryRepo shipping.DeliveryNoteRepository, txScope TransactionScope) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		txScope:      txScope,
		validate:     validator.New(),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *DeliveryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateFromOrder derives a delivery note from a sales order.
//
// Every line's remaining undelivered quantity is drained onto the note and
// the order is marked shipped; both writes happen in one transaction. An
// order whose lines are already fully delivered yields a note without
// lines, which the caller can inspect through IsEmpty before preparing it.
func (s *DeliveryService) CreateFromOrder(ctx context.Context, req CreateFromOrderRequest) (*DeliveryNoteResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	var note *shipping.DeliveryNote
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}

		allocations, err := order.DrainUndelivered()
		if err != nil {
			return err
		}
		if err := order.MarkShipped(); err != nil {
			return err
		}

		numero, err := repos.Allocator().Next(ctx, numbering.DocTypeDeliveryNote)
		if err != nil {
			return err
		}

		note, err = shipping.NewDeliveryNote(numero, order.ID, order.ClientID, order.ShippingAddress)
		if err != nil {
			return err
		}
		if order.RepID != nil {
			if err := note.SetRep(*order.RepID); err != nil {
				return err
			}
		}
		// Carrier reference is accepted as-is; existence is not checked.
		if req.Carrier != "" {
			if err := note.SetCarrier(req.Carrier, ""); err != nil {
				return err
			}
		}
		if req.Notes != "" {
			note.SetNotes(req.Notes)
		}

		// Note lines are numbered compactly; fully delivered source lines
		// leave no gap in the numbering.
		for _, alloc := range allocations {
			lineID := alloc.LineID
			line, err := note.AddLine(&lineID, alloc.ArticleID, alloc.Description, alloc.Quantity)
			if err != nil {
				return err
			}
			if alloc.Size != "" || alloc.Color != "" {
				line.SetVariant(alloc.Size, alloc.Color)
			}
		}

		if err := repos.DeliveryRepo().Save(ctx, note); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, note)

	response := ToDeliveryNoteResponse(note)
	return &response, nil
}

// GetByID retrieves a delivery note by ID
func (s *DeliveryService) GetByID(ctx context.Context, noteID uuid.UUID) (*DeliveryNoteResponse, error) {
	note, err := s.deliveryRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	response := ToDeliveryNoteResponse(note)
	return &response, nil
}

// GetByNumero retrieves a delivery note by its numero
func (s *DeliveryService) GetByNumero(ctx context.Context, numero string) (*DeliveryNoteResponse, error) {
	note, err := s.deliveryRepo.FindByNumero(ctx, numero)
	if err != nil {
		return nil, err
	}
	response := ToDeliveryNoteResponse(note)
	return &response, nil
}

// ListByOrder retrieves the delivery notes derived from an order
func (s *DeliveryService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]DeliveryNoteResponse, error) {
	notes, err := s.deliveryRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToDeliveryNoteResponses(notes), nil
}

// List retrieves delivery notes with filtering and pagination
func (s *DeliveryService) List(ctx context.Context, filter DeliveryListFilter) (*shared.Paginated[DeliveryNoteResponse], error) {
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

	notes, err := s.deliveryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.deliveryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToDeliveryNoteResponses(notes), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// SetCarrier sets the carrier and tracking number on a delivery note
func (s *DeliveryService) SetCarrier(ctx context.Context, noteID uuid.UUID, req SetCarrierRequest) (*DeliveryNoteResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	note, err := s.deliveryRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if err := note.SetCarrier(req.Carrier, req.TrackingNumber); err != nil {
		return nil, err
	}

	if err := s.deliveryRepo.SaveWithLock(ctx, note); err != nil {
		return nil, err
	}

	response := ToDeliveryNoteResponse(note)
	return &response, nil
}

// SetParcelInfo records the parcel count and total weight
func (s *DeliveryService) SetParcelInfo(ctx context.Context, noteID uuid.UUID, req SetParcelInfoRequest) (*DeliveryNoteResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	note, err := s.deliveryRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if err := note.SetParcelInfo(req.ParcelCount, req.TotalWeightKg); err != nil {
		return nil, err
	}

	if err := s.deliveryRepo.SaveWithLock(ctx, note); err != nil {
		return nil, err
	}

	response := ToDeliveryNoteResponse(note)
	return &response, nil
}

// MarkPrepared marks a delivery note as prepared
func (s *DeliveryService) MarkPrepared(ctx context.Context, noteID uuid.UUID) (*DeliveryNoteResponse, error) {
	return s.transition(ctx, noteID, (*shipping.DeliveryNote).MarkPrepared)
}

// Ship records warehouse departure of the parcels
func (s *DeliveryService) Ship(ctx context.Context, noteID uuid.UUID) (*DeliveryNoteResponse, error) {
	return s.transition(ctx, noteID, (*shipping.DeliveryNote).Ship)
}

// Deliver records client reception of the parcels
func (s *DeliveryService) Deliver(ctx context.Context, noteID uuid.UUID) (*DeliveryNoteResponse, error) {
	return s.transition(ctx, noteID, (*shipping.DeliveryNote).Deliver)
}

// MarkReturned records that the shipment came back
func (s *DeliveryService) MarkReturned(ctx context.Context, noteID uuid.UUID) (*DeliveryNoteResponse, error) {
	return s.transition(ctx, noteID, (*shipping.DeliveryNote).MarkReturned)
}

// Cancel cancels a delivery note
func (s *DeliveryService) Cancel(ctx context.Context, noteID uuid.UUID) (*DeliveryNoteResponse, error) {
	return s.transition(ctx, noteID, (*shipping.DeliveryNote).Cancel)
}

// transition loads the note, applies a domain transition and saves it with
// an optimistic lock
func (s *DeliveryService) transition(ctx context.Context, noteID uuid.UUID, fn func(*shipping.DeliveryNote) error) (*DeliveryNoteResponse, error) {
	note, err := s.deliveryRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if err := fn(note); err != nil {
		return nil, err
	}

	if err := s.deliveryRepo.SaveWithLock(ctx, note); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, note)

	response := ToDeliveryNoteResponse(note)
	return &response, nil
}

// publishEvents drains the aggregate's domain events to the publisher, if any
func (s *DeliveryService) publishEvents(ctx context.Context, note *shipping.DeliveryNote) {
	if note == nil {
		return
	}
	if s.eventPublisher == nil {
		note.ClearDomainEvents()
		return
	}
	for _, event := range note.GetDomainEvents() {
		// Event delivery is best effort; the state change is already saved.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	note.ClearDomainEvents()
}
