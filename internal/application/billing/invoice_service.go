package billing

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gescom/backend/internal/domain/billing"
	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/sales"
	"github.com/gescom/backend/internal/domain/shared"
)

// InvoiceService handles invoice business operations, including derivation
// from sales orders and the payment ledger
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, txScope TransactionScope) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		txScope:     txScope,
		validate:    validator.New(),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a standalone draft invoice with an allocated numero
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	var invoice *billing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		numero, err := repos.Allocator().Next(ctx, numbering.DocTypeInvoice)
		if err != nil {
			return err
		}

		invoice, err = billing.NewInvoice(numero, req.ClientID)
		if err != nil {
			return err
		}

		if req.RepID != nil {
			if err := invoice.SetRep(*req.RepID); err != nil {
				return err
			}
		}
		if req.DueDate != nil {
			invoice.SetDueDate(*req.DueDate)
		}
		if req.PaymentTerms != "" {
			invoice.SetPaymentTerms(req.PaymentTerms)
		}
		if req.ClientReference != "" {
			invoice.SetClientReference(req.ClientReference)
		}
		if req.Notes != "" {
			invoice.SetNotes(req.Notes)
		}
		if req.BillingAddress != nil {
			if err := invoice.SetBillingAddress(req.BillingAddress.ToAddress()); err != nil {
				return err
			}
		}

		for _, input := range req.Lines {
			line, err := invoice.AddLine(input.ArticleID, input.Description, input.Quantity, input.UnitPrice, input.DiscountPct, input.TaxPct)
			if err != nil {
				return err
			}
			if input.Size != "" || input.Color != "" {
				line.SetVariant(input.Size, input.Color)
			}
		}

		if req.GlobalDiscountPct != nil {
			if err := invoice.SetGlobalDiscount(*req.GlobalDiscountPct); err != nil {
				return err
			}
		}

		return repos.InvoiceRepo().Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Update updates an invoice (only allowed in draft status)
func (s *InvoiceService) Update(ctx context.Context, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.IsDraft() {
		return nil, shared.NewDomainError("INVALID_STATE", "Invoice can only be modified in draft status")
	}

	if req.RepID != nil {
		if err := invoice.SetRep(*req.RepID); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		invoice.SetDueDate(*req.DueDate)
	}
	if req.PaymentTerms != nil {
		invoice.SetPaymentTerms(*req.PaymentTerms)
	}
	if req.ClientReference != nil {
		invoice.SetClientReference(*req.ClientReference)
	}
	if req.Notes != nil {
		invoice.SetNotes(*req.Notes)
	}
	if req.BillingAddress != nil {
		if err := invoice.SetBillingAddress(req.BillingAddress.ToAddress()); err != nil {
			return nil, err
		}
	}
	if req.GlobalDiscountPct != nil {
		if err := invoice.SetGlobalDiscount(*req.GlobalDiscountPct); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// CreateFromOrder derives an issued invoice from a sales order.
//
// The order's lines and totals are copied verbatim and the order is marked
// invoiced; both writes happen in one transaction, so an order that cannot
// be invoiced (already invoiced, cancelled) leaves no invoice behind.
func (s *InvoiceService) CreateFromOrder(ctx context.Context, req CreateFromOrderRequest) (*InvoiceResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	var invoice *billing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}

		if err := order.MarkInvoiced(); err != nil {
			return err
		}

		numero, err := repos.Allocator().Next(ctx, numbering.DocTypeInvoice)
		if err != nil {
			return err
		}

		invoice, err = billing.NewInvoiceFromOrder(numero, derivationSource(order))
		if err != nil {
			return err
		}

		if req.DueDate != nil {
			invoice.SetDueDate(*req.DueDate)
		}
		if req.PaymentTerms != "" {
			invoice.SetPaymentTerms(req.PaymentTerms)
		}

		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// derivationSource maps a sales order into the billing context's input shape
func derivationSource(order *sales.Order) billing.DerivationSource {
	lines := make([]billing.DerivedLine, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = billing.DerivedLine{
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
	return billing.DerivationSource{
		OrderID:           order.ID,
		ClientID:          order.ClientID,
		RepID:             order.RepID,
		BillingAddress:    order.ShippingAddress,
		GlobalDiscountPct: order.GlobalDiscountPct,
		TotalNet:          order.TotalNet,
		TotalTax:          order.TotalTax,
		TotalGross:        order.TotalGross,
		Lines:             lines,
	}
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumero retrieves an invoice by its numero
func (s *InvoiceService) GetByNumero(ctx context.Context, numero string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumero(ctx, numero)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ListByOrder retrieves the invoices derived from an order
func (s *InvoiceService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invoices), nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) (*shared.Paginated[InvoiceResponse], error) {
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

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToInvoiceResponses(invoices), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Issue transitions a draft invoice to issued
func (s *InvoiceService) Issue(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, (*billing.Invoice).Issue)
}

// MarkSent records dispatch of the invoice to the client
func (s *InvoiceService) MarkSent(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, (*billing.Invoice).MarkSent)
}

// MarkOverdue records that the invoice passed its due date unpaid
func (s *InvoiceService) MarkOverdue(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, (*billing.Invoice).MarkOverdue)
}

// Cancel cancels an invoice
func (s *InvoiceService) Cancel(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, (*billing.Invoice).Cancel)
}

// RecordPayment applies a payment to the invoice ledger
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.RecordPayment(req.Amount, req.Reference); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// transition loads the invoice, applies a domain transition and saves it
// with an optimistic lock
func (s *InvoiceService) transition(ctx context.Context, invoiceID uuid.UUID, fn func(*billing.Invoice) error) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := fn(invoice); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// publishEvents drains the aggregate's domain events to the publisher, if any
func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if invoice == nil {
		return
	}
	if s.eventPublisher == nil {
		invoice.ClearDomainEvents()
		return
	}
	for _, event := range invoice.GetDomainEvents() {
		// Event delivery is best effort; the state change is already saved.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	invoice.ClearDomainEvents()
}
