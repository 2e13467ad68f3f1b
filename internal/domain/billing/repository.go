package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/gescom/backend/internal/domain/shared"
)

// InvoiceRepository is the persistence port for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumero(ctx context.Context, numero string) (*Invoice, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status InvoiceStatus) (int64, error)
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock persists the invoice with an optimistic version check and
	// returns shared.ErrConcurrencyConflict when the stored version moved.
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}
