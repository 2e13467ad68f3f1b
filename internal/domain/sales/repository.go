package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/gescom/backend/internal/domain/shared"
)

// OrderRepository is the persistence port for the Order aggregate.
// Documents are never physically deleted by the engine, so the port has no
// delete operation.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumero(ctx context.Context, numero string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)
	Save(ctx context.Context, order *Order) error
	// SaveWithLock persists the order only if its version still matches the
	// stored one, returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, order *Order) error
}
