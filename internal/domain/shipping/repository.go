package shipping

import (
	"context"

	"github.com/google/uuid"

	"github.com/gescom/backend/internal/domain/shared"
)

// DeliveryNoteRepository is the persistence port for delivery notes
type DeliveryNoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryNote, error)
	FindByNumero(ctx context.Context, numero string) (*DeliveryNote, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*DeliveryNote, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*DeliveryNote, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status DeliveryStatus) (int64, error)
	Save(ctx context.Context, note *DeliveryNote) error
	// SaveWithLock persists the note with an optimistic version check and
	// returns shared.ErrConcurrencyConflict when the stored version moved.
	SaveWithLock(ctx context.Context, note *DeliveryNote) error
}
