package persistence

import (
	"context"

	"gorm.io/gorm"

	appshipping "github.com/gescom/backend/internal/application/shipping"
	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/sales"
	"github.com/gescom/backend/internal/domain/shipping"
)

// GormShippingTransactionScope implements the shipping TransactionScope
// using GORM transactions. Deriving a delivery note writes the note, the
// drained order and the numero counter in one transaction.
type GormShippingTransactionScope struct {
	db *gorm.DB
}

// NewGormShippingTransactionScope creates a new GormShippingTransactionScope.
func NewGormShippingTransactionScope(db *gorm.DB) *GormShippingTransactionScope {
	return &GormShippingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormShippingTransactionScope) Execute(ctx context.Context, fn func(repos appshipping.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormShippingTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormShippingTransactionalRepositories provides access to the shipping-side
// repositories within a transaction.
type gormShippingTransactionalRepositories struct {
	tx *gorm.DB
}

// DeliveryRepo returns the delivery note repository scoped to the current transaction.
func (r *gormShippingTransactionalRepositories) DeliveryRepo() shipping.DeliveryNoteRepository {
	return NewGormDeliveryNoteRepository(r.tx)
}

// OrderRepo returns the sales order repository scoped to the current transaction.
func (r *gormShippingTransactionalRepositories) OrderRepo() sales.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Allocator returns the numero allocator scoped to the current transaction.
func (r *gormShippingTransactionalRepositories) Allocator() numbering.Allocator {
	return NewGormSequenceAllocator(r.tx)
}

// Ensure GormShippingTransactionScope implements TransactionScope
var _ appshipping.TransactionScope = (*GormShippingTransactionScope)(nil)

// Ensure gormShippingTransactionalRepositories implements TransactionalRepositories
var _ appshipping.TransactionalRepositories = (*gormShippingTransactionalRepositories)(nil)
