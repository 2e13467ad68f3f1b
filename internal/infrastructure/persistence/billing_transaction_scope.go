package persistence

import (
	"context"

	"gorm.io/gorm"

	appbilling "github.com/gescom/backend/internal/application/billing"
	"github.com/gescom/backend/internal/domain/billing"
	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/sales"
)

// GormBillingTransactionScope implements the billing TransactionScope using
// GORM transactions. Deriving an invoice writes the invoice, the order and
// the numero counter in one transaction.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope.
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormBillingTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormBillingTransactionalRepositories provides access to the billing-side
// repositories within a transaction.
type gormBillingTransactionalRepositories struct {
	tx *gorm.DB
}

// InvoiceRepo returns the invoice repository scoped to the current transaction.
func (r *gormBillingTransactionalRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// OrderRepo returns the sales order repository scoped to the current transaction.
func (r *gormBillingTransactionalRepositories) OrderRepo() sales.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Allocator returns the numero allocator scoped to the current transaction.
func (r *gormBillingTransactionalRepositories) Allocator() numbering.Allocator {
	return NewGormSequenceAllocator(r.tx)
}

// Ensure GormBillingTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)

// Ensure gormBillingTransactionalRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormBillingTransactionalRepositories)(nil)
