package billing

import (
	"context"

	"github.com/gescom/backend/internal/domain/billing"
	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories a
// billing use case touches. Deriving an invoice from an order writes two
// aggregates (the new invoice and the invoiced order); both writes must
// commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the billing-side
// repositories within a transaction. All repositories returned share the
// same underlying database transaction.
type TransactionalRepositories interface {
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
	// OrderRepo returns the sales order repository scoped to the current transaction
	OrderRepo() sales.OrderRepository
	// Allocator returns the numero allocator scoped to the current transaction
	Allocator() numbering.Allocator
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	invoiceRepo billing.InvoiceRepository
	orderRepo   sales.OrderRepository
	allocator   numbering.Allocator
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(invoiceRepo billing.InvoiceRepository, orderRepo sales.OrderRepository, allocator numbering.Allocator) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		allocator:   allocator,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

// OrderRepo returns the sales order repository.
func (s *NoOpTransactionScope) OrderRepo() sales.OrderRepository {
	return s.orderRepo
}

// Allocator returns the numero allocator.
func (s *NoOpTransactionScope) Allocator() numbering.Allocator {
	return s.allocator
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
