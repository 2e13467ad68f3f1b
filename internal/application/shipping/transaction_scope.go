package shipping

import (
	"context"

	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/sales"
	"github.com/gescom/backend/internal/domain/shipping"
)

// TransactionScope provides transactional access to the repositories a
// shipping use case touches. Deriving a delivery note drains the order's
// undelivered quantities and writes both aggregates; the writes must commit
// or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the shipping-side
// repositories within a transaction. All repositories returned share the
// same underlying database transaction.
type TransactionalRepositories interface {
	// DeliveryRepo returns the delivery note repository scoped to the current transaction
	DeliveryRepo() shipping.DeliveryNoteRepository
	// OrderRepo returns the sales order repository scoped to the current transaction
	OrderRepo() sales.OrderRepository
	// Allocator returns the numero allocator scoped to the current transaction
	Allocator() numbering.Allocator
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	deliveryRepo shipping.DeliveryNoteRepository
	orderRepo    sales.OrderRepository
	allocator    numbering.Allocator
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(deliveryRepo shipping.DeliveryNoteRepository, orderRepo sales.OrderRepository, allocator numbering.Allocator) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		allocator:    allocator,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// DeliveryRepo returns the delivery note repository.
func (s *NoOpTransactionScope) DeliveryRepo() shipping.DeliveryNoteRepository {
	return s.deliveryRepo
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
