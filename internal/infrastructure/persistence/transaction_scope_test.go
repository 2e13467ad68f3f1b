package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/gescom/backend/internal/application/billing"
	appshipping "github.com/gescom/backend/internal/application/shipping"
	"github.com/gescom/backend/internal/domain/billing"
	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/shared"
)

func TestGormBillingTransactionScope_Execute(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormBillingTransactionScope(db)
	ctx := context.Background()

	t.Run("commits invoice, order and numero together", func(t *testing.T) {
		order := createTestOrder(t, "CMD-000100")
		require.NoError(t, order.Validate())
		require.NoError(t, NewGormOrderRepository(db).Save(ctx, order))

		var numero string
		err := scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
			var err error
			numero, err = repos.Allocator().Next(ctx, numbering.DocTypeInvoice)
			if err != nil {
				return err
			}

			invoice, err := billing.NewInvoice(numero, order.ClientID)
			if err != nil {
				return err
			}
			invoice.OrderID = &order.ID
			if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
				return err
			}

			if err := order.MarkInvoiced(); err != nil {
				return err
			}
			return repos.OrderRepo().SaveWithLock(ctx, order)
		})
		require.NoError(t, err)
		assert.Equal(t, "FAC-000001", numero)

		found, err := NewGormInvoiceRepository(db).FindByNumero(ctx, numero)
		require.NoError(t, err)
		assert.Equal(t, order.ID, *found.OrderID)
	})

	t.Run("rolls back all writes when the function fails", func(t *testing.T) {
		boom := errors.New("boom")

		err := scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
			numero, err := repos.Allocator().Next(ctx, numbering.DocTypeInvoice)
			if err != nil {
				return err
			}

			invoice, err := billing.NewInvoice(numero, createTestOrder(t, "CMD-000101").ClientID)
			if err != nil {
				return err
			}
			if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		// The invoice write and the counter increment were both rolled back
		_, err = NewGormInvoiceRepository(db).FindByNumero(ctx, "FAC-000002")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		numero, err := NewGormSequenceAllocator(db).Next(ctx, numbering.DocTypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, "FAC-000002", numero)
	})
}

func TestGormShippingTransactionScope_Execute(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormShippingTransactionScope(db)
	ctx := context.Background()

	t.Run("exposes transaction-scoped repositories", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos appshipping.TransactionalRepositories) error {
			assert.NotNil(t, repos.DeliveryRepo())
			assert.NotNil(t, repos.OrderRepo())
			assert.NotNil(t, repos.Allocator())
			return nil
		})
		require.NoError(t, err)
	})
}
