package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gescom/backend/internal/domain/billing"
	"github.com/gescom/backend/internal/domain/shared"
)

// createTestInvoice builds an issued invoice with one line ready to persist
func createTestInvoice(t *testing.T, numero string) *billing.Invoice {
	t.Helper()

	invoice, err := billing.NewInvoice(numero, uuid.New())
	require.NoError(t, err)
	require.NoError(t, invoice.SetBillingAddress(testAddress()))

	_, err = invoice.AddLine(uuid.New(), "Veste en cuir", 2,
		decimal.NewFromFloat(89.90), decimal.Zero, decimal.NewFromInt(20))
	require.NoError(t, err)

	require.NoError(t, invoice.Issue())
	return invoice
}

func TestGormInvoiceRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	t.Run("saves and finds invoice with lines", func(t *testing.T) {
		invoice := createTestInvoice(t, "FAC-000001")
		require.NoError(t, repo.Save(ctx, invoice))

		found, err := repo.FindByID(ctx, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, "FAC-000001", found.Numero)
		assert.Equal(t, billing.InvoiceStatusIssued, found.Status)
		require.Len(t, found.Lines, 1)
		assert.True(t, invoice.TotalGross.Equal(found.TotalGross))
		assert.NotNil(t, found.Payments)
		assert.Empty(t, found.Payments)
	})

	t.Run("finds invoice by numero", func(t *testing.T) {
		invoice := createTestInvoice(t, "FAC-000002")
		require.NoError(t, repo.Save(ctx, invoice))

		found, err := repo.FindByNumero(ctx, "FAC-000002")
		require.NoError(t, err)
		assert.Equal(t, invoice.ID, found.ID)
	})

	t.Run("returns ErrNotFound for missing invoice", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds invoices by order", func(t *testing.T) {
		orderID := uuid.New()
		invoice := createTestInvoice(t, "FAC-000003")
		invoice.OrderID = &orderID
		require.NoError(t, repo.Save(ctx, invoice))

		invoices, err := repo.FindByOrderID(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, "FAC-000003", invoices[0].Numero)
	})
}

func TestGormInvoiceRepository_PaymentLedgerRoundtrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	invoice := createTestInvoice(t, "FAC-000010")
	require.NoError(t, repo.Save(ctx, invoice))

	require.NoError(t, invoice.RecordPayment(decimal.NewFromInt(100), "VIR-2026-001"))
	require.NoError(t, repo.SaveWithLock(ctx, invoice))

	found, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPartiallyPaid, found.Status)
	assert.True(t, decimal.NewFromInt(100).Equal(found.AmountPaid))
	require.Len(t, found.Payments, 1)
	assert.Equal(t, "VIR-2026-001", found.Payments[0].Reference)
	assert.True(t, decimal.NewFromInt(100).Equal(found.Payments[0].Amount))

	// Settle the outstanding balance from the reloaded aggregate
	require.NoError(t, found.RecordPayment(found.OutstandingAmount(), "VIR-2026-002"))
	require.NoError(t, repo.SaveWithLock(ctx, found))

	settled, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPaid, settled.Status)
	require.Len(t, settled.Payments, 2)
	assert.NotNil(t, settled.PaidAt)
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	t.Run("rejects stale version", func(t *testing.T) {
		invoice := createTestInvoice(t, "FAC-000020")
		require.NoError(t, repo.Save(ctx, invoice))

		stale, err := repo.FindByID(ctx, invoice.ID)
		require.NoError(t, err)

		require.NoError(t, invoice.RecordPayment(decimal.NewFromInt(50), "VIR-A"))
		require.NoError(t, repo.SaveWithLock(ctx, invoice))

		require.NoError(t, stale.RecordPayment(decimal.NewFromInt(50), "VIR-B"))
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("unknown invoice surfaces as not found", func(t *testing.T) {
		invoice := createTestInvoice(t, "FAC-000021")

		err := repo.SaveWithLock(ctx, invoice)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_CountByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, createTestInvoice(t, "FAC-000030")))
	require.NoError(t, repo.Save(ctx, createTestInvoice(t, "FAC-000031")))

	count, err := repo.CountByStatus(ctx, billing.InvoiceStatusIssued)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByStatus(ctx, billing.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
