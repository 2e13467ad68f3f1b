package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/domain/shipping"
)

// createTestDeliveryNote builds a delivery note in preparation with one line
func createTestDeliveryNote(t *testing.T, numero string, orderID uuid.UUID) *shipping.DeliveryNote {
	t.Helper()

	note, err := shipping.NewDeliveryNote(numero, orderID, uuid.New(), testAddress())
	require.NoError(t, err)

	orderLineID := uuid.New()
	_, err = note.AddLine(&orderLineID, uuid.New(), "Veste en cuir", 2)
	require.NoError(t, err)

	return note
}

func TestGormDeliveryNoteRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDeliveryNoteRepository(db)
	ctx := context.Background()

	t.Run("saves and finds delivery note with lines", func(t *testing.T) {
		note := createTestDeliveryNote(t, "BL-000001", uuid.New())
		repID := uuid.New()
		require.NoError(t, note.SetRep(repID))
		require.NoError(t, repo.Save(ctx, note))

		found, err := repo.FindByID(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, "BL-000001", found.Numero)
		require.NotNil(t, found.RepID)
		assert.Equal(t, repID, *found.RepID)
		assert.Equal(t, shipping.DeliveryStatusInPreparation, found.Status)
		assert.Equal(t, "Paris", found.ShippingAddress.City)
		require.Len(t, found.Lines, 1)
		assert.Equal(t, 2, found.Lines[0].Quantity)
		require.NotNil(t, found.Lines[0].OrderLineID)
		assert.Equal(t, *note.Lines[0].OrderLineID, *found.Lines[0].OrderLineID)
	})

	t.Run("finds delivery note by numero", func(t *testing.T) {
		note := createTestDeliveryNote(t, "BL-000002", uuid.New())
		require.NoError(t, repo.Save(ctx, note))

		found, err := repo.FindByNumero(ctx, "BL-000002")
		require.NoError(t, err)
		assert.Equal(t, note.ID, found.ID)
	})

	t.Run("returns ErrNotFound for missing delivery note", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds delivery notes by order", func(t *testing.T) {
		orderID := uuid.New()
		require.NoError(t, repo.Save(ctx, createTestDeliveryNote(t, "BL-000003", orderID)))
		require.NoError(t, repo.Save(ctx, createTestDeliveryNote(t, "BL-000004", orderID)))

		notes, err := repo.FindByOrderID(ctx, orderID)
		require.NoError(t, err)
		assert.Len(t, notes, 2)
	})
}

func TestGormDeliveryNoteRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDeliveryNoteRepository(db)
	ctx := context.Background()

	t.Run("persists status progression", func(t *testing.T) {
		note := createTestDeliveryNote(t, "BL-000010", uuid.New())
		require.NoError(t, repo.Save(ctx, note))

		require.NoError(t, note.SetCarrier("Chronopost", "XY123456789FR"))
		require.NoError(t, note.SetParcelInfo(2, decimal.NewFromFloat(4.2568)))
		require.NoError(t, note.MarkPrepared())
		require.NoError(t, repo.SaveWithLock(ctx, note))

		found, err := repo.FindByID(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, shipping.DeliveryStatusPrepared, found.Status)
		assert.Equal(t, "Chronopost", found.Carrier)
		assert.Equal(t, 2, found.ParcelCount)
		assert.Equal(t, "4.257", found.TotalWeightKg.String())
		assert.NotNil(t, found.PreparedAt)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		note := createTestDeliveryNote(t, "BL-000011", uuid.New())
		require.NoError(t, repo.Save(ctx, note))

		stale, err := repo.FindByID(ctx, note.ID)
		require.NoError(t, err)

		require.NoError(t, note.MarkPrepared())
		require.NoError(t, repo.SaveWithLock(ctx, note))

		require.NoError(t, stale.MarkPrepared())
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("unknown delivery note surfaces as not found", func(t *testing.T) {
		note := createTestDeliveryNote(t, "BL-000012", uuid.New())

		err := repo.SaveWithLock(ctx, note)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
