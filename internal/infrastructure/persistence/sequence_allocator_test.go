package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/shared"
)

func TestGormSequenceAllocator_Next(t *testing.T) {
	db := setupTestDB(t)
	allocator := NewGormSequenceAllocator(db)
	ctx := context.Background()

	t.Run("first allocation seeds the counter", func(t *testing.T) {
		numero, err := allocator.Next(ctx, numbering.DocTypeOrder)
		require.NoError(t, err)
		assert.Equal(t, "CMD-000001", numero)
	})

	t.Run("allocations are sequential without gaps", func(t *testing.T) {
		for i := 2; i <= 5; i++ {
			numero, err := allocator.Next(ctx, numbering.DocTypeOrder)
			require.NoError(t, err)
			assert.Equal(t, numbering.Format(numbering.DocTypeOrder, int64(i)), numero)
		}
	})

	t.Run("document types count independently", func(t *testing.T) {
		numero, err := allocator.Next(ctx, numbering.DocTypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, "FAC-000001", numero)

		numero, err = allocator.Next(ctx, numbering.DocTypeDeliveryNote)
		require.NoError(t, err)
		assert.Equal(t, "BL-000001", numero)
	})

	t.Run("every numero matches the persisted shape", func(t *testing.T) {
		numero, err := allocator.Next(ctx, numbering.DocTypeStockMovement)
		require.NoError(t, err)
		assert.Regexp(t, numbering.NumeroPattern, numero)
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		_, err := allocator.Next(ctx, numbering.DocumentType("XYZ"))
		assert.Error(t, err)
	})

	t.Run("a pre-seeded counter keeps counting", func(t *testing.T) {
		require.NoError(t, db.Exec(
			"INSERT INTO document_sequences (doc_type, value, updated_at) VALUES ('INV', 41, CURRENT_TIMESTAMP)",
		).Error)

		numero, err := allocator.Next(ctx, numbering.DocTypeInventory)
		require.NoError(t, err)
		assert.Equal(t, "INV-000042", numero)
	})
}

func TestGormSequenceAllocator_DatabaseErrorIsNotAConflict(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	allocator := NewGormSequenceAllocator(db)

	_, err = allocator.Next(context.Background(), numbering.DocTypeOrder)

	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrNumberingConflict)
}
