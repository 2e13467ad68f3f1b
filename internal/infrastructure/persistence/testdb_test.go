package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gescom/backend/internal/domain/sales"
	"github.com/gescom/backend/internal/domain/shared/valueobject"
	"github.com/gescom/backend/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.OrderModel{},
		&models.OrderLineModel{},
		&models.InvoiceModel{},
		&models.InvoiceLineModel{},
		&models.DeliveryNoteModel{},
		&models.DeliveryLineModel{},
		&models.SequenceModel{},
	)
	require.NoError(t, err)

	return db
}

func testAddress() valueobject.Address {
	return valueobject.NewAddress("12 rue de la Paix", "75002", "Paris", "France")
}

// createTestOrder builds a draft order with two lines ready to persist
func createTestOrder(t *testing.T, numero string) *sales.Order {
	t.Helper()

	order, err := sales.NewOrder(numero, uuid.New())
	require.NoError(t, err)
	require.NoError(t, order.SetShippingAddress(testAddress()))

	_, err = order.AddLine(uuid.New(), "Veste en cuir", 2,
		decimal.NewFromFloat(89.90), decimal.Zero, decimal.NewFromInt(20))
	require.NoError(t, err)

	_, err = order.AddLine(uuid.New(), "Ceinture tressee", 3,
		decimal.NewFromFloat(19.90), decimal.NewFromInt(10), decimal.NewFromInt(20))
	require.NoError(t, err)

	return order
}
