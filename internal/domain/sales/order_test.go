package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestOrder(t *testing.T) *Order {
	order, err := NewOrder("CMD-000001", uuid.New())
	require.NoError(t, err)
	return order
}

func addTestLine(t *testing.T, order *Order, description string, quantity int, price string) *OrderLine {
	unitPrice, err := decimal.NewFromString(price)
	require.NoError(t, err)
	line, err := order.AddLine(uuid.New(), description, quantity, unitPrice, decimal.Zero, decimal.NewFromInt(20))
	require.NoError(t, err)
	return line
}

// ============================================
// OrderStatus Tests
// ============================================

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		isValid bool
	}{
		{OrderStatusDraft, true},
		{OrderStatusValidated, true},
		{OrderStatusInPreparation, true},
		{OrderStatusPrepared, true},
		{OrderStatusShipped, true},
		{OrderStatusDelivered, true},
		{OrderStatusInvoiced, true},
		{OrderStatusCancelled, true},
		{OrderStatus("unknown"), false},
		{OrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		// From draft
		{OrderStatusDraft, OrderStatusValidated, true},
		{OrderStatusDraft, OrderStatusInvoiced, true},
		{OrderStatusDraft, OrderStatusShipped, true},
		{OrderStatusDraft, OrderStatusCancelled, true},
		{OrderStatusDraft, OrderStatusDelivered, false},
		// From validated
		{OrderStatusValidated, OrderStatusInPreparation, true},
		{OrderStatusValidated, OrderStatusShipped, true},
		{OrderStatusValidated, OrderStatusInvoiced, true},
		{OrderStatusValidated, OrderStatusDraft, false},
		{OrderStatusValidated, OrderStatusValidated, false},
		// From shipped
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusInvoiced, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		// Terminal states
		{OrderStatusInvoiced, OrderStatusCancelled, false},
		{OrderStatusInvoiced, OrderStatusShipped, false},
		{OrderStatusCancelled, OrderStatusValidated, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusInvoiced.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusDraft.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

// ============================================
// OrderLine Tests
// ============================================

func TestNewOrderLine_Validation(t *testing.T) {
	orderID := uuid.New()
	price := decimal.NewFromFloat(10.50)
	tax := decimal.NewFromInt(20)

	tests := []struct {
		name        string
		articleID   uuid.UUID
		description string
		quantity    int
		unitPrice   decimal.Decimal
		discountPct decimal.Decimal
		taxPct      decimal.Decimal
		wantErr     bool
	}{
		{"valid line", uuid.New(), "Blue shirt", 3, price, decimal.Zero, tax, false},
		{"zero quantity allowed", uuid.New(), "Sample", 0, price, decimal.Zero, tax, false},
		{"nil article", uuid.Nil, "Blue shirt", 3, price, decimal.Zero, tax, true},
		{"empty description", uuid.New(), "", 3, price, decimal.Zero, tax, true},
		{"negative quantity", uuid.New(), "Blue shirt", -1, price, decimal.Zero, tax, true},
		{"negative price", uuid.New(), "Blue shirt", 3, decimal.NewFromInt(-1), decimal.Zero, tax, true},
		{"discount above 100", uuid.New(), "Blue shirt", 3, price, decimal.NewFromInt(101), tax, true},
		{"negative discount", uuid.New(), "Blue shirt", 3, price, decimal.NewFromInt(-5), tax, true},
		{"tax above 100", uuid.New(), "Blue shirt", 3, price, decimal.Zero, decimal.NewFromInt(120), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := NewOrderLine(orderID, 1, tt.articleID, tt.description, tt.quantity, tt.unitPrice, tt.discountPct, tt.taxPct)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, line)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 0, line.DeliveredQuantity)
				assert.Equal(t, tt.quantity, line.RemainingQuantity())
			}
		})
	}
}

func TestOrderLine_UpdateQuantity(t *testing.T) {
	order := createTestOrder(t)
	line := addTestLine(t, order, "Shirt", 10, "15.00")

	require.NoError(t, order.UpdateLineQuantity(line.ID, 4))
	assert.Equal(t, 4, order.Lines[0].Quantity)
	assert.True(t, order.Lines[0].NetAmount.Equal(decimal.NewFromInt(60)))

	err := order.UpdateLineQuantity(line.ID, -1)
	assert.Error(t, err)
}

func TestOrderLine_QuantityCannotDropBelowDelivered(t *testing.T) {
	order := createTestOrder(t)
	line := addTestLine(t, order, "Shirt", 10, "15.00")
	order.Lines[0].DeliveredQuantity = 6

	err := order.UpdateLineQuantity(line.ID, 5)
	assert.Error(t, err)
}

// ============================================
// Order Tests
// ============================================

func TestNewOrder(t *testing.T) {
	clientID := uuid.New()
	order, err := NewOrder("CMD-000042", clientID)
	require.NoError(t, err)

	assert.Equal(t, "CMD-000042", order.Numero)
	assert.Equal(t, clientID, order.ClientID)
	assert.Equal(t, OrderStatusDraft, order.Status)
	assert.True(t, order.TotalGross.IsZero())
	assert.Len(t, order.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOrderCreated, order.GetDomainEvents()[0].EventType())
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder("", uuid.New())
	assert.Error(t, err)

	_, err = NewOrder("CMD-000001", uuid.Nil)
	assert.Error(t, err)
}

func TestOrder_AddLine_RecomputesTotals(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 2, "89.90")

	assert.True(t, order.TotalNet.Equal(decimal.NewFromFloat(179.80)), "net = %s", order.TotalNet)
	assert.True(t, order.TotalTax.Equal(decimal.NewFromFloat(35.96)), "tax = %s", order.TotalTax)
	assert.True(t, order.TotalGross.Equal(decimal.NewFromFloat(215.76)), "gross = %s", order.TotalGross)
}

func TestOrder_AddLine_OnlyInDraft(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 1, "10.00")
	require.NoError(t, order.Validate())

	_, err := order.AddLine(uuid.New(), "Other", 1, decimal.NewFromInt(5), decimal.Zero, decimal.Zero)
	assert.Error(t, err)
}

func TestOrder_RemoveLine_Renumbers(t *testing.T) {
	order := createTestOrder(t)
	first := addTestLine(t, order, "First", 1, "10.00")
	addTestLine(t, order, "Second", 1, "20.00")

	require.NoError(t, order.RemoveLine(first.ID))
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "Second", order.Lines[0].Description)
	assert.Equal(t, 1, order.Lines[0].LineNumber)
	assert.True(t, order.TotalNet.Equal(decimal.NewFromInt(20)))
}

func TestOrder_SetGlobalDiscount(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 10, "10.00")

	require.NoError(t, order.SetGlobalDiscount(decimal.NewFromInt(10)))
	assert.True(t, order.TotalNet.Equal(decimal.NewFromInt(90)), "net = %s", order.TotalNet)

	assert.Error(t, order.SetGlobalDiscount(decimal.NewFromInt(101)))
	assert.Error(t, order.SetGlobalDiscount(decimal.NewFromInt(-1)))
}

func TestOrder_Validate(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 1, "10.00")

	require.NoError(t, order.Validate())
	assert.Equal(t, OrderStatusValidated, order.Status)
	assert.NotNil(t, order.ValidatedAt)

	// Validating twice is rejected
	assert.Error(t, order.Validate())
}

func TestOrder_Validate_RequiresLines(t *testing.T) {
	order := createTestOrder(t)
	assert.Error(t, order.Validate())
}

func TestOrder_MarkInvoiced(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 1, "10.00")

	require.NoError(t, order.MarkInvoiced())
	assert.Equal(t, OrderStatusInvoiced, order.Status)
	assert.NotNil(t, order.InvoicedAt)

	// No double invoicing
	assert.Error(t, order.MarkInvoiced())
}

func TestOrder_MarkInvoiced_FromCancelled(t *testing.T) {
	order := createTestOrder(t)
	require.NoError(t, order.Cancel())
	assert.Error(t, order.MarkInvoiced())
}

func TestOrder_MarkShipped(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 1, "10.00")

	require.NoError(t, order.MarkShipped())
	assert.Equal(t, OrderStatusShipped, order.Status)
	assert.NotNil(t, order.ShippedAt)

	// Re-shipping an already-shipped order is a no-op
	require.NoError(t, order.MarkShipped())
	assert.Equal(t, OrderStatusShipped, order.Status)
}

func TestOrder_MarkShipped_KeepsInvoicedStatus(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 1, "10.00")
	require.NoError(t, order.MarkInvoiced())

	require.NoError(t, order.MarkShipped())
	assert.Equal(t, OrderStatusInvoiced, order.Status)
}

func TestOrder_Cancel(t *testing.T) {
	order := createTestOrder(t)
	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCancelled, order.Status)

	assert.Error(t, order.Cancel())
}

func TestOrder_Cancel_InvoicedRejected(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 1, "10.00")
	require.NoError(t, order.MarkInvoiced())

	assert.Error(t, order.Cancel())
}

func TestOrder_ManualProgression(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 1, "10.00")

	require.NoError(t, order.Validate())
	require.NoError(t, order.StartPreparation())
	assert.Equal(t, OrderStatusInPreparation, order.Status)
	require.NoError(t, order.MarkPrepared())
	assert.Equal(t, OrderStatusPrepared, order.Status)
	require.NoError(t, order.MarkShipped())
	require.NoError(t, order.MarkDelivered())
	assert.Equal(t, OrderStatusDelivered, order.Status)
}

// ============================================
// DrainUndelivered Tests
// ============================================

func TestOrder_DrainUndelivered_FullOrder(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 5, "10.00")
	addTestLine(t, order, "Pants", 3, "25.00")

	allocations, err := order.DrainUndelivered()
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	assert.Equal(t, 5, allocations[0].Quantity)
	assert.Equal(t, 3, allocations[1].Quantity)
	assert.True(t, order.IsFullyDelivered())
	for _, line := range order.Lines {
		assert.Equal(t, line.Quantity, line.DeliveredQuantity)
	}
}

func TestOrder_DrainUndelivered_SecondDrainIsEmpty(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 5, "10.00")

	first, err := order.DrainUndelivered()
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := order.DrainUndelivered()
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestOrder_DrainUndelivered_PartialRemainder(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 5, "10.00")
	order.Lines[0].DeliveredQuantity = 2

	allocations, err := order.DrainUndelivered()
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	assert.Equal(t, 3, allocations[0].Quantity)
	assert.Equal(t, 5, order.Lines[0].DeliveredQuantity)
}

func TestOrder_DrainUndelivered_CancelledRejected(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, "Shirt", 5, "10.00")
	require.NoError(t, order.Cancel())

	_, err := order.DrainUndelivered()
	assert.Error(t, err)
}
