package sales

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gescom/backend/internal/domain/numbering"
	"github.com/gescom/backend/internal/domain/sales"
	"github.com/gescom/backend/internal/domain/shared"
)

// MockOrderRepository is a mock implementation of sales.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumero(ctx context.Context, numero string) (*sales.Order, error) {
	args := m.Called(ctx, numero)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*sales.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status sales.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

var (
	testClientID  = uuid.New()
	testArticleID = uuid.New()
	testOrderID   = uuid.New()
)

func newService(repo *MockOrderRepository) *OrderService {
	return NewOrderService(repo, numbering.NewMemoryAllocator())
}

func createTestOrder(t *testing.T) *sales.Order {
	t.Helper()
	order, err := sales.NewOrder("CMD-000001", testClientID)
	require.NoError(t, err)
	return order
}

func TestOrderService_Create(t *testing.T) {
	t.Run("create order successfully", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newService(repo)
		ctx := context.Background()

		repo.On("Save", ctx, mock.AnythingOfType("*sales.Order")).Return(nil)

		req := CreateOrderRequest{
			ClientID: testClientID,
			Lines: []CreateOrderLineInput{
				{
					ArticleID:   testArticleID,
					Description: "Chemise coton",
					Quantity:    2,
					UnitPrice:   decimal.RequireFromString("89.90"),
					TaxPct:      decimal.RequireFromString("20"),
					Size:        "M",
				},
			},
		}

		result, err := service.Create(ctx, req)

		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "CMD-000001", result.Numero)
		assert.Equal(t, "draft", result.Status)
		assert.Equal(t, "215.76", result.TotalGross.StringFixed(2))
		require.Len(t, result.Lines, 1)
		assert.Equal(t, "M", result.Lines[0].Size)
		repo.AssertExpectations(t)
	})

	t.Run("numeros are sequential", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newService(repo)
		ctx := context.Background()

		repo.On("Save", ctx, mock.AnythingOfType("*sales.Order")).Return(nil)

		first, err := service.Create(ctx, CreateOrderRequest{ClientID: testClientID})
		require.NoError(t, err)
		second, err := service.Create(ctx, CreateOrderRequest{ClientID: testClientID})
		require.NoError(t, err)

		assert.Equal(t, "CMD-000001", first.Numero)
		assert.Equal(t, "CMD-000002", second.Numero)
	})

	t.Run("create with global discount", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newService(repo)
		ctx := context.Background()

		repo.On("Save", ctx, mock.AnythingOfType("*sales.Order")).Return(nil)

		discount := decimal.RequireFromString("10")
		req := CreateOrderRequest{
			ClientID:          testClientID,
			GlobalDiscountPct: &discount,
			Lines: []CreateOrderLineInput{
				{
					ArticleID:   testArticleID,
					Description: "Chemise coton",
					Quantity:    2,
					UnitPrice:   decimal.RequireFromString("89.90"),
					TaxPct:      decimal.RequireFromString("20"),
				},
			},
		}

		result, err := service.Create(ctx, req)

		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "161.82", result.TotalNet.StringFixed(2))
	})

	t.Run("missing client is rejected before allocation", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newService(repo)

		_, err := service.Create(context.Background(), CreateOrderRequest{})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "VALIDATION_FAILED"))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid line rolls the request back", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newService(repo)

		req := CreateOrderRequest{
			ClientID: testClientID,
			Lines: []CreateOrderLineInput{
				{
					ArticleID:   testArticleID,
					Description: "Chemise",
					Quantity:    1,
					UnitPrice:   decimal.RequireFromString("-5"),
				},
			},
		}

		_, err := service.Create(context.Background(), req)

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderService_GetByID(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newService(repo)
	ctx := context.Background()

	order := createTestOrder(t)
	repo.On("FindByID", ctx, testOrderID).Return(order, nil)

	result, err := service.GetByID(ctx, testOrderID)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, order.Numero, result.Numero)
	repo.AssertExpectations(t)
}

func TestOrderService_GetByID_NotFound(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newService(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, testOrderID).Return(nil, shared.ErrNotFound)

	_, err := service.GetByID(ctx, testOrderID)

	require.Error(t, err)
	assert.True(t, shared.IsCode(err, "NOT_FOUND"))
}

func TestOrderService_List(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newService(repo)
	ctx := context.Background()

	orders := []*sales.Order{createTestOrder(t)}
	repo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return(orders, nil)
	repo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	result, err := service.List(ctx, OrderListFilter{Page: 1, PageSize: 20})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(1), result.Total)
	assert.Len(t, result.Items, 1)
	repo.AssertExpectations(t)
}

func TestOrderService_Validate(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newService(repo)
	ctx := context.Background()

	order := createTestOrder(t)
	_, err := order.AddLine(testArticleID, "Chemise", 1, decimal.RequireFromString("89.90"), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	repo.On("FindByID", ctx, testOrderID).Return(order, nil)
	repo.On("SaveWithLock", ctx, order).Return(nil)

	result, err := service.Validate(ctx, testOrderID)

	assert.NoError(t, err)
	assert.Equal(t, "validated", result.Status)
	repo.AssertExpectations(t)
}

func TestOrderService_Validate_EmptyOrder(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newService(repo)
	ctx := context.Background()

	order := createTestOrder(t)
	repo.On("FindByID", ctx, testOrderID).Return(order, nil)

	_, err := service.Validate(ctx, testOrderID)

	require.Error(t, err)
	repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestOrderService_Update_NotDraft(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newService(repo)
	ctx := context.Background()

	order := createTestOrder(t)
	_, err := order.AddLine(testArticleID, "Chemise", 1, decimal.RequireFromString("89.90"), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, order.Validate())

	repo.On("FindByID", ctx, testOrderID).Return(order, nil)

	notes := "changed"
	_, err = service.Update(ctx, testOrderID, UpdateOrderRequest{Notes: &notes})

	require.Error(t, err)
	assert.True(t, shared.IsCode(err, "INVALID_STATE"))
}

func TestOrderService_Cancel_ConcurrencyConflict(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newService(repo)
	ctx := context.Background()

	order := createTestOrder(t)
	repo.On("FindByID", ctx, testOrderID).Return(order, nil)
	repo.On("SaveWithLock", ctx, order).Return(shared.ErrConcurrencyConflict)

	_, err := service.Cancel(ctx, testOrderID)

	require.Error(t, err)
	assert.True(t, shared.IsCode(err, "CONCURRENCY_CONFLICT"))
}
