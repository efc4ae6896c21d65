package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderDetail), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderDetail), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, query model.ProductQuery) ([]model.Product, int, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDsTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (bool, error) {
	args := m.Called(ctx, tx, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func checkoutRequest(items ...model.OrderItemRequest) *model.OrderRequest {
	return &model.OrderRequest{
		Items:      items,
		FullName:   "Ada Lovelace",
		Address:    "12 Analytical Way",
		City:       "London",
		Country:    "UK",
		PostalCode: "N1 9GU",
		Email:      "ada@example.com",
	}
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()

	req := checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 2},
		model.OrderItemRequest{ProductID: 2, Quantity: 1},
	)

	products := []model.Product{
		{ID: 1, Name: "Wireless Headphones", Price: price("99.99"), Stock: 50},
		{ID: 2, Name: "T-Shirt", Price: price("15.00"), Stock: 150},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)
	service := NewOrderService(mockOrderRepo, mockProductRepo, zerolog.Nop())

	var (
		createdOrder *model.Order
		createdItems []model.OrderItem
	)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("GetByIDsTx", ctx, mockTx, []int64{1, 2}).Return(products, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, int64(1), 2).Return(true, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, int64(2), 1).Return(true, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { createdOrder = args.Get(2).(*model.Order) }).
		Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).
		Run(func(args mock.Arguments) { createdItems = args.Get(2).([]model.OrderItem) }).
		Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	resp, err := service.PlaceOrder(ctx, req, nil)

	require.NoError(t, err)
	require.NotNil(t, resp)

	// total = 2*99.99 + 1*15.00
	assert.True(t, resp.Total.Equal(price("214.98")), "total = %s", resp.Total)

	require.NotNil(t, createdOrder)
	assert.Nil(t, createdOrder.UserID)
	assert.Equal(t, "ada@example.com", createdOrder.Email)
	assert.True(t, createdOrder.Total.Equal(price("214.98")))

	// Unit prices are snapshots of the live product price
	require.Len(t, createdItems, 2)
	assert.True(t, createdItems[0].UnitPrice.Equal(price("99.99")))
	assert.True(t, createdItems[1].UnitPrice.Equal(price("15.00")))
	assert.Equal(t, resp.ID, createdItems[0].OrderID)

	assert.True(t, mockTx.committed)
	assert.False(t, mockTx.rolledBack)
	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_AuthenticatedEmailFallback(t *testing.T) {
	ctx := context.Background()

	req := checkoutRequest(model.OrderItemRequest{ProductID: 1, Quantity: 1})
	req.Email = ""

	user := &model.PublicUser{ID: uuid.New(), Email: "user@example.com"}
	products := []model.Product{{ID: 1, Name: "T-Shirt", Price: price("15.00"), Stock: 10}}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)
	service := NewOrderService(mockOrderRepo, mockProductRepo, zerolog.Nop())

	var createdOrder *model.Order
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("GetByIDsTx", ctx, mockTx, []int64{1}).Return(products, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, int64(1), 1).Return(true, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { createdOrder = args.Get(2).(*model.Order) }).
		Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.Anything).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	_, err := service.PlaceOrder(ctx, req, user)

	require.NoError(t, err)
	require.NotNil(t, createdOrder)
	assert.Equal(t, "user@example.com", createdOrder.Email)
	require.NotNil(t, createdOrder.UserID)
	assert.Equal(t, user.ID, *createdOrder.UserID)
}

func TestOrderService_PlaceOrder_GuestRequiresEmail(t *testing.T) {
	req := checkoutRequest(model.OrderItemRequest{ProductID: 1, Quantity: 1})
	req.Email = ""

	mockOrderRepo := new(MockOrderRepository)
	service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

	_, err := service.PlaceOrder(context.Background(), req, nil)

	var derr *model.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, model.ErrCodeValidation, derr.Code)
	assert.Contains(t, derr.Fields, "email")

	mockOrderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_PlaceOrder_ValidationEnumeratesFields(t *testing.T) {
	req := &model.OrderRequest{
		Items:      []model.OrderItemRequest{{ProductID: 1, Quantity: 1}},
		FullName:   "A",  // below min=2
		Address:    "12", // below min=3
		City:       "L",  // below min=2
		Country:    "UK",
		PostalCode: "N1 9GU",
		Email:      "ada@example.com",
	}

	service := NewOrderService(new(MockOrderRepository), new(MockProductRepository), zerolog.Nop())

	_, err := service.PlaceOrder(context.Background(), req, nil)

	var derr *model.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, model.ErrCodeValidation, derr.Code)
	assert.Contains(t, derr.Fields, "fullName")
	assert.Contains(t, derr.Fields, "address")
	assert.Contains(t, derr.Fields, "city")
	assert.NotContains(t, derr.Fields, "country")
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	req := checkoutRequest()

	service := NewOrderService(new(MockOrderRepository), new(MockProductRepository), zerolog.Nop())

	_, err := service.PlaceOrder(context.Background(), req, nil)

	var derr *model.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, model.ErrCodeValidation, derr.Code)
	assert.Contains(t, derr.Fields, "items")
}

func TestOrderService_PlaceOrder_UnknownProduct(t *testing.T) {
	ctx := context.Background()

	req := checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 1},
		model.OrderItemRequest{ProductID: 99, Quantity: 1},
	)

	// Only product 1 exists
	products := []model.Product{{ID: 1, Name: "T-Shirt", Price: price("15.00"), Stock: 10}}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)
	service := NewOrderService(mockOrderRepo, mockProductRepo, zerolog.Nop())

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("GetByIDsTx", ctx, mockTx, []int64{1, 99}).Return(products, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := service.PlaceOrder(ctx, req, nil)

	var derr *model.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, model.ErrCodeProductNotFound, derr.Code)
	assert.Contains(t, derr.Message, "99")

	// Nothing was written and the whole transaction rolled back
	assert.True(t, mockTx.rolledBack)
	assert.False(t, mockTx.committed)
	mockProductRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockOrderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	ctx := context.Background()

	req := checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 1},
		model.OrderItemRequest{ProductID: 2, Quantity: 5},
	)

	products := []model.Product{
		{ID: 1, Name: "Wireless Headphones", Price: price("99.99"), Stock: 50},
		{ID: 2, Name: "T-Shirt", Price: price("15.00"), Stock: 2},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)
	service := NewOrderService(mockOrderRepo, mockProductRepo, zerolog.Nop())

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("GetByIDsTx", ctx, mockTx, []int64{1, 2}).Return(products, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, int64(1), 1).Return(true, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, int64(2), 5).Return(false, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := service.PlaceOrder(ctx, req, nil)

	var derr *model.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, model.ErrCodeInsufficientStock, derr.Code)
	assert.Contains(t, derr.Message, "product 2")
	assert.Contains(t, derr.Message, "available: 2")

	// The first line's decrement is rolled back with everything else
	assert.True(t, mockTx.rolledBack)
	assert.False(t, mockTx.committed)
	mockOrderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_DuplicateLinesPricedIndependently(t *testing.T) {
	ctx := context.Background()

	// Same product twice: lines are not merged, each decrements separately
	req := checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 1},
		model.OrderItemRequest{ProductID: 1, Quantity: 2},
	)

	products := []model.Product{{ID: 1, Name: "T-Shirt", Price: price("15.00"), Stock: 10}}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)
	service := NewOrderService(mockOrderRepo, mockProductRepo, zerolog.Nop())

	var createdItems []model.OrderItem
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("GetByIDsTx", ctx, mockTx, []int64{1}).Return(products, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, int64(1), 1).Return(true, nil).Once()
	mockProductRepo.On("DecrementStock", ctx, mockTx, int64(1), 2).Return(true, nil).Once()
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.Anything).Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).
		Run(func(args mock.Arguments) { createdItems = args.Get(2).([]model.OrderItem) }).
		Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	resp, err := service.PlaceOrder(ctx, req, nil)

	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(price("45.00")), "total = %s", resp.Total)
	require.Len(t, createdItems, 2)
	assert.Equal(t, 1, createdItems[0].Quantity)
	assert.Equal(t, 2, createdItems[1].Quantity)
	mockProductRepo.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_CommitFailure(t *testing.T) {
	ctx := context.Background()

	req := checkoutRequest(model.OrderItemRequest{ProductID: 1, Quantity: 1})
	products := []model.Product{{ID: 1, Name: "T-Shirt", Price: price("15.00"), Stock: 10}}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)
	service := NewOrderService(mockOrderRepo, mockProductRepo, zerolog.Nop())

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("GetByIDsTx", ctx, mockTx, []int64{1}).Return(products, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, int64(1), 1).Return(true, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.Anything).Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.Anything).Return(nil)
	mockTx.On("Commit", ctx).Return(errors.New("serialization failure"))
	mockTx.On("Rollback", ctx).Return(pgx.ErrTxClosed)

	_, err := service.PlaceOrder(ctx, req, nil)

	require.Error(t, err)
	var derr *model.DomainError
	assert.False(t, errors.As(err, &derr), "commit failure is not a domain error")
}

func TestOrderService_GetOrder(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	orderID := uuid.New()

	owned := &model.OrderDetail{
		Order: model.Order{ID: orderID, UserID: &ownerID, Total: price("20.00")},
	}
	guest := &model.OrderDetail{
		Order: model.Order{ID: orderID, Total: price("20.00")},
	}

	tests := []struct {
		name      string
		stored    *model.OrderDetail
		caller    *model.PublicUser
		wantErr   error
		wantOrder bool
	}{
		{
			name:      "owner sees own order",
			stored:    owned,
			caller:    &model.PublicUser{ID: ownerID},
			wantOrder: true,
		},
		{
			name:    "other user cannot see it",
			stored:  owned,
			caller:  &model.PublicUser{ID: otherID},
			wantErr: model.ErrOrderNotFound,
		},
		{
			name:    "anonymous cannot see an owned order",
			stored:  owned,
			caller:  nil,
			wantErr: model.ErrOrderNotFound,
		},
		{
			name:      "guest order readable by id",
			stored:    guest,
			caller:    nil,
			wantOrder: true,
		},
		{
			name:    "unknown order",
			stored:  nil,
			caller:  nil,
			wantErr: model.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockOrderRepo := new(MockOrderRepository)
			service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

			if tt.stored == nil {
				mockOrderRepo.On("GetByID", ctx, orderID).Return(nil, nil)
			} else {
				mockOrderRepo.On("GetByID", ctx, orderID).Return(tt.stored, nil)
			}

			order, err := service.GetOrder(ctx, orderID, tt.caller)

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, order)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, order)
			assert.Equal(t, orderID, order.ID)
		})
	}
}

func TestOrderService_ListOrders_EmptyHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

	mockOrderRepo.On("ListByUser", ctx, userID).Return(nil, nil)

	orders, err := service.ListOrders(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
