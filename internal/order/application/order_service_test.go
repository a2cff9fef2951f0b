package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalog "github.com/wyfcoding/shopsystem/internal/catalog/domain"
	"github.com/wyfcoding/shopsystem/internal/order/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
)

// fakeStore 内存中的订单、商品与事件状态
type fakeStore struct {
	users       map[string]bool
	products    map[uint]*catalog.Product
	orders      map[uint]*domain.Order
	nextOrderID uint
	orderEvents []domain.OrderCreatedEvent
	stockEvents []domain.StockDepletedEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       map[string]bool{},
		products:    map[uint]*catalog.Product{},
		orders:      map[uint]*domain.Order{},
		nextOrderID: 1,
	}
}

func (s *fakeStore) addProduct(id uint, price string, qty int) {
	q := qty
	s.products[id] = &catalog.Product{
		Name:         "product",
		Quantity:     &q,
		IsStock:      qty > 0,
		SellingPrice: decimal.RequireFromString(price),
	}
	s.products[id].ID = id
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	c.nextOrderID = s.nextOrderID
	for id, ok := range s.users {
		c.users[id] = ok
	}
	for id, p := range s.products {
		cp := *p
		if p.Quantity != nil {
			q := *p.Quantity
			cp.Quantity = &q
		}
		c.products[id] = &cp
	}
	for id, o := range s.orders {
		co := *o
		c.orders[id] = &co
	}
	c.orderEvents = append(c.orderEvents, s.orderEvents...)
	c.stockEvents = append(c.stockEvents, s.stockEvents...)
	return c
}

// fakeTxManager 在副本上执行事务，失败时丢弃副本模拟回滚
type fakeTxManager struct{ store *fakeStore }

func (m *fakeTxManager) RunInOrderTx(ctx context.Context, fn func(tx domain.OrderTx) error) error {
	clone := m.store.clone()
	if err := fn(&fakeTx{store: clone}); err != nil {
		return err
	}
	*m.store = *clone
	return nil
}

type fakeTx struct{ store *fakeStore }

func (t *fakeTx) UserExists(userID string) (bool, error) {
	return t.store.users[userID], nil
}

func (t *fakeTx) GetProductForUpdate(productID uint) (*catalog.Product, error) {
	p, ok := t.store.products[productID]
	if !ok {
		return nil, &domain.UnknownProductError{ProductID: productID}
	}
	return p, nil
}

func (t *fakeTx) SaveProduct(product *catalog.Product) error {
	t.store.products[product.ID] = product
	return nil
}

func (t *fakeTx) CreateOrder(order *domain.Order) error {
	order.ID = t.store.nextOrderID
	t.store.nextOrderID++
	t.store.orders[order.ID] = order
	return nil
}

func (t *fakeTx) PublishOrderCreated(event domain.OrderCreatedEvent) error {
	t.store.orderEvents = append(t.store.orderEvents, event)
	return nil
}

func (t *fakeTx) PublishStockDepleted(event domain.StockDepletedEvent) error {
	t.store.stockEvents = append(t.store.stockEvents, event)
	return nil
}

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*domain.Order, int64, error) {
	var orders []*domain.Order
	for _, o := range r.store.orders {
		orders = append(orders, o)
	}
	return orders, int64(len(orders)), nil
}

func (r *fakeOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	r.store.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := r.store.orders[id]; ok {
			delete(r.store.orders, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeOrderRepo) TotalOrderValue(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range r.store.orders {
		total = total.Add(o.TotalAmount)
	}
	return total, nil
}

func newTestService(store *fakeStore) *OrderService {
	return NewOrderService(&fakeOrderRepo{store: store}, &fakeTxManager{store: store}, nil)
}

func TestCreateOrderComputesTotalsAndDeductsStock(t *testing.T) {
	store := newFakeStore()
	store.users["cashier-1"] = true
	store.addProduct(1, "100", 10)
	store.addProduct(2, "50", 5)

	svc := newTestService(store)
	dto, err := svc.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: 7,
		UserID:     "cashier-1",
		Items: []OrderItemCommand{
			{ProductID: 1, Quantity: 3, Discount: decimal.NewFromInt(10)},
			{ProductID: 2, Quantity: 2, Discount: decimal.Zero},
		},
	})
	require.NoError(t, err)

	// 行1: 3*100 折 10% = 270，行2: 2*50 = 100；总额 370，折扣 30
	assert.True(t, dto.TotalAmount.Equal(decimal.NewFromInt(370)), "total amount: %s", dto.TotalAmount)
	assert.True(t, dto.TotalDiscount.Equal(decimal.NewFromInt(30)), "total discount: %s", dto.TotalDiscount)
	assert.True(t, dto.FinalAmount.Equal(decimal.NewFromInt(340)), "final amount: %s", dto.FinalAmount)

	assert.Equal(t, 7, store.products[1].Available())
	assert.Equal(t, 3, store.products[2].Available())
	assert.True(t, store.products[1].IsStock)

	require.Len(t, store.orderEvents, 1)
	assert.Equal(t, dto.ID, store.orderEvents[0].OrderID)
	assert.Len(t, store.orderEvents[0].Items, 2)
	assert.Empty(t, store.stockEvents)
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	store := newFakeStore()
	store.users["cashier-1"] = true
	store.addProduct(1, "100", 10)
	store.addProduct(2, "50", 5)

	svc := newTestService(store)
	_, err := svc.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: 7,
		UserID:     "cashier-1",
		Items: []OrderItemCommand{
			{ProductID: 2, Quantity: 2},
			{ProductID: 1, Quantity: 11},
		},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(1), stockErr.ProductID)
	assert.Equal(t, 11, stockErr.Requested)
	assert.Equal(t, 10, stockErr.Available)

	// 整单回滚：包括前面已通过校验的商品
	assert.Equal(t, 10, store.products[1].Available())
	assert.Equal(t, 5, store.products[2].Available())
	assert.Empty(t, store.orders)
	assert.Empty(t, store.orderEvents)
}

func TestCreateOrderUnknownUser(t *testing.T) {
	store := newFakeStore()
	store.addProduct(1, "100", 10)

	svc := newTestService(store)
	_, err := svc.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: 7,
		UserID:     "ghost",
		Items:      []OrderItemCommand{{ProductID: 1, Quantity: 1}},
	})

	require.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, 10, store.products[1].Available())
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	store := newFakeStore()
	store.users["cashier-1"] = true

	svc := newTestService(store)
	_, err := svc.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: 7,
		UserID:     "cashier-1",
		Items:      []OrderItemCommand{{ProductID: 99, Quantity: 1}},
	})

	var unknown *domain.UnknownProductError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, uint(99), unknown.ProductID)
	assert.Empty(t, store.orders)
}

func TestCreateOrderEmitsStockDepletedEvent(t *testing.T) {
	store := newFakeStore()
	store.users["cashier-1"] = true
	store.addProduct(1, "100", 3)

	svc := newTestService(store)
	_, err := svc.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: 7,
		UserID:     "cashier-1",
		Items:      []OrderItemCommand{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, store.products[1].Available())
	assert.False(t, store.products[1].IsStock)
	require.Len(t, store.stockEvents, 1)
	assert.Equal(t, uint(1), store.stockEvents[0].ProductID)
}

func TestCreateOrderRejectsOutOfRangeDiscount(t *testing.T) {
	store := newFakeStore()
	store.users["cashier-1"] = true
	store.addProduct(1, "100", 10)

	svc := newTestService(store)
	for _, discount := range []string{"150", "-20"} {
		_, err := svc.CreateOrder(context.Background(), CreateOrderCommand{
			CustomerID: 7,
			UserID:     "cashier-1",
			Items: []OrderItemCommand{
				{ProductID: 1, Quantity: 2, Discount: decimal.RequireFromString(discount)},
			},
		})

		var discountErr *domain.InvalidDiscountError
		require.ErrorAs(t, err, &discountErr, "discount %s", discount)
		assert.Equal(t, uint(1), discountErr.ProductID)
	}

	// 校验在扣库存之前，商品不受影响
	assert.Equal(t, 10, store.products[1].Available())
	assert.Empty(t, store.orders)
}

func TestCreateOrderRejectsEmptyOrder(t *testing.T) {
	store := newFakeStore()
	store.users["cashier-1"] = true

	svc := newTestService(store)
	_, err := svc.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: 7,
		UserID:     "cashier-1",
	})

	require.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestCalculateTotalOrderValue(t *testing.T) {
	store := newFakeStore()
	store.users["cashier-1"] = true
	store.addProduct(1, "100", 10)

	svc := newTestService(store)
	_, err := svc.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: 7,
		UserID:     "cashier-1",
		Items:      []OrderItemCommand{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = svc.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: 7,
		UserID:     "cashier-1",
		Items:      []OrderItemCommand{{ProductID: 1, Quantity: 1, Discount: decimal.NewFromInt(50)}},
	})
	require.NoError(t, err)

	total, err := svc.CalculateTotalOrderValue(context.Background())
	require.NoError(t, err)
	// 200 + (100 - 50) = 250
	assert.True(t, total.Equal(decimal.NewFromInt(250)), "total: %s", total)
}

func TestDeleteOrdersDoesNotRestoreStock(t *testing.T) {
	store := newFakeStore()
	store.users["cashier-1"] = true
	store.addProduct(1, "100", 10)

	svc := newTestService(store)
	dto, err := svc.CreateOrder(context.Background(), CreateOrderCommand{
		CustomerID: 7,
		UserID:     "cashier-1",
		Items:      []OrderItemCommand{{ProductID: 1, Quantity: 4}},
	})
	require.NoError(t, err)

	deleted, err := svc.DeleteOrders(context.Background(), []uint{dto.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, 6, store.products[1].Available())
}
