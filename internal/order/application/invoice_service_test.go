package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalog "github.com/wyfcoding/shopsystem/internal/catalog/domain"
	"github.com/wyfcoding/shopsystem/internal/order/domain"
	"github.com/wyfcoding/shopsystem/pkg/config"
)

type fakeCustomerReader struct{ names map[uint]string }

func (r *fakeCustomerReader) CustomerName(ctx context.Context, id uint) (string, error) {
	return r.names[id], nil
}

type fakeUserReader struct{ names map[string]string }

func (r *fakeUserReader) UserName(ctx context.Context, id string) (string, error) {
	return r.names[id], nil
}

type fakeProductReader struct{ products map[uint]*catalog.Product }

func (r *fakeProductReader) ProductsByIDs(ctx context.Context, ids []uint) (map[uint]*catalog.Product, error) {
	result := map[uint]*catalog.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func invoiceFixture() (*fakeStore, *fakeCustomerReader, *fakeUserReader, *fakeProductReader) {
	store := newFakeStore()
	order := &domain.Order{
		OrderDate:     time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		CustomerID:    7,
		UserID:        "cashier-1",
		TotalAmount:   decimal.NewFromInt(370),
		TotalDiscount: decimal.NewFromInt(30),
		Items: []domain.OrderItem{
			{ProductID: 1, Quantity: 3, Discount: decimal.NewFromInt(10)},
			{ProductID: 2, Quantity: 2, Discount: decimal.Zero},
		},
	}
	order.ID = 1
	store.orders[1] = order

	p1 := &catalog.Product{Name: "Widget", SellingPrice: decimal.NewFromInt(100)}
	p1.ID = 1
	p2 := &catalog.Product{Name: "Gadget", SellingPrice: decimal.NewFromInt(50)}
	p2.ID = 2

	return store,
		&fakeCustomerReader{names: map[uint]string{7: "Alice"}},
		&fakeUserReader{names: map[string]string{"cashier-1": "bob"}},
		&fakeProductReader{products: map[uint]*catalog.Product{1: p1, 2: p2}}
}

func newInvoiceService(store *fakeStore, c *fakeCustomerReader, u *fakeUserReader, p *fakeProductReader) *InvoiceService {
	cfg := config.InvoiceConfig{StoreName: "Ziad Store", StoreAddress: "Main St 1", StorePhone: "555-0101"}
	return NewInvoiceService(&fakeOrderRepo{store: store}, c, u, p, nil, nil, cfg, nil)
}

func TestBuildInvoiceProjectsOrder(t *testing.T) {
	svc := newInvoiceService(invoiceFixture())

	invoice, err := svc.BuildInvoice(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, uint(1), invoice.OrderID)
	assert.Equal(t, "Alice", invoice.CustomerName)
	assert.Equal(t, "bob", invoice.CashierName)
	assert.Equal(t, "Ziad Store", invoice.StoreName)
	require.Len(t, invoice.Lines, 2)

	assert.Equal(t, "Widget", invoice.Lines[0].ProductName)
	assert.True(t, invoice.Lines[0].Subtotal.Equal(decimal.NewFromInt(270)))
	assert.True(t, invoice.Lines[1].Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(370)))
	assert.True(t, invoice.TotalDiscount.Equal(decimal.NewFromInt(30)))
	assert.True(t, invoice.FinalAmount.Equal(decimal.NewFromInt(340)))
}

func TestBuildInvoiceUsesCurrentSellingPrice(t *testing.T) {
	store, customers, users, products := invoiceFixture()
	// 下单后涨价，行小计按当前售价重算
	products.products[1].SellingPrice = decimal.NewFromInt(120)
	svc := newInvoiceService(store, customers, users, products)

	invoice, err := svc.BuildInvoice(context.Background(), 1)
	require.NoError(t, err)

	// 3*120 折 10% 后 324
	assert.True(t, invoice.Lines[0].UnitPrice.Equal(decimal.NewFromInt(120)))
	assert.True(t, invoice.Lines[0].Subtotal.Equal(decimal.NewFromInt(324)))
	// 总额与折扣仍取下单时落库金额
	assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(370)))
	assert.True(t, invoice.FinalAmount.Equal(decimal.NewFromInt(340)))
}

func TestBuildInvoiceDegradesToPlaceholders(t *testing.T) {
	store, _, _, _ := invoiceFixture()
	svc := newInvoiceService(store,
		&fakeCustomerReader{names: map[uint]string{}},
		&fakeUserReader{names: map[string]string{}},
		&fakeProductReader{products: map[uint]*catalog.Product{}},
	)

	invoice, err := svc.BuildInvoice(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, domain.UnknownCustomerName, invoice.CustomerName)
	assert.Equal(t, domain.UnknownUserName, invoice.CashierName)
	for _, line := range invoice.Lines {
		assert.Equal(t, domain.UnknownProductName, line.ProductName)
		assert.True(t, line.Subtotal.IsZero())
	}
	// 总额取订单落库金额，不受缺失商品影响
	assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(370)))
}

func TestBuildInvoiceIsIdempotent(t *testing.T) {
	svc := newInvoiceService(invoiceFixture())

	first, err := svc.BuildInvoice(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.BuildInvoice(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildInvoiceUnknownOrder(t *testing.T) {
	svc := newInvoiceService(invoiceFixture())

	_, err := svc.BuildInvoice(context.Background(), 999)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}
