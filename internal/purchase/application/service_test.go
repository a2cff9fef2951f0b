package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	merchantdomain "github.com/wyfcoding/shopsystem/internal/merchant/domain"
	"github.com/wyfcoding/shopsystem/internal/purchase/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
)

var errStockUnavailable = errors.New("stock backfill failed")

type fakePurchaseRepo struct {
	purchases map[uint]*domain.Purchase
	nextID    uint
	received  map[string]int
	// 模拟回填该货号库存时事务失败
	failSKU string
}

// CreateAndReceive 模拟同事务落库加回填：任一明细失败则整体不落库
func (r *fakePurchaseRepo) CreateAndReceive(ctx context.Context, purchase *domain.Purchase) error {
	for _, item := range purchase.Items {
		if item.SKU != "" && item.SKU == r.failSKU {
			return errStockUnavailable
		}
	}
	if err := r.Save(ctx, purchase); err != nil {
		return err
	}
	for _, item := range purchase.Items {
		if item.SKU != "" {
			r.received[item.SKU] += item.Quantity
		}
	}
	return nil
}

func (r *fakePurchaseRepo) Save(ctx context.Context, purchase *domain.Purchase) error {
	if purchase.ID == 0 {
		purchase.ID = r.nextID
		r.nextID++
	}
	r.purchases[purchase.ID] = purchase
	return nil
}

func (r *fakePurchaseRepo) GetByID(ctx context.Context, id uint) (*domain.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	return p, nil
}

func (r *fakePurchaseRepo) List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*domain.Purchase, int64, error) {
	var purchases []*domain.Purchase
	for _, p := range r.purchases {
		purchases = append(purchases, p)
	}
	return purchases, int64(len(purchases)), nil
}

func (r *fakePurchaseRepo) Delete(ctx context.Context, id uint) error {
	delete(r.purchases, id)
	return nil
}

type fakeMerchantRepo struct{ ids map[uint]bool }

func (r *fakeMerchantRepo) Save(ctx context.Context, merchant *merchantdomain.Merchant) error { return nil }
func (r *fakeMerchantRepo) GetByID(ctx context.Context, id uint) (*merchantdomain.Merchant, error) {
	if !r.ids[id] {
		return nil, merchantdomain.ErrMerchantNotFound
	}
	return &merchantdomain.Merchant{}, nil
}
func (r *fakeMerchantRepo) Exists(ctx context.Context, id uint) (bool, error) {
	return r.ids[id], nil
}
func (r *fakeMerchantRepo) List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*merchantdomain.Merchant, int64, error) {
	return nil, 0, nil
}
func (r *fakeMerchantRepo) Delete(ctx context.Context, id uint) error { return nil }

func newTestPurchase() (*PurchaseService, *fakePurchaseRepo) {
	repo := &fakePurchaseRepo{
		purchases: map[uint]*domain.Purchase{},
		nextID:    1,
		received:  map[string]int{},
	}
	merchants := &fakeMerchantRepo{ids: map[uint]bool{1: true}}
	return NewPurchaseService(repo, merchants), repo
}

func TestCreatePurchaseComputesTotalAndReceivesStock(t *testing.T) {
	svc, repo := newTestPurchase()

	purchase, err := svc.Create(context.Background(), CreatePurchaseCommand{
		MerchantID: 1,
		Notes:      "monthly restock",
		Items: []PurchaseItemCommand{
			{ProductName: "Widget", Quantity: 10, PricePerUnit: decimal.NewFromInt(6), SKU: "W-001"},
			{ProductName: "Loose part", Quantity: 4, PricePerUnit: decimal.RequireFromString("2.50")},
		},
	})
	require.NoError(t, err)

	require.True(t, purchase.TotalAmount.Valid)
	assert.True(t, purchase.TotalAmount.Decimal.Equal(decimal.NewFromInt(70)))
	assert.False(t, purchase.OrderDate.IsZero())

	// 只有带货号的明细回填库存
	assert.Equal(t, map[string]int{"W-001": 10}, repo.received)
}

func TestCreatePurchaseStockFailureLeavesNothingBehind(t *testing.T) {
	svc, repo := newTestPurchase()
	repo.failSKU = "W-002"

	_, err := svc.Create(context.Background(), CreatePurchaseCommand{
		MerchantID: 1,
		Items: []PurchaseItemCommand{
			{ProductName: "Widget", Quantity: 10, PricePerUnit: decimal.NewFromInt(6), SKU: "W-001"},
			{ProductName: "Gadget", Quantity: 5, PricePerUnit: decimal.NewFromInt(4), SKU: "W-002"},
		},
	})

	require.ErrorIs(t, err, errStockUnavailable)
	// 落库与回填同一事务：失败时既无采购单也无库存变化
	assert.Empty(t, repo.purchases)
	assert.Empty(t, repo.received)
}

func TestCreatePurchaseRejectsUnknownMerchant(t *testing.T) {
	svc, repo := newTestPurchase()

	_, err := svc.Create(context.Background(), CreatePurchaseCommand{
		MerchantID: 42,
		Items:      []PurchaseItemCommand{{ProductName: "Widget", Quantity: 1}},
	})

	require.ErrorIs(t, err, merchantdomain.ErrMerchantNotFound)
	assert.Empty(t, repo.purchases)
	assert.Empty(t, repo.received)
}
