package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/shopsystem/internal/catalog/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
)

type fakeProductRepo struct {
	products map[uint]*domain.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint]*domain.Product{}, nextID: 1}
}

func (r *fakeProductRepo) SaveAll(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		if p.ID == 0 {
			p.ID = r.nextID
			r.nextID++
		}
		r.products[p.ID] = p
	}
	return nil
}

func (r *fakeProductRepo) Save(ctx context.Context, product *domain.Product) error {
	return r.SaveAll(ctx, []*domain.Product{product})
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*domain.Product, int64, error) {
	var products []*domain.Product
	for _, p := range r.products {
		products = append(products, p)
	}
	return products, int64(len(products)), nil
}

func (r *fakeProductRepo) ListByCategory(ctx context.Context, categoryID uint) ([]*domain.Product, error) {
	var products []*domain.Product
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := r.products[id]; ok {
			delete(r.products, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeCategoryRepo struct{ categories map[uint]*domain.Category }

func (r *fakeCategoryRepo) Save(ctx context.Context, category *domain.Category) error {
	if category.ID == 0 {
		category.ID = uint(len(r.categories) + 1)
	}
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := r.categories[id]
	return ok, nil
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id uint) error {
	delete(r.categories, id)
	return nil
}

func newTestCatalog() (*CatalogService, *fakeProductRepo, *fakeCategoryRepo) {
	products := newFakeProductRepo()
	categories := &fakeCategoryRepo{categories: map[uint]*domain.Category{}}
	category := &domain.Category{Name: "Electronics"}
	category.ID = 1
	categories.categories[1] = category
	return NewCatalogService(products, categories), products, categories
}

func intPtr(n int) *int { return &n }

func TestCreateProducts(t *testing.T) {
	svc, _, _ := newTestCatalog()

	dtos, err := svc.CreateProducts(context.Background(), []CreateProductCommand{
		{
			Name:          "Widget",
			Quantity:      intPtr(5),
			SKU:           "W-001",
			PurchasePrice: decimal.NewFromInt(60),
			SellingPrice:  decimal.NewFromInt(100),
			CategoryID:    1,
		},
	})
	require.NoError(t, err)
	require.Len(t, dtos, 1)

	assert.True(t, dtos[0].IsStock)
	assert.Equal(t, string(domain.ProductStatusActive), dtos[0].Status)
	assert.True(t, dtos[0].Profit.Equal(decimal.NewFromInt(40)))
	assert.True(t, dtos[0].TotalValue.Equal(decimal.NewFromInt(300)))
}

func TestCreateProductsRejectsDuplicateSKU(t *testing.T) {
	svc, _, _ := newTestCatalog()

	cmd := CreateProductCommand{Name: "Widget", SKU: "W-001", CategoryID: 1}
	_, err := svc.CreateProducts(context.Background(), []CreateProductCommand{cmd})
	require.NoError(t, err)

	_, err = svc.CreateProducts(context.Background(), []CreateProductCommand{cmd})
	var dup *domain.DuplicateSKUError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "W-001", dup.SKU)
}

func TestCreateProductsRejectsUnknownCategory(t *testing.T) {
	svc, products, _ := newTestCatalog()

	_, err := svc.CreateProducts(context.Background(), []CreateProductCommand{
		{Name: "Widget", SKU: "W-001", CategoryID: 42},
	})
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
	assert.Empty(t, products.products)
}

func TestAdjustStockClampsAtZero(t *testing.T) {
	svc, products, _ := newTestCatalog()
	p := &domain.Product{Name: "Widget", SKU: "W-001", CategoryID: 1, Quantity: intPtr(3), IsStock: true}
	require.NoError(t, products.Save(context.Background(), p))

	dto, err := svc.AdjustStock(context.Background(), p.ID, -10)
	require.NoError(t, err)
	require.NotNil(t, dto.Quantity)
	assert.Equal(t, 0, *dto.Quantity)
	assert.False(t, dto.IsStock)

	dto, err = svc.AdjustStock(context.Background(), p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, *dto.Quantity)
	assert.True(t, dto.IsStock)
}

func TestGetAvailableStockUnknownProduct(t *testing.T) {
	svc, _, _ := newTestCatalog()

	_, err := svc.GetAvailableStock(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateProductChecksNewSKU(t *testing.T) {
	svc, products, _ := newTestCatalog()
	a := &domain.Product{Name: "A", SKU: "A-1", CategoryID: 1}
	b := &domain.Product{Name: "B", SKU: "B-1", CategoryID: 1}
	require.NoError(t, products.SaveAll(context.Background(), []*domain.Product{a, b}))

	_, err := svc.UpdateProduct(context.Background(), b.ID, UpdateProductCommand{SKU: "A-1"})
	var dup *domain.DuplicateSKUError
	require.ErrorAs(t, err, &dup)

	dto, err := svc.UpdateProduct(context.Background(), b.ID, UpdateProductCommand{SKU: "B-2"})
	require.NoError(t, err)
	assert.Equal(t, "B-2", dto.SKU)
}
