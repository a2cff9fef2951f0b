package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/shopsystem/internal/catalog/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
)

// 商品列表允许的排序键
var productSortable = map[string]string{
	"name":           "name",
	"sku":            "sku",
	"quantity":       "quantity",
	"purchase_price": "purchase_price",
	"selling_price":  "selling_price",
	"created_at":     "created_at",
}

type productRepository struct{ db *gorm.DB }

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) SaveAll(ctx context.Context, products []*domain.Product) error {
	return r.db.WithContext(ctx).Create(products).Error
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("sku = ?", sku).Count(&count).Error
	return count > 0, err
}

func (r *productRepository) List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*domain.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{})

	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.Where("name LIKE ? OR sku LIKE ?", pattern, pattern)
	}
	if opts.MinAmount != nil {
		q = q.Where("purchase_price >= ?", opts.MinAmount)
	}
	if opts.MaxAmount != nil {
		q = q.Where("purchase_price <= ?", opts.MaxAmount)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if clause := query.OrderClause(opts, productSortable); clause != "" {
		q = q.Order(clause)
	} else {
		q = q.Order("id ASC")
	}

	var products []*domain.Product
	if err := q.Offset(page.Offset()).Limit(page.Limit()).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) ListByCategory(ctx context.Context, categoryID uint) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Find(&products).Error
	return products, err
}

func (r *productRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, ids)
	return res.RowsAffected, res.Error
}

type categoryRepository struct{ db *gorm.DB }

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Save(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Category{}, id).Error
}
