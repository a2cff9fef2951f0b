package mysql

import (
	"context"
	"errors"

	catalog "github.com/wyfcoding/shopsystem/internal/catalog/domain"
	"github.com/wyfcoding/shopsystem/internal/purchase/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
)

// 采购列表允许的排序键
var purchaseSortable = map[string]string{
	"order_date":   "purchases.order_date",
	"total_amount": "purchases.total_amount",
	"created_at":   "purchases.created_at",
}

type purchaseRepository struct{ db *gorm.DB }

// NewPurchaseRepository 创建采购仓储
func NewPurchaseRepository(db *gorm.DB) domain.PurchaseRepository {
	return &purchaseRepository{db: db}
}

// CreateAndReceive 采购单落库并按货号回填商品库存，任一环节失败整体回滚
func (r *purchaseRepository) CreateAndReceive(ctx context.Context, purchase *domain.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}
		for _, item := range purchase.Items {
			if item.SKU == "" {
				continue
			}
			if err := receiveStock(tx, item.SKU, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *purchaseRepository) Save(ctx context.Context, purchase *domain.Purchase) error {
	return r.db.WithContext(ctx).Save(purchase).Error
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uint) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := r.db.WithContext(ctx).Preload("Items").Preload("Merchant").First(&purchase, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*domain.Purchase, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Purchase{})

	if opts.Name != "" {
		// 按供货商名称过滤
		q = q.Joins("JOIN merchants ON merchants.id = purchases.merchant_id").
			Where("merchants.name LIKE ?", "%"+opts.Name+"%")
	}
	if opts.Search != "" {
		q = q.Where("purchases.notes LIKE ?", "%"+opts.Search+"%")
	}
	if opts.MinAmount != nil {
		q = q.Where("purchases.total_amount >= ?", opts.MinAmount)
	}
	if opts.MaxAmount != nil {
		q = q.Where("purchases.total_amount <= ?", opts.MaxAmount)
	}
	if opts.StartDate != nil {
		q = q.Where("purchases.order_date >= ?", opts.StartDate)
	}
	if opts.EndDate != nil {
		q = q.Where("purchases.order_date <= ?", opts.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if clause := query.OrderClause(opts, purchaseSortable); clause != "" {
		q = q.Order(clause)
	} else {
		q = q.Order("purchases.order_date DESC")
	}

	var purchases []*domain.Purchase
	if err := q.Preload("Items").Preload("Merchant").Offset(page.Offset()).Limit(page.Limit()).Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

func (r *purchaseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&domain.Purchase{Model: gorm.Model{ID: id}}).Error
}

// receiveStock 按货号增加库存并同步 IsStock；货号未建档时静默跳过
func receiveStock(tx *gorm.DB, sku string, quantity int) error {
	var product catalog.Product
	err := tx.Where("sku = ?", sku).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	product.AdjustStock(quantity)
	return tx.Save(&product).Error
}
