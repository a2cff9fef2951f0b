package mysql

import (
	"context"
	"errors"
	"strconv"

	"github.com/wyfcoding/shopsystem/internal/merchant/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
)

// 供货商列表允许的排序键
var merchantSortable = map[string]string{
	"name":                "name",
	"outstanding_balance": "outstanding_balance",
	"created_at":          "created_at",
}

type merchantRepository struct{ db *gorm.DB }

// NewMerchantRepository 创建供货商仓储
func NewMerchantRepository(db *gorm.DB) domain.MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) Save(ctx context.Context, merchant *domain.Merchant) error {
	return r.db.WithContext(ctx).Save(merchant).Error
}

func (r *merchantRepository) GetByID(ctx context.Context, id uint) (*domain.Merchant, error) {
	var merchant domain.Merchant
	err := r.db.WithContext(ctx).First(&merchant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMerchantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Merchant{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *merchantRepository) List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*domain.Merchant, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Merchant{})

	if opts.Search != "" {
		// 纯数字按 ID 精确匹配，否则按名称模糊匹配
		if id, err := strconv.ParseUint(opts.Search, 10, 64); err == nil {
			q = q.Where("id = ?", id)
		} else {
			q = q.Where("name LIKE ?", "%"+opts.Search+"%")
		}
	}
	if opts.MinAmount != nil {
		q = q.Where("outstanding_balance >= ?", opts.MinAmount)
	}
	if opts.MaxAmount != nil {
		q = q.Where("outstanding_balance <= ?", opts.MaxAmount)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if clause := query.OrderClause(opts, merchantSortable); clause != "" {
		q = q.Order(clause)
	} else {
		q = q.Order("id ASC")
	}

	var merchants []*domain.Merchant
	if err := q.Offset(page.Offset()).Limit(page.Limit()).Find(&merchants).Error; err != nil {
		return nil, 0, err
	}
	return merchants, total, nil
}

// Delete 被采购单引用的供货商不可删除
func (r *merchantRepository) Delete(ctx context.Context, id uint) error {
	var referenced int64
	err := r.db.WithContext(ctx).Table("purchases").
		Where("merchant_id = ? AND deleted_at IS NULL", id).
		Count(&referenced).Error
	if err != nil {
		return err
	}
	if referenced > 0 {
		return domain.ErrMerchantInUse
	}
	return r.db.WithContext(ctx).Delete(&domain.Merchant{}, id).Error
}
