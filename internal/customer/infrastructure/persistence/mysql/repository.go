package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/shopsystem/internal/customer/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
)

// 客户列表允许的排序键
var customerSortable = map[string]string{
	"name":       "name",
	"money_owed": "money_owed",
	"created_at": "created_at",
}

type customerRepository struct{ db *gorm.DB }

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*domain.Customer, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Customer{})

	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.Where("name LIKE ? OR phone LIKE ?", pattern, pattern)
	}
	if opts.MinAmount != nil {
		q = q.Where("money_owed >= ?", opts.MinAmount)
	}
	if opts.MaxAmount != nil {
		q = q.Where("money_owed <= ?", opts.MaxAmount)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if clause := query.OrderClause(opts, customerSortable); clause != "" {
		q = q.Order(clause)
	} else {
		q = q.Order("id ASC")
	}

	var customers []*domain.Customer
	if err := q.Offset(page.Offset()).Limit(page.Limit()).Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *customerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Customer{}, id).Error
}
