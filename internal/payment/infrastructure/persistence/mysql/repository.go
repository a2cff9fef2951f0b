package mysql

import (
	"context"
	"errors"

	customerdomain "github.com/wyfcoding/shopsystem/internal/customer/domain"
	"github.com/wyfcoding/shopsystem/internal/payment/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
)

// 收款列表允许的排序键
var paymentSortable = map[string]string{
	"amount":     "payments.amount",
	"date":       "payments.date",
	"created_at": "payments.created_at",
}

type paymentRepository struct{ db *gorm.DB }

// NewPaymentRepository 创建收款仓储
func NewPaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return &paymentRepository{db: db}
}

// CreateAndSettle 创建收款并在同一事务内抵扣客户挂账
func (r *paymentRepository) CreateAndSettle(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer customerdomain.Customer
		err := tx.First(&customer, payment.CustomerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return customerdomain.ErrCustomerNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		customer.ApplyPayment(payment.Amount)
		return tx.Save(&customer).Error
	})
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).Preload("Customer").First(&payment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*domain.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Payment{})

	if opts.Name != "" {
		// 按客户名称过滤
		q = q.Joins("JOIN customers ON customers.id = payments.customer_id").
			Where("customers.name LIKE ?", "%"+opts.Name+"%")
	}
	if opts.MinAmount != nil {
		q = q.Where("payments.amount >= ?", opts.MinAmount)
	}
	if opts.MaxAmount != nil {
		q = q.Where("payments.amount <= ?", opts.MaxAmount)
	}
	if opts.StartDate != nil {
		q = q.Where("payments.date >= ?", opts.StartDate)
	}
	if opts.EndDate != nil {
		q = q.Where("payments.date <= ?", opts.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if clause := query.OrderClause(opts, paymentSortable); clause != "" {
		q = q.Order(clause)
	} else {
		q = q.Order("payments.date DESC")
	}

	var payments []*domain.Payment
	if err := q.Preload("Customer").Offset(page.Offset()).Limit(page.Limit()).Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Payment{}, id).Error
}
