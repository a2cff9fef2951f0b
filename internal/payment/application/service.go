// Package application 客户收款的应用服务
package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/internal/payment/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/query"
)

// CreatePaymentCommand 创建收款命令
type CreatePaymentCommand struct {
	CustomerID uint
	Amount     decimal.Decimal
	Date       time.Time
	Info       string
}

// PaymentService 收款应用服务
type PaymentService struct {
	payments domain.PaymentRepository
}

// NewPaymentService 构造函数
func NewPaymentService(payments domain.PaymentRepository) *PaymentService {
	return &PaymentService{payments: payments}
}

// Create 创建收款并抵扣客户挂账
func (s *PaymentService) Create(ctx context.Context, cmd CreatePaymentCommand) (*domain.Payment, error) {
	date := cmd.Date
	if date.IsZero() {
		date = time.Now()
	}

	payment := &domain.Payment{
		CustomerID: cmd.CustomerID,
		Amount:     cmd.Amount,
		Date:       date,
		Info:       cmd.Info,
	}

	if err := s.payments.CreateAndSettle(ctx, payment); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Payment recorded",
		"payment_id", payment.ID, "customer_id", payment.CustomerID, "amount", payment.Amount.String())
	return payment, nil
}

// Get 获取收款记录
func (s *PaymentService) Get(ctx context.Context, id uint) (*domain.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// List 分页列出收款记录
func (s *PaymentService) List(ctx context.Context, page query.PageRequest, opts query.Options) (query.PagedResult[*domain.Payment], error) {
	payments, total, err := s.payments.List(ctx, page, opts)
	if err != nil {
		return query.PagedResult[*domain.Payment]{}, err
	}
	return query.NewPagedResult(payments, total, page), nil
}

// Delete 删除收款记录
func (s *PaymentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.payments.GetByID(ctx, id); err != nil {
		return err
	}
	return s.payments.Delete(ctx, id)
}
