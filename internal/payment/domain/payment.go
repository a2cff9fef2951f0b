// Package domain 客户收款领域模型
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	customerdomain "github.com/wyfcoding/shopsystem/internal/customer/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
)

// ErrPaymentNotFound 收款记录不存在
var ErrPaymentNotFound = errors.New("payment not found")

// Payment 收款记录
// 创建收款会在同一事务内抵扣客户挂账
type Payment struct {
	gorm.Model
	CustomerID uint                     `gorm:"column:customer_id;index;not null" json:"customer_id"`
	Customer   *customerdomain.Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Amount     decimal.Decimal          `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	// 收款日期
	Date time.Time `gorm:"column:date;not null" json:"date"`
	Info string    `gorm:"column:info;type:varchar(255)" json:"info"`
}

func (Payment) TableName() string { return "payments" }

// PaymentRepository 收款仓储接口
type PaymentRepository interface {
	// 创建收款并在同一事务内抵扣客户挂账
	CreateAndSettle(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*Payment, int64, error)
	Delete(ctx context.Context, id uint) error
}
