// Package domain 供货商领域模型
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
)

// ErrMerchantNotFound 供货商不存在
var ErrMerchantNotFound = errors.New("merchant not found")

// ErrMerchantInUse 供货商仍被采购单引用，不可删除
var ErrMerchantInUse = errors.New("merchant is referenced by purchases")

// Merchant 供货商实体
// OutstandingBalance 为应付未付余额，NULL 表示无欠款记录
type Merchant struct {
	gorm.Model
	Name               string              `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Phone              string              `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Address            string              `gorm:"column:address;type:varchar(255)" json:"address"`
	OutstandingBalance decimal.NullDecimal `gorm:"column:outstanding_balance;type:decimal(12,2)" json:"outstanding_balance"`
}

func (Merchant) TableName() string { return "merchants" }

// Balance 应付余额，NULL 视作 0
func (m *Merchant) Balance() decimal.Decimal {
	if !m.OutstandingBalance.Valid {
		return decimal.Zero
	}
	return m.OutstandingBalance.Decimal
}

// MerchantRepository 供货商仓储接口
type MerchantRepository interface {
	Save(ctx context.Context, merchant *Merchant) error
	GetByID(ctx context.Context, id uint) (*Merchant, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*Merchant, int64, error)
	Delete(ctx context.Context, id uint) error
}
