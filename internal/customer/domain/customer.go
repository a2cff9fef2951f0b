// Package domain 客户领域模型
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
)

// ErrCustomerNotFound 客户不存在
var ErrCustomerNotFound = errors.New("customer not found")

// Customer 客户实体
// MoneyOwed 为客户的挂账余额，NULL 表示无挂账记录
type Customer struct {
	gorm.Model
	Name      string              `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Phone     string              `gorm:"column:phone;type:varchar(32)" json:"phone"`
	MoneyOwed decimal.NullDecimal `gorm:"column:money_owed;type:decimal(12,2)" json:"money_owed"`
}

func (Customer) TableName() string { return "customers" }

// Owed 挂账余额，NULL 视作 0
func (c *Customer) Owed() decimal.Decimal {
	if !c.MoneyOwed.Valid {
		return decimal.Zero
	}
	return c.MoneyOwed.Decimal
}

// ApplyPayment 收款抵扣挂账。余额不会降到 0 以下。
func (c *Customer) ApplyPayment(amount decimal.Decimal) {
	owed := c.Owed().Sub(amount)
	if owed.IsNegative() {
		owed = decimal.Zero
	}
	c.MoneyOwed = decimal.NewNullDecimal(owed)
}

// AddDebt 增加挂账
func (c *Customer) AddDebt(amount decimal.Decimal) {
	c.MoneyOwed = decimal.NewNullDecimal(c.Owed().Add(amount))
}

// CustomerRepository 客户仓储接口
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	GetByID(ctx context.Context, id uint) (*Customer, error)
	List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*Customer, int64, error)
	Delete(ctx context.Context, id uint) error
}
