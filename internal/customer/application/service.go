// Package application 客户管理的应用服务
package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/internal/customer/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
)

// CustomerCommand 创建/更新客户命令
type CustomerCommand struct {
	Name      string
	Phone     string
	MoneyOwed *decimal.Decimal
}

// CustomerService 客户应用服务
type CustomerService struct {
	customers domain.CustomerRepository
}

// NewCustomerService 构造函数
func NewCustomerService(customers domain.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// Create 创建客户
func (s *CustomerService) Create(ctx context.Context, cmd CustomerCommand) (*domain.Customer, error) {
	customer := &domain.Customer{
		Name:  cmd.Name,
		Phone: cmd.Phone,
	}
	if cmd.MoneyOwed != nil {
		customer.MoneyOwed = decimal.NewNullDecimal(*cmd.MoneyOwed)
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Get 获取客户
func (s *CustomerService) Get(ctx context.Context, id uint) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// List 分页列出客户
func (s *CustomerService) List(ctx context.Context, page query.PageRequest, opts query.Options) (query.PagedResult[*domain.Customer], error) {
	customers, total, err := s.customers.List(ctx, page, opts)
	if err != nil {
		return query.PagedResult[*domain.Customer]{}, err
	}
	return query.NewPagedResult(customers, total, page), nil
}

// Update 更新客户
func (s *CustomerService) Update(ctx context.Context, id uint, cmd CustomerCommand) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != "" {
		customer.Name = cmd.Name
	}
	if cmd.Phone != "" {
		customer.Phone = cmd.Phone
	}
	if cmd.MoneyOwed != nil {
		customer.MoneyOwed = decimal.NewNullDecimal(*cmd.MoneyOwed)
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete 删除客户
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	if _, err := s.customers.GetByID(ctx, id); err != nil {
		return err
	}
	return s.customers.Delete(ctx, id)
}
