// Package application 供货商管理的应用服务
package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/internal/merchant/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
)

// MerchantCommand 创建/更新供货商命令
type MerchantCommand struct {
	Name               string
	Phone              string
	Address            string
	OutstandingBalance *decimal.Decimal
}

// MerchantService 供货商应用服务
type MerchantService struct {
	merchants domain.MerchantRepository
}

// NewMerchantService 构造函数
func NewMerchantService(merchants domain.MerchantRepository) *MerchantService {
	return &MerchantService{merchants: merchants}
}

// Create 创建供货商
func (s *MerchantService) Create(ctx context.Context, cmd MerchantCommand) (*domain.Merchant, error) {
	merchant := &domain.Merchant{
		Name:    cmd.Name,
		Phone:   cmd.Phone,
		Address: cmd.Address,
	}
	if cmd.OutstandingBalance != nil {
		merchant.OutstandingBalance = decimal.NewNullDecimal(*cmd.OutstandingBalance)
	}
	if err := s.merchants.Save(ctx, merchant); err != nil {
		return nil, err
	}
	return merchant, nil
}

// Get 获取供货商
func (s *MerchantService) Get(ctx context.Context, id uint) (*domain.Merchant, error) {
	return s.merchants.GetByID(ctx, id)
}

// List 分页列出供货商
func (s *MerchantService) List(ctx context.Context, page query.PageRequest, opts query.Options) (query.PagedResult[*domain.Merchant], error) {
	merchants, total, err := s.merchants.List(ctx, page, opts)
	if err != nil {
		return query.PagedResult[*domain.Merchant]{}, err
	}
	return query.NewPagedResult(merchants, total, page), nil
}

// Update 更新供货商
func (s *MerchantService) Update(ctx context.Context, id uint, cmd MerchantCommand) (*domain.Merchant, error) {
	merchant, err := s.merchants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != "" {
		merchant.Name = cmd.Name
	}
	if cmd.Phone != "" {
		merchant.Phone = cmd.Phone
	}
	if cmd.Address != "" {
		merchant.Address = cmd.Address
	}
	if cmd.OutstandingBalance != nil {
		merchant.OutstandingBalance = decimal.NewNullDecimal(*cmd.OutstandingBalance)
	}

	if err := s.merchants.Save(ctx, merchant); err != nil {
		return nil, err
	}
	return merchant, nil
}

// Delete 删除供货商。有采购单引用时由外键 RESTRICT 拒绝。
func (s *MerchantService) Delete(ctx context.Context, id uint) error {
	if _, err := s.merchants.GetByID(ctx, id); err != nil {
		return err
	}
	return s.merchants.Delete(ctx, id)
}
