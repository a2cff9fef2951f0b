// Package application 进货采购的应用服务
package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	merchantdomain "github.com/wyfcoding/shopsystem/internal/merchant/domain"
	"github.com/wyfcoding/shopsystem/internal/purchase/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/query"
)

// PurchaseItemCommand 采购明细命令
type PurchaseItemCommand struct {
	ProductName  string
	Quantity     int
	PricePerUnit decimal.Decimal
	SKU          string
}

// CreatePurchaseCommand 创建采购单命令
type CreatePurchaseCommand struct {
	MerchantID uint
	OrderDate  time.Time
	Notes      string
	Items      []PurchaseItemCommand
}

// PurchaseService 采购应用服务
type PurchaseService struct {
	purchases domain.PurchaseRepository
	merchants merchantdomain.MerchantRepository
}

// NewPurchaseService 构造函数
func NewPurchaseService(purchases domain.PurchaseRepository, merchants merchantdomain.MerchantRepository) *PurchaseService {
	return &PurchaseService{purchases: purchases, merchants: merchants}
}

// Create 创建采购单。
// 总额由明细汇总；落库与带货号明细的库存回填在同一事务内完成。
func (s *PurchaseService) Create(ctx context.Context, cmd CreatePurchaseCommand) (*domain.Purchase, error) {
	ok, err := s.merchants.Exists(ctx, cmd.MerchantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, merchantdomain.ErrMerchantNotFound
	}

	orderDate := cmd.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	purchase := &domain.Purchase{
		MerchantID: cmd.MerchantID,
		OrderDate:  orderDate,
		Notes:      cmd.Notes,
	}
	for _, item := range cmd.Items {
		purchase.Items = append(purchase.Items, domain.PurchaseItem{
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
			SKU:          item.SKU,
		})
	}
	purchase.Recalculate()

	if err := s.purchases.CreateAndReceive(ctx, purchase); err != nil {
		logger.Error(ctx, "Failed to create purchase", "merchant_id", cmd.MerchantID, "error", err)
		return nil, err
	}

	logger.Info(ctx, "Purchase created",
		"purchase_id", purchase.ID, "merchant_id", purchase.MerchantID,
		"total_amount", purchase.TotalAmount.Decimal.String())
	return purchase, nil
}

// Get 获取采购单
func (s *PurchaseService) Get(ctx context.Context, id uint) (*domain.Purchase, error) {
	return s.purchases.GetByID(ctx, id)
}

// List 分页列出采购单
func (s *PurchaseService) List(ctx context.Context, page query.PageRequest, opts query.Options) (query.PagedResult[*domain.Purchase], error) {
	purchases, total, err := s.purchases.List(ctx, page, opts)
	if err != nil {
		return query.PagedResult[*domain.Purchase]{}, err
	}
	return query.NewPagedResult(purchases, total, page), nil
}

// UpdateNotes 更新采购备注
func (s *PurchaseService) UpdateNotes(ctx context.Context, id uint, notes string) (*domain.Purchase, error) {
	purchase, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	purchase.Notes = notes
	if err := s.purchases.Save(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// Delete 删除采购单（级联删除明细）
func (s *PurchaseService) Delete(ctx context.Context, id uint) error {
	if _, err := s.purchases.GetByID(ctx, id); err != nil {
		return err
	}
	return s.purchases.Delete(ctx, id)
}
