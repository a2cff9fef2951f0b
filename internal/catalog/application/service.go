// Package application 商品目录的应用服务
package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/internal/catalog/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/query"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Name          string
	Quantity      *int
	SKU           string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	CategoryID    uint
	Status        domain.ProductStatus
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	Name          string
	Quantity      *int
	SKU           string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	CategoryID    uint
	Status        domain.ProductStatus
}

// ProductDTO 商品视图
type ProductDTO struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Quantity      *int            `json:"quantity"`
	IsStock       bool            `json:"is_stock"`
	SKU           string          `json:"sku"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Profit        decimal.Decimal `json:"profit"`
	TotalValue    decimal.Decimal `json:"total_value"`
	CategoryID    uint            `json:"category_id"`
	Status        string          `json:"status"`
}

func toProductDTO(p *domain.Product) *ProductDTO {
	return &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Quantity:      p.Quantity,
		IsStock:       p.IsStock,
		SKU:           p.SKU,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		Profit:        p.Profit(),
		TotalValue:    p.TotalValue(),
		CategoryID:    p.CategoryID,
		Status:        string(p.Status),
	}
}

// CatalogService 商品目录应用服务
type CatalogService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
}

// NewCatalogService 构造函数
func NewCatalogService(products domain.ProductRepository, categories domain.CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

// CreateProducts 批量创建商品。
// 每个商品的分类必须存在，货号必须唯一；任一校验失败则整批拒绝。
func (s *CatalogService) CreateProducts(ctx context.Context, cmds []CreateProductCommand) ([]*ProductDTO, error) {
	products := make([]*domain.Product, 0, len(cmds))

	for _, cmd := range cmds {
		ok, err := s.categories.Exists(ctx, cmd.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrCategoryNotFound
		}

		exists, err := s.products.ExistsBySKU(ctx, cmd.SKU)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.DuplicateSKUError{SKU: cmd.SKU}
		}

		status := cmd.Status
		if status == "" {
			status = domain.ProductStatusActive
		}

		product := &domain.Product{
			Name:          cmd.Name,
			Quantity:      cmd.Quantity,
			SKU:           cmd.SKU,
			PurchasePrice: cmd.PurchasePrice,
			SellingPrice:  cmd.SellingPrice,
			CategoryID:    cmd.CategoryID,
			Status:        status,
		}
		product.IsStock = product.Available() > 0
		products = append(products, product)
	}

	if err := s.products.SaveAll(ctx, products); err != nil {
		return nil, err
	}

	dtos := make([]*ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	return dtos, nil
}

// GetProduct 获取商品详情
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// ListProducts 分页列出商品
func (s *CatalogService) ListProducts(ctx context.Context, page query.PageRequest, opts query.Options) (query.PagedResult[*ProductDTO], error) {
	products, total, err := s.products.List(ctx, page, opts)
	if err != nil {
		return query.PagedResult[*ProductDTO]{}, err
	}

	dtos := make([]*ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	return query.NewPagedResult(dtos, total, page), nil
}

// ListByCategory 列出某分类下的商品
func (s *CatalogService) ListByCategory(ctx context.Context, categoryID uint) ([]*ProductDTO, error) {
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	return dtos, nil
}

// UpdateProduct 更新商品
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, cmd UpdateProductCommand) (*ProductDTO, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.SKU != "" && cmd.SKU != product.SKU {
		exists, err := s.products.ExistsBySKU(ctx, cmd.SKU)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.DuplicateSKUError{SKU: cmd.SKU}
		}
		product.SKU = cmd.SKU
	}

	if cmd.Name != "" {
		product.Name = cmd.Name
	}
	if cmd.Quantity != nil {
		product.Quantity = cmd.Quantity
		product.IsStock = product.Available() > 0
	}
	if !cmd.PurchasePrice.IsZero() {
		product.PurchasePrice = cmd.PurchasePrice
	}
	if !cmd.SellingPrice.IsZero() {
		product.SellingPrice = cmd.SellingPrice
	}
	if cmd.CategoryID != 0 {
		ok, err := s.categories.Exists(ctx, cmd.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrCategoryNotFound
		}
		product.CategoryID = cmd.CategoryID
	}
	if cmd.Status != "" {
		product.Status = cmd.Status
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// DeleteProducts 批量删除商品，返回删除条数
func (s *CatalogService) DeleteProducts(ctx context.Context, ids []uint) (int64, error) {
	deleted, err := s.products.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "Products deleted", "count", deleted)
	return deleted, nil
}

// AdjustStock 调整商品库存（入库为正、出库为负），同步 IsStock
func (s *CatalogService) AdjustStock(ctx context.Context, productID uint, delta int) (*ProductDTO, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.AdjustStock(delta)

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// GetAvailableStock 获取商品可售库存
func (s *CatalogService) GetAvailableStock(ctx context.Context, productID uint) (*int, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return product.Quantity, nil
}

// CreateCategory 创建分类
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	category := &domain.Category{Name: name}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories 列出全部分类
func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// DeleteCategory 删除分类（级联删除其商品）
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}
