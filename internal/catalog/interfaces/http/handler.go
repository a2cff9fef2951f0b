// Package http 商品目录的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/internal/catalog/application"
	"github.com/wyfcoding/shopsystem/internal/catalog/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"github.com/wyfcoding/shopsystem/pkg/response"
)

// CatalogHandler HTTP 处理器
// 负责处理商品与分类相关的 HTTP 请求
type CatalogHandler struct {
	svc *application.CatalogService
}

// 创建 HTTP 处理器实例
func NewCatalogHandler(svc *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.POST("", h.CreateProducts)               // 批量创建商品
		products.GET("", h.ListProducts)                  // 分页列出商品
		products.GET("/:id", h.GetProduct)                // 获取商品详情
		products.PUT("/:id", h.UpdateProduct)             // 更新商品
		products.DELETE("", h.DeleteProducts)             // 批量删除商品
		products.POST("/:id/stock", h.AdjustStock)        // 调整库存
		products.GET("/:id/stock", h.GetAvailableStock)   // 查询可售库存
	}
	categories := router.Group("/categories")
	{
		categories.POST("", h.CreateCategory)             // 创建分类
		categories.GET("", h.ListCategories)              // 列出分类
		categories.GET("/:id/products", h.ListByCategory) // 列出分类下的商品
		categories.DELETE("/:id", h.DeleteCategory)       // 删除分类
	}
}

// ProductRequest 商品请求
type ProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Quantity      *int            `json:"quantity"`
	SKU           string          `json:"sku" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CategoryID    uint            `json:"category_id" binding:"required"`
	Status        string          `json:"status"`
}

// CreateProductsRequest 批量创建商品请求
type CreateProductsRequest struct {
	Products []ProductRequest `json:"products" binding:"required,min=1,dive"`
}

// CreateProducts 批量创建商品
func (h *CatalogHandler) CreateProducts(c *gin.Context) {
	var req CreateProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	cmds := make([]application.CreateProductCommand, 0, len(req.Products))
	for _, p := range req.Products {
		cmds = append(cmds, application.CreateProductCommand{
			Name:          p.Name,
			Quantity:      p.Quantity,
			SKU:           p.SKU,
			PurchasePrice: p.PurchasePrice,
			SellingPrice:  p.SellingPrice,
			CategoryID:    p.CategoryID,
			Status:        domain.ProductStatus(p.Status),
		})
	}

	dtos, err := h.svc.CreateProducts(c.Request.Context(), cmds)
	if err != nil {
		h.writeError(c, "Failed to create products", err)
		return
	}

	response.Created(c, dtos)
}

// GetProduct 获取商品详情
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id")
		return
	}

	dto, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to get product", err)
		return
	}

	response.Success(c, dto)
}

// ListProducts 分页列出商品
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var page query.PageRequest
	var opts query.Options
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := c.ShouldBindQuery(&opts); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.ListProducts(c.Request.Context(), page, opts)
	if err != nil {
		h.writeError(c, "Failed to list products", err)
		return
	}

	response.Success(c, result)
}

// UpdateProduct 更新商品
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	dto, err := h.svc.UpdateProduct(c.Request.Context(), id, application.UpdateProductCommand{
		Name:          req.Name,
		Quantity:      req.Quantity,
		SKU:           req.SKU,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		CategoryID:    req.CategoryID,
		Status:        domain.ProductStatus(req.Status),
	})
	if err != nil {
		h.writeError(c, "Failed to update product", err)
		return
	}

	response.Success(c, dto)
}

// DeleteProductsRequest 批量删除商品请求
type DeleteProductsRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// DeleteProducts 批量删除商品
func (h *CatalogHandler) DeleteProducts(c *gin.Context) {
	var req DeleteProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.svc.DeleteProducts(c.Request.Context(), req.IDs)
	if err != nil {
		h.writeError(c, "Failed to delete products", err)
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// AdjustStockRequest 调整库存请求
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustStock 调整商品库存
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	dto, err := h.svc.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		h.writeError(c, "Failed to adjust stock", err)
		return
	}

	response.Success(c, dto)
}

// GetAvailableStock 查询商品可售库存
func (h *CatalogHandler) GetAvailableStock(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id")
		return
	}

	qty, err := h.svc.GetAvailableStock(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to get stock", err)
		return
	}

	response.Success(c, gin.H{"quantity": qty})
}

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory 创建分类
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.svc.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, "Failed to create category", err)
		return
	}

	response.Created(c, category)
}

// ListCategories 列出全部分类
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, "Failed to list categories", err)
		return
	}

	response.Success(c, categories)
}

// ListByCategory 列出分类下的商品
func (h *CatalogHandler) ListByCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid category id")
		return
	}

	dtos, err := h.svc.ListByCategory(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to list products by category", err)
		return
	}

	response.Success(c, dtos)
}

// DeleteCategory 删除分类
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		h.writeError(c, "Failed to delete category", err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

// writeError 按领域错误映射 HTTP 状态码
func (h *CatalogHandler) writeError(c *gin.Context, msg string, err error) {
	var dup *domain.DuplicateSKUError
	switch {
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrCategoryNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.As(err, &dup):
		response.Error(c, http.StatusConflict, err.Error())
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
