// Package http 客户管理的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/internal/customer/application"
	"github.com/wyfcoding/shopsystem/internal/customer/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"github.com/wyfcoding/shopsystem/pkg/response"
)

// CustomerHandler HTTP 处理器
type CustomerHandler struct {
	svc *application.CustomerService
}

// 创建 HTTP 处理器实例
func NewCustomerHandler(svc *application.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// 注册路由
func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/customers")
	{
		api.POST("", h.Create)       // 创建客户
		api.GET("", h.List)          // 分页列出客户
		api.GET("/:id", h.Get)       // 获取客户详情
		api.PUT("/:id", h.Update)    // 更新客户
		api.DELETE("/:id", h.Delete) // 删除客户
	}
}

// CustomerRequest 客户请求
type CustomerRequest struct {
	Name      string           `json:"name" binding:"required"`
	Phone     string           `json:"phone"`
	MoneyOwed *decimal.Decimal `json:"money_owed"`
}

// Create 创建客户
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.svc.Create(c.Request.Context(), application.CustomerCommand{
		Name:      req.Name,
		Phone:     req.Phone,
		MoneyOwed: req.MoneyOwed,
	})
	if err != nil {
		h.writeError(c, "Failed to create customer", err)
		return
	}

	response.Created(c, customer)
}

// Get 获取客户详情
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to get customer", err)
		return
	}

	response.Success(c, customer)
}

// List 分页列出客户
func (h *CustomerHandler) List(c *gin.Context) {
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

	result, err := h.svc.List(c.Request.Context(), page, opts)
	if err != nil {
		h.writeError(c, "Failed to list customers", err)
		return
	}

	response.Success(c, result)
}

// Update 更新客户
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid customer id")
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.svc.Update(c.Request.Context(), id, application.CustomerCommand{
		Name:      req.Name,
		Phone:     req.Phone,
		MoneyOwed: req.MoneyOwed,
	})
	if err != nil {
		h.writeError(c, "Failed to update customer", err)
		return
	}

	response.Success(c, customer)
}

// Delete 删除客户
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid customer id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "Failed to delete customer", err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

func (h *CustomerHandler) writeError(c *gin.Context, msg string, err error) {
	if errors.Is(err, domain.ErrCustomerNotFound) {
		response.Error(c, http.StatusNotFound, err.Error())
		return
	}
	logger.Error(c.Request.Context(), msg, "error", err)
	response.Error(c, http.StatusInternalServerError, err.Error())
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
