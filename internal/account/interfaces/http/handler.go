// Package http 账户与身份的 HTTP 接口
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/shopsystem/internal/account/application"
	"github.com/wyfcoding/shopsystem/internal/account/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/middleware"
	"github.com/wyfcoding/shopsystem/pkg/response"
)

// AccountHandler HTTP 处理器
type AccountHandler struct {
	svc *application.AccountService
}

// 创建 HTTP 处理器实例
func NewAccountHandler(svc *application.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// RegisterPublicRoutes 注册无需鉴权的路由
func (h *AccountHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	api := router.Group("/account")
	{
		api.POST("/register", h.Register)       // 注册
		api.POST("/confirm-email", h.Confirm)   // 邮箱验证码确认
		api.POST("/login", h.Login)             // 登录
	}
}

// RegisterProtectedRoutes 注册需要鉴权的路由
func (h *AccountHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	api := router.Group("/account")
	{
		api.GET("/profile", h.Profile)    // 当前用户资料
		api.PUT("/profile", h.UpdateProfile) // 更新资料
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Image     string `json:"image"`
}

// Register 注册用户
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.svc.Register(c.Request.Context(), application.RegisterCommand{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Image:     req.Image,
	})
	if err != nil {
		h.writeError(c, "Failed to register user", err)
		return
	}

	response.Created(c, user)
}

// ConfirmEmailRequest 邮箱确认请求
type ConfirmEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// Confirm 邮箱验证码确认
func (h *AccountHandler) Confirm(c *gin.Context) {
	var req ConfirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.ConfirmEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		h.writeError(c, "Failed to confirm email", err)
		return
	}

	response.Success(c, gin.H{"confirmed": true})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, "Failed to login", err)
		return
	}

	response.Success(c, result)
}

// Profile 当前用户资料
func (h *AccountHandler) Profile(c *gin.Context) {
	userID := c.GetString(middleware.AuthUserIDKey)

	user, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, "Failed to get profile", err)
		return
	}

	response.Success(c, user)
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Image     string `json:"image"`
}

// UpdateProfile 更新当前用户资料
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString(middleware.AuthUserIDKey)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), userID, application.UpdateProfileCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Image:     req.Image,
	})
	if err != nil {
		h.writeError(c, "Failed to update profile", err)
		return
	}

	response.Success(c, user)
}

func (h *AccountHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrEmailNotConfirmed):
		response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidOTP):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
