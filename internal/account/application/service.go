// Package application 账户与身份的应用服务
package application

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/shopsystem/internal/account/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/security"
)

// 验证码有效期
const otpTTL = 10 * time.Minute

// RegisterCommand 注册命令
type RegisterCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	Image     string
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	UserName  string    `json:"user_name"`
	Role      string    `json:"role"`
}

// AccountService 账户应用服务
type AccountService struct {
	users  domain.UserRepository
	otp    domain.OTPStore
	mailer domain.Mailer
	tokens *security.TokenManager
}

// NewAccountService 构造函数
func NewAccountService(users domain.UserRepository, otp domain.OTPStore, mailer domain.Mailer, tokens *security.TokenManager) *AccountService {
	return &AccountService{users: users, otp: otp, mailer: mailer, tokens: tokens}
}

// Register 注册用户并发送邮箱验证码
func (s *AccountService) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hash, err := security.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	role := cmd.Role
	if role != domain.RoleAdmin {
		role = domain.RoleCasher
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        cmd.Email,
		UserName:     domain.UserNameFromEmail(cmd.Email),
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
		PasswordHash: hash,
		Role:         role,
		Image:        cmd.Image,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}
	if err := s.otp.Put(ctx, user.Email, code, otpTTL); err != nil {
		return nil, err
	}
	if err := s.mailer.SendVerificationCode(ctx, user.Email, code); err != nil {
		logger.Error(ctx, "Failed to send verification mail", "email", user.Email, "error", err)
		return nil, err
	}

	logger.Info(ctx, "User registered", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

// ConfirmEmail 校验验证码并激活账户
func (s *AccountService) ConfirmEmail(ctx context.Context, email, code string) error {
	stored, err := s.otp.Get(ctx, email)
	if err != nil {
		return err
	}
	if stored == "" || stored != code {
		return domain.ErrInvalidOTP
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	user.EmailConfirmed = true
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	if err := s.otp.Delete(ctx, email); err != nil {
		logger.Warn(ctx, "Failed to delete used verification code", "email", email, "error", err)
	}
	logger.Info(ctx, "Email confirmed", "user_id", user.ID, "email", email)
	return nil
}

// Login 校验凭证并签发访问令牌。邮箱未确认的账户拒绝登录。
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.EmailConfirmed {
		return nil, domain.ErrEmailNotConfirmed
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "User logged in", "user_id", user.ID, "email", user.Email)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		Email:     user.Email,
		UserName:  user.UserName,
		Role:      user.Role,
	}, nil
}

// GetProfile 获取用户资料
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfileCommand 更新资料命令
type UpdateProfileCommand struct {
	FirstName string
	LastName  string
	Image     string
}

// UpdateProfile 更新用户资料
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, cmd UpdateProfileCommand) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cmd.FirstName != "" {
		user.FirstName = cmd.FirstName
	}
	if cmd.LastName != "" {
		user.LastName = cmd.LastName
	}
	if cmd.Image != "" {
		user.Image = cmd.Image
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// generateOTP 生成 6 位数字验证码
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
