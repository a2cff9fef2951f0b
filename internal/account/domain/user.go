// Package domain 账户与身份领域模型
package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// 角色常量
const (
	RoleAdmin  = "Admin"
	RoleCasher = "Casher"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 凭证无效
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotConfirmed 邮箱未确认
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	// ErrInvalidOTP 验证码错误或已过期
	ErrInvalidOTP = errors.New("invalid or expired verification code")
)

// User 系统用户
// 用户名取邮箱 @ 前缀
type User struct {
	ID           string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	UserName     string    `gorm:"column:user_name;type:varchar(255);not null" json:"user_name"`
	FirstName    string    `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName     string    `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"column:role;type:varchar(20);not null;default:'Casher'" json:"role"`
	Image        string    `gorm:"column:image;type:varchar(500)" json:"image"`
	// 邮箱验证通过后才允许登录
	EmailConfirmed bool      `gorm:"column:email_confirmed;not null;default:false" json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// FullName 姓名拼接
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserNameFromEmail 取邮箱 @ 前缀作为用户名
func UserNameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

// UserRepository 用户仓储接口
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Mailer 发送账户相关邮件
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

// OTPStore 一次性验证码存取
type OTPStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	// 取出验证码；不存在返回空串
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}
