package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/shopsystem/internal/account/domain"
	"github.com/wyfcoding/shopsystem/pkg/security"
)

type fakeUserRepo struct{ users map[string]*domain.User }

func (r *fakeUserRepo) Save(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

type fakeOTPStore struct{ codes map[string]string }

func (s *fakeOTPStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	s.codes[email] = code
	return nil
}

func (s *fakeOTPStore) Get(ctx context.Context, email string) (string, error) {
	return s.codes[email], nil
}

func (s *fakeOTPStore) Delete(ctx context.Context, email string) error {
	delete(s.codes, email)
	return nil
}

type fakeMailer struct{ sent []string }

func (m *fakeMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	m.sent = append(m.sent, to)
	return nil
}

func newTestAccount() (*AccountService, *fakeUserRepo, *fakeOTPStore, *fakeMailer) {
	users := &fakeUserRepo{users: map[string]*domain.User{}}
	otp := &fakeOTPStore{codes: map[string]string{}}
	mailer := &fakeMailer{}
	tokens := security.NewTokenManager("test-secret", "shopsystem", 1)
	return NewAccountService(users, otp, mailer, tokens), users, otp, mailer
}

func TestRegisterCreatesUnconfirmedUser(t *testing.T) {
	svc, _, otp, mailer := newTestAccount()

	user, err := svc.Register(context.Background(), RegisterCommand{
		Email:     "alice@example.com",
		Password:  "password123",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, domain.RoleCasher, user.Role)
	assert.False(t, user.EmailConfirmed)
	assert.NotEqual(t, "password123", user.PasswordHash)

	assert.Len(t, otp.codes, 1)
	assert.Len(t, otp.codes["alice@example.com"], 6)
	assert.Equal(t, []string{"alice@example.com"}, mailer.sent)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAccount()

	cmd := RegisterCommand{Email: "alice@example.com", Password: "password123"}
	_, err := svc.Register(context.Background(), cmd)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), cmd)
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestConfirmAndLoginFlow(t *testing.T) {
	svc, _, otp, _ := newTestAccount()

	user, err := svc.Register(context.Background(), RegisterCommand{
		Email:    "alice@example.com",
		Password: "password123",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	// 未确认邮箱前拒绝登录
	_, err = svc.Login(context.Background(), "alice@example.com", "password123")
	require.ErrorIs(t, err, domain.ErrEmailNotConfirmed)

	// 错误验证码
	err = svc.ConfirmEmail(context.Background(), "alice@example.com", "000000x")
	require.ErrorIs(t, err, domain.ErrInvalidOTP)

	code := otp.codes["alice@example.com"]
	require.NoError(t, svc.ConfirmEmail(context.Background(), "alice@example.com", code))
	// 验证码一次性使用
	assert.Empty(t, otp.codes)

	result, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.UserID)
	assert.Equal(t, domain.RoleAdmin, result.Role)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong-pass")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
