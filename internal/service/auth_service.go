package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/jwt"
	"github.com/qs3c/codequest_server/internal/pkg/queue"
	"github.com/qs3c/codequest_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUsernameExists     = errors.New("用户名已被使用")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// Notifier 异步通知投递，由 worker 负责真正发送
type Notifier interface {
	Push(ctx context.Context, msg *queue.Notification) error
}

// OTPStore 一次性验证码存储
type OTPStore interface {
	Generate(ctx context.Context, contact string) (string, error)
	Verify(ctx context.Context, contact, code string) error
}

type AuthService struct {
	userRepo *repository.UserRepository
	otp      OTPStore
	notifier Notifier
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, otp OTPStore, notifier Notifier, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		otp:      otp,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Signup 用户注册，初始积分为 0、套餐为 free
func (s *AuthService) Signup(req *dto.SignupRequest) (*dto.AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	passwordStr := string(hashedPassword)
	user := &model.User{
		Username:         req.Username,
		Email:            &req.Email,
		PhoneNumber:      req.PhoneNumber,
		PasswordHash:     &passwordStr,
		SubscriptionPlan: model.PlanFree,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login 用户登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, notFound(err, ErrInvalidCredentials)
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// GenerateOTP 生成验证码并投递到邮箱或手机
func (s *AuthService) GenerateOTP(ctx context.Context, req *dto.GenerateOTPRequest) error {
	code, err := s.otp.Generate(ctx, req.Contact)
	if err != nil {
		return err
	}

	msg := &queue.Notification{
		Kind:    queue.KindOTP,
		Channel: req.Channel,
		To:      req.Contact,
		Subject: "验证码 - CodeQuest",
		Body:    code,
	}
	if err := s.notifier.Push(ctx, msg); err != nil {
		return fmt.Errorf("failed to enqueue otp: %w", err)
	}
	return nil
}

// VerifyOTP 校验验证码并为对应用户签发 Token
func (s *AuthService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	if err := s.otp.Verify(ctx, req.Contact, req.OTP); err != nil {
		return nil, err
	}

	var (
		user *model.User
		err  error
	)
	if strings.Contains(req.Contact, "@") {
		user, err = s.userRepo.GetByEmail(req.Contact)
	} else {
		user, err = s.userRepo.GetByPhone(req.Contact)
	}
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	return s.issue(user)
}

// GetUserByID 根据 ID 获取用户
func (s *AuthService) GetUserByID(id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*dto.AuthResponse, error) {
	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  buildUserInfo(user),
	}, nil
}
