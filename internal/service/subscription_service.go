package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/email"
	"github.com/qs3c/codequest_server/internal/pkg/queue"
	"github.com/qs3c/codequest_server/internal/repository"
)

var (
	ErrInvalidPlan         = errors.New("套餐不存在")
	ErrPlanNotUpgrade      = errors.New("只能升级到更高的套餐")
	ErrPaymentWindowClosed = errors.New("当前不在支付时段内")
)

type SubscriptionService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	subRepo  *repository.SubscriptionRepository
	policy   *PlanPolicy
	notifier Notifier
	now      func() time.Time
}

func NewSubscriptionService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	subRepo *repository.SubscriptionRepository,
	policy *PlanPolicy,
	notifier Notifier,
) *SubscriptionService {
	return &SubscriptionService{
		db:       db,
		userRepo: userRepo,
		subRepo:  subRepo,
		policy:   policy,
		notifier: notifier,
		now:      time.Now,
	}
}

// Subscribe 购买套餐：仅在支付时段内，且只能升级
func (s *SubscriptionService) Subscribe(ctx context.Context, userID int64, planType string) (*dto.SubscribeResponse, error) {
	now := s.now()
	if !s.policy.Window().IsOpen(now) {
		return nil, ErrPaymentWindowClosed
	}

	plan, ok := s.policy.Plan(planType)
	if !ok {
		return nil, ErrInvalidPlan
	}

	var (
		user *model.User
		sub  *model.Subscription
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)

		var err error
		user, err = users.GetByID(userID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}
		if !s.policy.IsUpgrade(user.SubscriptionPlan, plan.Name) {
			return ErrPlanNotUpgrade
		}

		sub = &model.Subscription{
			UserID:       userID,
			Plan:         plan.Name,
			PreviousPlan: user.SubscriptionPlan,
			Amount:       plan.Price,
			Status:       "paid",
			PaidAt:       now,
		}
		if err := s.subRepo.WithTx(tx).Create(sub); err != nil {
			return err
		}
		return users.UpdatePlan(userID, plan.Name)
	})
	if err != nil {
		return nil, err
	}

	paidAt := now.In(s.policy.Window().Location()).Format(time.RFC3339)
	s.sendInvoice(ctx, user, sub, paidAt)

	return &dto.SubscribeResponse{
		Plan:         sub.Plan,
		PreviousPlan: sub.PreviousPlan,
		Amount:       sub.Amount,
		PaidAt:       paidAt,
	}, nil
}

// sendInvoice 发票邮件走异步队列，失败不影响购买结果
func (s *SubscriptionService) sendInvoice(ctx context.Context, user *model.User, sub *model.Subscription, paidAt string) {
	if s.notifier == nil || user.Email == nil {
		return
	}

	err := s.notifier.Push(ctx, &queue.Notification{
		Kind:    queue.KindInvoice,
		Channel: queue.ChannelEmail,
		UserID:  user.ID,
		To:      *user.Email,
		Subject: "订阅成功 - CodeQuest",
		Body:    email.InvoiceBody(user.Username, sub.Plan, sub.Amount, paidAt),
	})
	if err != nil {
		log.Printf("Failed to enqueue invoice for user %d: %v", user.ID, err)
	}
}

// ListPlans 套餐目录及当前支付窗口状态
func (s *SubscriptionService) ListPlans() *dto.PlansResponse {
	plans := s.policy.Plans()
	items := make([]*dto.PlanItem, len(plans))
	for i, p := range plans {
		items[i] = &dto.PlanItem{
			Name:           p.Name,
			Weight:         p.Weight,
			DailyQuestions: p.DailyQuestions,
			Unlimited:      p.DailyQuestions < 0,
			Price:          p.Price,
		}
	}

	window := s.policy.Window()
	return &dto.PlansResponse{
		Plans:         items,
		PaymentOpen:   window.IsOpen(s.now()),
		PaymentWindow: window.String(),
	}
}
