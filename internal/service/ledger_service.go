package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/pubsub"
	"github.com/qs3c/codequest_server/internal/repository"
)

var (
	ErrInvalidAmount      = errors.New("转账积分必须大于 0")
	ErrSelfTransfer       = errors.New("不能给自己转账")
	ErrReceiverNotFound   = errors.New("收款用户不存在")
	ErrTransferLocked     = errors.New("积分超过解锁门槛后才能转账")
	ErrInsufficientPoints = errors.New("积分余额不足")
)

// PointsPublisher 积分变动事件的发布端
type PointsPublisher interface {
	PublishPoints(ctx context.Context, event *pubsub.PointsEvent) error
}

// Movement 一笔余额变动
type Movement struct {
	UserID         int64
	Delta          int64
	Reason         string
	Reference      string
	CounterpartyID *int64
}

// LedgerService 积分账本，users.points 的唯一写入方
type LedgerService struct {
	db        *gorm.DB
	userRepo  *repository.UserRepository
	pointRepo *repository.PointRepository
	publisher PointsPublisher
	unlockAt  int64
}

func NewLedgerService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	pointRepo *repository.PointRepository,
	publisher PointsPublisher,
	unlockAt int64,
) *LedgerService {
	return &LedgerService{
		db:        db,
		userRepo:  userRepo,
		pointRepo: pointRepo,
		publisher: publisher,
		unlockAt:  unlockAt,
	}
}

// Apply 在调用方事务内原子调整余额并记一笔流水，不设下限
func (s *LedgerService) Apply(tx *gorm.DB, m Movement) (*model.PointTransaction, error) {
	if m.Delta == 0 {
		return nil, nil
	}

	users := s.userRepo.WithTx(tx)
	ok, err := users.AddPoints(m.UserID, m.Delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust points: %w", err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	return s.journal(tx, m)
}

func (s *LedgerService) journal(tx *gorm.DB, m Movement) (*model.PointTransaction, error) {
	balance, err := s.userRepo.WithTx(tx).GetPoints(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	entry := &model.PointTransaction{
		UserID:         m.UserID,
		Delta:          m.Delta,
		BalanceAfter:   balance,
		Reason:         m.Reason,
		Reference:      m.Reference,
		CounterpartyID: m.CounterpartyID,
	}
	if err := s.pointRepo.WithTx(tx).Create(entry); err != nil {
		return nil, fmt.Errorf("failed to write journal: %w", err)
	}
	return entry, nil
}

// Credit 增加积分
func (s *LedgerService) Credit(ctx context.Context, userID, amount int64, reason, reference string) (*model.PointTransaction, error) {
	var entry *model.PointTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.Apply(tx, Movement{UserID: userID, Delta: amount, Reason: reason, Reference: reference})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Publish(ctx, entry)
	return entry, nil
}

// Debit 扣减积分，余额可以为负
func (s *LedgerService) Debit(ctx context.Context, userID, amount int64, reason, reference string) (*model.PointTransaction, error) {
	return s.Credit(ctx, userID, -amount, reason, reference)
}

// Transfer 用户间转账，双方余额在同一事务内变动
func (s *LedgerService) Transfer(ctx context.Context, senderID int64, receiverEmail string, amount int64) (*dto.TransferResponse, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	receiver, err := s.userRepo.GetByEmail(receiverEmail)
	if err != nil {
		return nil, notFound(err, ErrReceiverNotFound)
	}
	if receiver.ID == senderID {
		return nil, ErrSelfTransfer
	}

	reference := "transfer:" + uuid.NewString()
	var out, in *model.PointTransaction

	err = withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			users := s.userRepo.WithTx(tx)

			// A->B 与 B->A 同时进行时按同一顺序加锁
			if _, err := users.LockByIDs(senderID, receiver.ID); err != nil {
				return fmt.Errorf("failed to lock users: %w", err)
			}

			ok, err := users.DebitIfEligible(senderID, amount, s.unlockAt)
			if err != nil {
				return fmt.Errorf("failed to debit sender: %w", err)
			}
			if !ok {
				return s.classifyDebitFailure(users, senderID, amount)
			}

			out, err = s.journal(tx, Movement{
				UserID:         senderID,
				Delta:          -amount,
				Reason:         model.PointReasonTransferOut,
				Reference:      reference,
				CounterpartyID: &receiver.ID,
			})
			if err != nil {
				return err
			}

			in, err = s.Apply(tx, Movement{
				UserID:         receiver.ID,
				Delta:          amount,
				Reason:         model.PointReasonTransferIn,
				Reference:      reference,
				CounterpartyID: &senderID,
			})
			if errors.Is(err, ErrUserNotFound) {
				return ErrReceiverNotFound
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	s.Publish(ctx, out, in)

	return &dto.TransferResponse{
		Reference:     reference,
		Amount:        amount,
		ReceiverID:    receiver.ID,
		ReceiverName:  receiver.Username,
		SenderBalance: out.BalanceAfter,
	}, nil
}

// classifyDebitFailure 条件扣款未命中时重新读取余额判断原因
func (s *LedgerService) classifyDebitFailure(users *repository.UserRepository, senderID, amount int64) error {
	exists, err := users.Exists(senderID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	points, err := users.GetPoints(senderID)
	if err != nil {
		return err
	}

	switch {
	case points <= s.unlockAt:
		return ErrTransferLocked
	case points < amount:
		return ErrInsufficientPoints
	default:
		// 读取时余额已满足条件，说明扣款与并发写入交错
		return ErrConcurrentUpdate
	}
}

// History 分页获取积分流水
func (s *LedgerService) History(userID int64, page, pageSize int) ([]*dto.PointTransactionItem, int64, error) {
	entries, total, err := s.pointRepo.ListByUserID(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.PointTransactionItem, len(entries))
	for i, e := range entries {
		items[i] = &dto.PointTransactionItem{
			ID:             e.ID,
			Delta:          e.Delta,
			BalanceAfter:   e.BalanceAfter,
			Reason:         e.Reason,
			Reference:      e.Reference,
			CounterpartyID: e.CounterpartyID,
			CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		}
	}
	return items, total, nil
}

// Publish 事务提交后推送积分变动，失败只记日志
func (s *LedgerService) Publish(ctx context.Context, entries ...*model.PointTransaction) {
	if s.publisher == nil {
		return
	}
	for _, e := range entries {
		if e == nil {
			continue
		}
		err := s.publisher.PublishPoints(ctx, &pubsub.PointsEvent{
			Type:      pubsub.EventPointsChanged,
			UserID:    e.UserID,
			Delta:     e.Delta,
			Balance:   e.BalanceAfter,
			Reason:    e.Reason,
			Reference: e.Reference,
		})
		if err != nil {
			log.Printf("Failed to publish points event for user %d: %v", e.UserID, err)
		}
	}
}
