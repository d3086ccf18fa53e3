package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/repository"
)

var (
	ErrQuotaExceeded     = errors.New("今日额度已用完")
	ErrPublicSpaceLocked = errors.New("添加好友后才能在公共空间发帖")
)

// Feature 受每日额度限制的功能
type Feature string

const (
	FeaturePost     Feature = "post"
	FeatureQuestion Feature = "question"
)

const dayLayout = "2006-01-02"

// QuotaService 每日计数器，按自然日惰性重置；计数列只由这里写入
type QuotaService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	friendRepo *repository.FriendshipRepository
	policy     *PlanPolicy
	friendCap  int
	loc        *time.Location
	now        func() time.Time
}

func NewQuotaService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	friendRepo *repository.FriendshipRepository,
	policy *PlanPolicy,
	cfg *config.QuotaConfig,
) (*QuotaService, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid quota timezone %q: %w", cfg.Timezone, err)
	}

	return &QuotaService{
		db:         db,
		userRepo:   userRepo,
		friendRepo: friendRepo,
		policy:     policy,
		friendCap:  cfg.FriendPostCap,
		loc:        loc,
		now:        time.Now,
	}, nil
}

// Today 当前自然日
func (s *QuotaService) Today() string {
	return s.now().In(s.loc).Format(dayLayout)
}

// Location 自然日所在时区
func (s *QuotaService) Location() *time.Location {
	return s.loc
}

// Consume 校验额度后在同一事务内执行 create，成功才递增计数
// 额度不足时事务照常提交，跨日归零的计数器随之落库
func (s *QuotaService) Consume(userID int64, feature Feature, create func(tx *gorm.DB) error) error {
	var denied error
	err := withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			denied, err = s.consume(tx, userID, feature, create)
			return err
		})
	})
	if err != nil {
		return err
	}
	return denied
}

// consume 返回 (拒绝原因, 事务错误)
func (s *QuotaService) consume(tx *gorm.DB, userID int64, feature Feature, create func(tx *gorm.DB) error) (error, error) {
	users := s.userRepo.WithTx(tx)

	user, err := users.GetByID(userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	cols, storedCount, storedDate := counterOf(user, feature)
	today := s.Today()

	used := storedCount
	if storedDate != today {
		used = 0
	}

	limit, _, err := s.limit(tx, user, feature)
	if err != nil {
		return nil, err
	}

	var denied error
	switch {
	case feature == FeaturePost && limit == 0:
		denied = ErrPublicSpaceLocked
	case limit != Unlimited && used >= limit:
		denied = ErrQuotaExceeded
	}
	if denied != nil {
		if storedDate == today {
			return denied, nil
		}
		ok, err := users.CompareAndSetCounter(user.ID, cols, storedCount, storedDate, 0, today)
		if err != nil {
			return nil, fmt.Errorf("failed to reset counter: %w", err)
		}
		if !ok {
			return nil, ErrConcurrentUpdate
		}
		return denied, nil
	}

	if err := create(tx); err != nil {
		return nil, err
	}

	ok, err := users.CompareAndSetCounter(user.ID, cols, storedCount, storedDate, used+1, today)
	if err != nil {
		return nil, fmt.Errorf("failed to update counter: %w", err)
	}
	if !ok {
		return nil, ErrConcurrentUpdate
	}
	return nil, nil
}

// limit 返回额度上限，同时返回好友数供展示
func (s *QuotaService) limit(tx *gorm.DB, user *model.User, feature Feature) (int, int64, error) {
	friends, err := s.friendRepo.WithTx(tx).CountFriends(user.ID)
	if err != nil {
		return 0, 0, err
	}

	switch feature {
	case FeaturePost:
		return PostLimit(friends, s.friendCap), friends, nil
	case FeatureQuestion:
		return s.policy.DailyQuestionLimit(user.SubscriptionPlan), friends, nil
	}
	return 0, friends, fmt.Errorf("unknown quota feature %q", feature)
}

// PostLimit 发帖上限：无好友为 0，不超过 friendCap 时等于好友数，超过则不限
func PostLimit(friends int64, friendCap int) int {
	switch {
	case friends <= 0:
		return 0
	case friends > int64(friendCap):
		return Unlimited
	default:
		return int(friends)
	}
}

func counterOf(user *model.User, feature Feature) (repository.CounterColumns, int, string) {
	if feature == FeaturePost {
		return repository.PostCounter, user.PostsToday, user.LastPostDate
	}
	return repository.QuestionCounter, user.QuestionsToday, user.LastQuestionDate
}

// GetQuotaInfo 获取用户当日额度
func (s *QuotaService) GetQuotaInfo(userID int64) (*dto.QuotaInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	today := s.Today()
	info := &dto.QuotaInfo{
		Day:  today,
		Plan: user.SubscriptionPlan,
	}

	for _, feature := range []Feature{FeaturePost, FeatureQuestion} {
		limit, friends, err := s.limit(s.db, user, feature)
		if err != nil {
			return nil, err
		}
		info.Friends = friends

		_, count, date := counterOf(user, feature)
		if date != today {
			count = 0
		}
		fq := buildFeatureQuota(count, limit)
		if feature == FeaturePost {
			info.Posts = fq
		} else {
			info.Questions = fq
		}
	}

	return info, nil
}

// Check 只读检查额度是否还有剩余，不占用额度
func (s *QuotaService) Check(userID int64, feature Feature) error {
	info, err := s.GetQuotaInfo(userID)
	if err != nil {
		return err
	}

	fq := info.Questions
	if feature == FeaturePost {
		fq = info.Posts
		if fq.Limit == 0 {
			return ErrPublicSpaceLocked
		}
	}
	if !fq.Unlimited && fq.Remaining <= 0 {
		return ErrQuotaExceeded
	}
	return nil
}

func buildFeatureQuota(used, limit int) *dto.FeatureQuota {
	fq := &dto.FeatureQuota{Used: used, Limit: limit}
	if limit == Unlimited {
		fq.Unlimited = true
		fq.Remaining = Unlimited
		return fq
	}
	fq.Remaining = limit - used
	if fq.Remaining < 0 {
		fq.Remaining = 0
	}
	return fq
}

// ResetStale 将非当日的计数器清零，结果与惰性重置一致
func (s *QuotaService) ResetStale() (int64, error) {
	today := s.Today()
	var total int64
	for _, cols := range []repository.CounterColumns{repository.PostCounter, repository.QuestionCounter} {
		n, err := s.userRepo.ResetStaleCounters(cols, today)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
