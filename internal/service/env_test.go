package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/pkg/otp"
	"github.com/qs3c/codequest_server/internal/pkg/pubsub"
	"github.com/qs3c/codequest_server/internal/pkg/queue"
	"github.com/qs3c/codequest_server/internal/repository"
	"github.com/qs3c/codequest_server/internal/testutil"
)

// 2026-03-14 12:00 UTC
var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

const testDay = "2026-03-14"

type fakePublisher struct {
	mu     sync.Mutex
	events []*pubsub.PointsEvent
	err    error
}

func (p *fakePublisher) PublishPoints(_ context.Context, event *pubsub.PointsEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) Events() []*pubsub.PointsEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*pubsub.PointsEvent, len(p.events))
	copy(out, p.events)
	return out
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []*queue.Notification
	err      error
}

func (n *fakeNotifier) Push(_ context.Context, msg *queue.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, msg)
	return nil
}

func (n *fakeNotifier) Messages() []*queue.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*queue.Notification, len(n.messages))
	copy(out, n.messages)
	return out
}

type fakeUploader struct {
	calls int
	url   string
	err   error
}

func (u *fakeUploader) UploadPostMedia(userID int64, data []byte, ext string) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key-for-testing",
			ExpireHours: 24,
		},
		Subscription: config.SubscriptionConfig{Plans: config.DefaultPlans()},
		Payment: config.PaymentConfig{
			UTCOffsetMinutes: 330,
			StartHour:        10,
			EndHour:          11,
		},
		Quota: config.QuotaConfig{
			Timezone:      "UTC",
			FriendPostCap: 10,
		},
		Rewards: config.RewardsConfig{
			AnswerPosted:     5,
			UpvoteThreshold:  5,
			UpvoteBonus:      5,
			DownvotePenalty:  1,
			TransferUnlockAt: 10,
		},
		Upload: config.UploadConfig{
			MaxSize:           1024,
			AllowedExtensions: []string{".jpg", ".png", ".mp4"},
		},
	}
}

type testEnv struct {
	db        *gorm.DB
	cfg       *config.Config
	publisher *fakePublisher
	notifier  *fakeNotifier
	uploader  *fakeUploader
	otpStore  *otp.Store
	mr        *miniredis.Miniredis

	userRepo     *repository.UserRepository
	friendRepo   *repository.FriendshipRepository
	questionRepo *repository.QuestionRepository
	answerRepo   *repository.AnswerRepository
	pointRepo    *repository.PointRepository
	postRepo     *repository.PostRepository

	policy       *PlanPolicy
	quota        *QuotaService
	ledger       *LedgerService
	votes        *VoteService
	questions    *QuestionService
	answers      *AnswerService
	posts        *PostService
	comments     *CommentService
	users        *UserService
	auth         *AuthService
	subscription *SubscriptionService
}

// setupEnv 组装全部服务，时钟固定在 fixedNow
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupEnvWithDB(t, testutil.SetupTestDB(t))
}

func setupEnvWithDB(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
		testutil.CleanupTestDB(t, db)
	})

	cfg := testConfig()
	env := &testEnv{
		db:        db,
		cfg:       cfg,
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
		uploader:  &fakeUploader{url: "https://cdn.example.com/posts/1/media.jpg"},
		otpStore:  otp.NewStore(rdb, 10*time.Minute),
		mr:        mr,

		userRepo:     repository.NewUserRepository(db),
		friendRepo:   repository.NewFriendshipRepository(db),
		questionRepo: repository.NewQuestionRepository(db),
		answerRepo:   repository.NewAnswerRepository(db),
		pointRepo:    repository.NewPointRepository(db),
		postRepo:     repository.NewPostRepository(db),
	}

	env.policy = NewPlanPolicy(cfg.Subscription, cfg.Payment)
	env.quota, err = NewQuotaService(db, env.userRepo, env.friendRepo, env.policy, &cfg.Quota)
	if err != nil {
		t.Fatalf("Failed to create quota service: %v", err)
	}
	env.quota.now = func() time.Time { return fixedNow }

	env.ledger = NewLedgerService(db, env.userRepo, env.pointRepo, env.publisher, cfg.Rewards.TransferUnlockAt)
	env.votes = NewVoteService(db, env.questionRepo, env.answerRepo, env.userRepo, env.ledger, &cfg.Rewards)
	env.questions = NewQuestionService(db, env.questionRepo, env.userRepo, env.quota)
	env.answers = NewAnswerService(db, env.questionRepo, env.answerRepo, env.userRepo, env.ledger, cfg.Rewards.AnswerPosted)
	env.posts = NewPostService(db, env.postRepo, repository.NewInteractionRepository(db), env.friendRepo,
		env.quota, env.uploader, &cfg.Upload)
	env.comments = NewCommentService(db, repository.NewCommentRepository(db), env.postRepo, env.userRepo)
	env.users = NewUserService(db, env.userRepo, env.friendRepo, env.quota)
	env.auth = NewAuthService(env.userRepo, env.otpStore, env.notifier, cfg)
	env.subscription = NewSubscriptionService(db, env.userRepo, repository.NewSubscriptionRepository(db),
		env.policy, env.notifier)
	env.subscription.now = func() time.Time { return fixedNow }

	return env
}

func (e *testEnv) points(t *testing.T, userID int64) int64 {
	t.Helper()
	p, err := e.userRepo.GetPoints(userID)
	if err != nil {
		t.Fatalf("Failed to read points: %v", err)
	}
	return p
}

// beforeUpdateOnce 在第一条满足 match 的 UPDATE 执行前，于同一事务内调用 fn，模拟并发写入
func beforeUpdateOnce(t *testing.T, db *gorm.DB, name string, match func(*gorm.Statement) bool, fn func(stmt *gorm.DB)) *int32 {
	t.Helper()

	var fired int32
	err := db.Callback().Update().Before("gorm:update").Register(name, func(stmt *gorm.DB) {
		if !match(stmt.Statement) || !atomic.CompareAndSwapInt32(&fired, 0, 1) {
			return
		}
		fn(stmt)
	})
	if err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}
	return &fired
}

// updatesColumn 语句所在表并且更新了 column
func updatesColumn(table, column string) func(*gorm.Statement) bool {
	return func(stmt *gorm.Statement) bool {
		if stmt.Table != table {
			return false
		}
		dest, ok := stmt.Dest.(map[string]interface{})
		if !ok {
			return false
		}
		_, ok = dest[column]
		return ok
	}
}

// bumpColumn 由另一写入方把 column 加一
func bumpColumn(table, column string, id int64) func(stmt *gorm.DB) {
	return func(stmt *gorm.DB) {
		err := stmt.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE "+table+" SET "+column+" = "+column+" + 1 WHERE id = ?", id).Error
		if err != nil {
			stmt.AddError(err)
		}
	}
}

// missOnce 让本次条件更新不命中任何行
func missOnce(stmt *gorm.DB) {
	stmt.Statement.AddClause(clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "1 = 0"}}})
}
