package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/api/middleware"
	"github.com/qs3c/codequest_server/internal/pkg/otp"
	"github.com/qs3c/codequest_server/internal/pkg/pubsub"
	"github.com/qs3c/codequest_server/internal/pkg/queue"
	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/repository"
	"github.com/qs3c/codequest_server/internal/service"
	"github.com/qs3c/codequest_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUploader struct {
	url string
}

func (u *stubUploader) UploadPostMedia(userID int64, data []byte, ext string) (string, error) {
	return u.url, nil
}

// testContext 真实服务 + sqlite + miniredis
type testContext struct {
	DB    *gorm.DB
	Redis *redis.Client
	Queue *queue.Queue
	Cfg   *config.Config

	Quota        *service.QuotaService
	Ledger       *service.LedgerService
	Votes        *service.VoteService
	Questions    *service.QuestionService
	Answers      *service.AnswerService
	Posts        *service.PostService
	Comments     *service.CommentService
	Users        *service.UserService
	Auth         *service.AuthService
	Subscription *service.SubscriptionService
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key",
			ExpireHours: 24,
		},
		Subscription: config.SubscriptionConfig{Plans: config.DefaultPlans()},
		// 全天开放，支付窗口的边界在 service 层测试
		Payment: config.PaymentConfig{UTCOffsetMinutes: 330, StartHour: 0, EndHour: 24},
		Quota:   config.QuotaConfig{Timezone: "UTC", FriendPostCap: 10},
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

func setupTestContext(t *testing.T) *testContext {
	return setupTestContextWithConfig(t, testConfig())
}

func setupTestContextWithConfig(t *testing.T, cfg *config.Config) *testContext {
	t.Helper()

	db := testutil.SetupTestDB(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
		testutil.CleanupTestDB(t, db)
	})

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	postRepo := repository.NewPostRepository(db)

	ctx := &testContext{
		DB:    db,
		Redis: rdb,
		Queue: queue.NewQueue(rdb, "notifications"),
		Cfg:   cfg,
	}

	policy := service.NewPlanPolicy(cfg.Subscription, cfg.Payment)
	ctx.Quota, err = service.NewQuotaService(db, userRepo, friendRepo, policy, &cfg.Quota)
	require.NoError(t, err)
	ctx.Ledger = service.NewLedgerService(db, userRepo, repository.NewPointRepository(db),
		pubsub.NewPublisher(rdb), cfg.Rewards.TransferUnlockAt)
	ctx.Votes = service.NewVoteService(db, questionRepo, answerRepo, userRepo, ctx.Ledger, &cfg.Rewards)
	ctx.Questions = service.NewQuestionService(db, questionRepo, userRepo, ctx.Quota)
	ctx.Answers = service.NewAnswerService(db, questionRepo, answerRepo, userRepo, ctx.Ledger, cfg.Rewards.AnswerPosted)
	ctx.Posts = service.NewPostService(db, postRepo, repository.NewInteractionRepository(db), friendRepo,
		ctx.Quota, &stubUploader{url: "https://cdn.example.com/posts/media.jpg"}, &cfg.Upload)
	ctx.Comments = service.NewCommentService(db, repository.NewCommentRepository(db), postRepo, userRepo)
	ctx.Users = service.NewUserService(db, userRepo, friendRepo, ctx.Quota)
	ctx.Auth = service.NewAuthService(userRepo, otp.NewStore(rdb, 10*time.Minute), ctx.Queue, cfg)
	ctx.Subscription = service.NewSubscriptionService(db, userRepo, repository.NewSubscriptionRepository(db),
		policy, ctx.Queue)

	return ctx
}

// mockAuth 直接注入登录用户
func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// dataMap 取出 data 对象
func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", resp.Data)
	return data
}

func createMultipartFileRequest(t *testing.T, path, fieldName, fileName string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
