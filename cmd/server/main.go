package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/api"
	"github.com/qs3c/codequest_server/internal/api/handler"
	"github.com/qs3c/codequest_server/internal/database"
	"github.com/qs3c/codequest_server/internal/pkg/cron"
	"github.com/qs3c/codequest_server/internal/pkg/oss"
	"github.com/qs3c/codequest_server/internal/pkg/otp"
	"github.com/qs3c/codequest_server/internal/pkg/pubsub"
	"github.com/qs3c/codequest_server/internal/pkg/queue"
	"github.com/qs3c/codequest_server/internal/pkg/ws"
	"github.com/qs3c/codequest_server/internal/repository"
	"github.com/qs3c/codequest_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Printf("Database connected (%s)", cfg.Database.Driver)

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选，未配置时媒体上传返回错误）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	notifications := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	publisher := pubsub.NewPublisher(rdb)
	otpStore := otp.NewStore(rdb, time.Duration(cfg.OTP.TTLMinutes)*time.Minute)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	pointRepo := repository.NewPointRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	// 初始化 Service
	policy := service.NewPlanPolicy(cfg.Subscription, cfg.Payment)
	quotaService, err := service.NewQuotaService(db, userRepo, friendRepo, policy, &cfg.Quota)
	if err != nil {
		log.Fatalf("Failed to init quota service: %v", err)
	}
	ledger := service.NewLedgerService(db, userRepo, pointRepo, publisher, cfg.Rewards.TransferUnlockAt)
	voteService := service.NewVoteService(db, questionRepo, answerRepo, userRepo, ledger, &cfg.Rewards)
	questionService := service.NewQuestionService(db, questionRepo, userRepo, quotaService)
	answerService := service.NewAnswerService(db, questionRepo, answerRepo, userRepo, ledger, cfg.Rewards.AnswerPosted)
	postService := service.NewPostService(db, postRepo, interactionRepo, friendRepo, quotaService, ossClient, &cfg.Upload)
	commentService := service.NewCommentService(db, commentRepo, postRepo, userRepo)
	userService := service.NewUserService(db, userRepo, friendRepo, quotaService)
	authService := service.NewAuthService(userRepo, otpStore, notifications, cfg)
	subscriptionService := service.NewSubscriptionService(db, userRepo, subscriptionRepo, policy, notifications)

	// WebSocket：把 Redis 上的积分事件转发给在线用户
	wsHub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := pubsub.NewSubscriber(rdb).Subscribe(ctx, wsHub.PushPoints)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Points subscriber stopped: %v", err)
		}
	}()

	// 每日额度清理
	cronService := cron.NewService(quotaService)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService, ledger),
		handler.NewQuotaHandler(quotaService),
		handler.NewQuestionHandler(questionService, voteService),
		handler.NewAnswerHandler(answerService, voteService),
		handler.NewPostHandler(postService),
		handler.NewCommentHandler(commentService),
		handler.NewUploadHandler(postService, &cfg.Upload),
		handler.NewPaymentHandler(subscriptionService),
		handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret, cfg.CORS.AllowedOrigins),
		handler.NewHealthHandler(db),
		quotaService,
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router.Setup(),
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
