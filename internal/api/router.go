package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/api/handler"
	"github.com/qs3c/codequest_server/internal/api/middleware"
	"github.com/qs3c/codequest_server/internal/service"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	quotaHandler     *handler.QuotaHandler
	questionHandler  *handler.QuestionHandler
	answerHandler    *handler.AnswerHandler
	postHandler      *handler.PostHandler
	commentHandler   *handler.CommentHandler
	uploadHandler    *handler.UploadHandler
	paymentHandler   *handler.PaymentHandler
	websocketHandler *handler.WebSocketHandler
	healthHandler    *handler.HealthHandler
	quotaService     *service.QuotaService
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	quotaHandler *handler.QuotaHandler,
	questionHandler *handler.QuestionHandler,
	answerHandler *handler.AnswerHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	uploadHandler *handler.UploadHandler,
	paymentHandler *handler.PaymentHandler,
	websocketHandler *handler.WebSocketHandler,
	healthHandler *handler.HealthHandler,
	quotaService *service.QuotaService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		quotaHandler:     quotaHandler,
		questionHandler:  questionHandler,
		answerHandler:    answerHandler,
		postHandler:      postHandler,
		commentHandler:   commentHandler,
		uploadHandler:    uploadHandler,
		paymentHandler:   paymentHandler,
		websocketHandler: websocketHandler,
		healthHandler:    healthHandler,
		quotaService:     quotaService,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/health", r.healthHandler.Health)

	auth := middleware.Auth(r.cfg.JWT.Secret)
	optionalAuth := middleware.OptionalAuth(r.cfg.JWT.Secret)

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", r.authHandler.Signup)
			authGroup.POST("/login", r.authHandler.Login)
			authGroup.POST("/otp/generate", r.authHandler.GenerateOTP)
			authGroup.POST("/otp/verify", r.authHandler.VerifyOTP)
		}

		// 用户
		user := api.Group("/user", auth)
		{
			user.GET("/profile", r.userHandler.GetProfile)
			user.GET("/quota", r.quotaHandler.GetQuota)
			user.GET("/getalluser", r.userHandler.List)
			user.PATCH("/update/:id", r.userHandler.UpdateProfile)
			user.PATCH("/friend/:id", r.userHandler.AddFriend)
			user.GET("/friends", r.userHandler.ListFriends)
			user.POST("/transfer-points", r.userHandler.TransferPoints)
			user.GET("/points/history", r.userHandler.PointsHistory)
		}

		// 问答
		question := api.Group("/question")
		{
			question.GET("/get", r.questionHandler.List)
			question.GET("/:questionId", optionalAuth, r.questionHandler.Get)
			question.POST("/Ask", auth, r.questionHandler.Ask)
			question.DELETE("/delete/:questionId", auth, r.questionHandler.Delete)
			question.PATCH("/vote/:questionId", auth, r.questionHandler.Vote)
		}

		answer := api.Group("/answer", auth)
		{
			answer.PATCH("/post/:questionId", r.answerHandler.Post)
			answer.PATCH("/delete/:questionId", r.answerHandler.Delete)
			answer.PATCH("/vote/:questionId", r.answerHandler.Vote)
		}

		// 公共空间
		posts := api.Group("/posts")
		{
			posts.GET("/:postId/comments", r.commentHandler.List)
			posts.POST("/create", auth, r.postHandler.Create)
			posts.GET("/feed", auth, r.postHandler.Feed)
			posts.PATCH("/:postId/like", auth, r.postHandler.Like)
			posts.PATCH("/:postId/share", auth, r.postHandler.Share)
			posts.POST("/:postId/comments", auth, r.commentHandler.Create)
			// 没有发帖额度时不必上传媒体
			posts.POST("/media", auth, middleware.QuotaCheck(r.quotaService, service.FeaturePost), r.uploadHandler.Media)
		}
		api.DELETE("/comments/:id", auth, r.commentHandler.Delete)

		// 支付
		payment := api.Group("/payment")
		{
			payment.GET("/plans", r.paymentHandler.Plans)
			payment.POST("/subscribe", auth, r.paymentHandler.Subscribe)
		}
	}

	return engine
}
