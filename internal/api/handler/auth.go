package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/response"
	"github.com/qs3c/codequest_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup 用户注册
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Signup(&req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, resp)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, resp)
}

// GenerateOTP 发送验证码
// POST /api/v1/auth/otp/generate
func (h *AuthHandler) GenerateOTP(c *gin.Context) {
	var req dto.GenerateOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.authService.GenerateOTP(c.Request.Context(), &req); err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "验证码已发送", nil)
}

// VerifyOTP 校验验证码并登录
// POST /api/v1/auth/otp/verify
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.VerifyOTP(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, resp)
}
