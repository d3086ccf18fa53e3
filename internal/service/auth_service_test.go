package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/jwt"
	"github.com/qs3c/codequest_server/internal/pkg/otp"
	"github.com/qs3c/codequest_server/internal/pkg/queue"
	"github.com/qs3c/codequest_server/internal/testutil"
)

func TestAuthService_Signup_Success(t *testing.T) {
	env := setupEnv(t)

	resp, err := env.auth.Signup(&dto.SignupRequest{
		Email:    "newuser@example.com",
		Username: "newuser",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(0), resp.User.Points)
	assert.Equal(t, model.PlanFree, resp.User.SubscriptionPlan)

	claims, err := jwt.ParseToken(resp.Token, env.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	user, err := env.userRepo.GetByEmail("newuser@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("password123")))
}

func TestAuthService_Signup_Duplicates(t *testing.T) {
	env := setupEnv(t)

	testutil.TestUser(t, env.db, testutil.WithEmail("taken@example.com"), testutil.WithUsername("taken"))

	_, err := env.auth.Signup(&dto.SignupRequest{Email: "taken@example.com", Username: "fresh", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = env.auth.Signup(&dto.SignupRequest{Email: "fresh@example.com", Username: "taken", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login(t *testing.T) {
	env := setupEnv(t)

	_, err := env.auth.Signup(&dto.SignupRequest{Email: "login@example.com", Username: "loginuser", Password: "correctpassword"})
	require.NoError(t, err)

	resp, err := env.auth.Login(&dto.LoginRequest{Email: "login@example.com", Password: "correctpassword"})
	require.NoError(t, err)
	assert.Equal(t, "loginuser", resp.User.Username)

	_, err = env.auth.Login(&dto.LoginRequest{Email: "login@example.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_GenerateOTP_Enqueues(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	err := env.auth.GenerateOTP(ctx, &dto.GenerateOTPRequest{Channel: queue.ChannelSMS, Contact: "+15550001111"})
	require.NoError(t, err)

	msgs := env.notifier.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, queue.KindOTP, msgs[0].Kind)
	assert.Equal(t, queue.ChannelSMS, msgs[0].Channel)
	assert.Equal(t, "+15550001111", msgs[0].To)
	assert.Len(t, msgs[0].Body, 6)
}

func TestAuthService_GenerateOTP_QueueFailure(t *testing.T) {
	env := setupEnv(t)
	env.notifier.err = errors.New("queue down")

	err := env.auth.GenerateOTP(context.Background(), &dto.GenerateOTPRequest{Channel: queue.ChannelEmail, Contact: "a@example.com"})
	assert.Error(t, err)
}

func TestAuthService_VerifyOTP(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := testutil.TestUser(t, env.db, testutil.WithEmail("otp@example.com"))

	require.NoError(t, env.auth.GenerateOTP(ctx, &dto.GenerateOTPRequest{Channel: queue.ChannelEmail, Contact: "otp@example.com"}))
	code := env.notifier.Messages()[0].Body

	_, err := env.auth.VerifyOTP(ctx, &dto.VerifyOTPRequest{Contact: "otp@example.com", OTP: "000000x"})
	assert.ErrorIs(t, err, otp.ErrInvalidCode)

	resp, err := env.auth.VerifyOTP(ctx, &dto.VerifyOTPRequest{Contact: "otp@example.com", OTP: code})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	// 验证码只能使用一次
	_, err = env.auth.VerifyOTP(ctx, &dto.VerifyOTPRequest{Contact: "otp@example.com", OTP: code})
	assert.ErrorIs(t, err, otp.ErrInvalidCode)
}

func TestAuthService_VerifyOTP_ByPhone(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := testutil.TestUser(t, env.db, func(u *model.User) { u.PhoneNumber = "+15550002222" })

	code, err := env.otpStore.Generate(ctx, "+15550002222")
	require.NoError(t, err)

	resp, err := env.auth.VerifyOTP(ctx, &dto.VerifyOTPRequest{Contact: "+15550002222", OTP: code})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestAuthService_VerifyOTP_UnknownContact(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	code, err := env.otpStore.Generate(ctx, "ghost@example.com")
	require.NoError(t, err)

	_, err = env.auth.VerifyOTP(ctx, &dto.VerifyOTPRequest{Contact: "ghost@example.com", OTP: code})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_GetUserByID(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db)
	got, err := env.auth.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)

	_, err = env.auth.GetUserByID(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
