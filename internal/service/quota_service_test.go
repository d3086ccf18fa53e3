package service

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/testutil"
)

func noop(tx *gorm.DB) error { return nil }

func TestPostLimit(t *testing.T) {
	tests := []struct {
		friends int64
		want    int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{10, 10},
		{11, Unlimited},
		{50, Unlimited},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PostLimit(tt.friends, 10), "friends=%d", tt.friends)
	}
}

func TestNewQuotaService_InvalidTimezone(t *testing.T) {
	_, err := NewQuotaService(nil, nil, nil, nil, &config.QuotaConfig{Timezone: "Mars/Olympus"})
	assert.Error(t, err)
}

func TestQuotaService_Today(t *testing.T) {
	env := setupEnv(t)
	assert.Equal(t, testDay, env.quota.Today())
}

func TestQuotaService_Consume_PostsResetOnNewDay(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db, testutil.WithPostsToday(2, "2026-03-13"))
	testutil.MakeFriends(t, env.db, user.ID, testutil.TestUser(t, env.db).ID)
	testutil.MakeFriends(t, env.db, user.ID, testutil.TestUser(t, env.db).ID)

	require.NoError(t, env.quota.Consume(user.ID, FeaturePost, noop))
	require.NoError(t, env.quota.Consume(user.ID, FeaturePost, noop))

	err := env.quota.Consume(user.ID, FeaturePost, noop)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	updated, err := env.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.PostsToday)
	assert.Equal(t, testDay, updated.LastPostDate)
}

func TestQuotaService_Consume_NoFriendsLocked(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db)

	called := false
	err := env.quota.Consume(user.ID, FeaturePost, func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrPublicSpaceLocked)
	assert.False(t, called)
}

func TestQuotaService_Consume_UnlimitedAboveCap(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db, testutil.WithPostsToday(100, testDay))
	for i := 0; i < 11; i++ {
		testutil.MakeFriends(t, env.db, user.ID, testutil.TestUser(t, env.db).ID)
	}

	require.NoError(t, env.quota.Consume(user.ID, FeaturePost, noop))

	updated, err := env.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 101, updated.PostsToday)
}

func TestQuotaService_Consume_FreePlanNextDay(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db, testutil.WithQuestionsToday(1, testDay))
	err := env.quota.Consume(user.ID, FeatureQuestion, noop)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	env.quota.now = func() time.Time { return fixedNow.Add(24 * time.Hour) }
	require.NoError(t, env.quota.Consume(user.ID, FeatureQuestion, noop))

	updated, err := env.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.QuestionsToday)
	assert.Equal(t, "2026-03-15", updated.LastQuestionDate)
}

func TestQuotaService_Consume_GoldUnlimited(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db, testutil.WithPlan(model.PlanGold), testutil.WithQuestionsToday(40, testDay))
	require.NoError(t, env.quota.Consume(user.ID, FeatureQuestion, noop))
}

func TestQuotaService_Consume_CreateFailureKeepsCounter(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db, testutil.WithQuestionsToday(0, "2026-03-13"))
	boom := errors.New("insert failed")

	err := env.quota.Consume(user.ID, FeatureQuestion, func(tx *gorm.DB) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	updated, err := env.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.QuestionsToday)
	assert.Equal(t, "2026-03-13", updated.LastQuestionDate)

	// 失败不占用额度
	require.NoError(t, env.quota.Consume(user.ID, FeatureQuestion, noop))
}

func TestQuotaService_Consume_UserNotFound(t *testing.T) {
	env := setupEnv(t)

	err := env.quota.Consume(99999, FeatureQuestion, noop)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestQuotaService_GetQuotaInfo(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db,
		testutil.WithPlan(model.PlanBronze),
		testutil.WithPostsToday(3, "2026-03-13"),
		testutil.WithQuestionsToday(2, testDay),
	)
	testutil.MakeFriends(t, env.db, user.ID, testutil.TestUser(t, env.db).ID)

	info, err := env.quota.GetQuotaInfo(user.ID)
	require.NoError(t, err)

	assert.Equal(t, testDay, info.Day)
	assert.Equal(t, model.PlanBronze, info.Plan)
	assert.Equal(t, int64(1), info.Friends)

	// 昨天的发帖计数不计入今天
	assert.Equal(t, 0, info.Posts.Used)
	assert.Equal(t, 1, info.Posts.Limit)
	assert.Equal(t, 1, info.Posts.Remaining)

	assert.Equal(t, 2, info.Questions.Used)
	assert.Equal(t, 5, info.Questions.Limit)
	assert.Equal(t, 3, info.Questions.Remaining)
	assert.False(t, info.Questions.Unlimited)
}

func TestQuotaService_GetQuotaInfo_Unlimited(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db, testutil.WithPlan(model.PlanGold))

	info, err := env.quota.GetQuotaInfo(user.ID)
	require.NoError(t, err)
	assert.True(t, info.Questions.Unlimited)
	assert.Equal(t, Unlimited, info.Questions.Limit)
	assert.Equal(t, 0, info.Posts.Limit)
}

func TestQuotaService_ResetStale(t *testing.T) {
	env := setupEnv(t)

	stale := testutil.TestUser(t, env.db,
		testutil.WithPostsToday(2, "2026-03-13"),
		testutil.WithQuestionsToday(1, "2026-03-13"),
	)
	fresh := testutil.TestUser(t, env.db, testutil.WithPostsToday(1, testDay))

	n, err := env.quota.ResetStale()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := env.userRepo.GetByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PostsToday)
	assert.Equal(t, 0, got.QuestionsToday)

	got, err = env.userRepo.GetByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PostsToday)
}

func TestQuotaService_Check(t *testing.T) {
	env := setupEnv(t)

	lonely := testutil.TestUser(t, env.db)
	assert.ErrorIs(t, env.quota.Check(lonely.ID, FeaturePost), ErrPublicSpaceLocked)
	assert.NoError(t, env.quota.Check(lonely.ID, FeatureQuestion))

	busy := testutil.TestUser(t, env.db, testutil.WithPostsToday(1, testDay), testutil.WithQuestionsToday(1, testDay))
	testutil.MakeFriends(t, env.db, busy.ID, lonely.ID)
	assert.ErrorIs(t, env.quota.Check(busy.ID, FeaturePost), ErrQuotaExceeded)
	assert.ErrorIs(t, env.quota.Check(busy.ID, FeatureQuestion), ErrQuotaExceeded)

	// 只读检查不改变计数
	got, err := env.userRepo.GetByID(lonely.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.QuestionsToday)
}

func TestQuotaService_Consume_RetriesOnCounterConflict(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db, testutil.WithPostsToday(0, testDay))
	testutil.MakeFriends(t, env.db, user.ID, testutil.TestUser(t, env.db).ID)
	testutil.MakeFriends(t, env.db, user.ID, testutil.TestUser(t, env.db).ID)

	fired := beforeUpdateOnce(t, env.db, "test:counter_conflict",
		updatesColumn("users", "posts_today"), bumpColumn("users", "posts_today", user.ID))

	creates := 0
	err := env.quota.Consume(user.ID, FeaturePost, func(tx *gorm.DB) error {
		creates++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(fired))
	// 第一次的 create 随事务回滚，再跑一次
	assert.Equal(t, 2, creates)

	updated, err := env.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.PostsToday)
	assert.Equal(t, testDay, updated.LastPostDate)
}

func TestQuotaService_Consume_DeniedStillResetsStaleCounter(t *testing.T) {
	env := setupEnv(t)

	// 没有好友，发帖被拒
	user := testutil.TestUser(t, env.db, testutil.WithPostsToday(3, "2026-03-13"))

	err := env.quota.Consume(user.ID, FeaturePost, noop)
	assert.ErrorIs(t, err, ErrPublicSpaceLocked)

	updated, err := env.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.PostsToday)
	assert.Equal(t, testDay, updated.LastPostDate)
}
