package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/pkg/vote"
)

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := nextSeq()
	email := fmt.Sprintf("test_%d@example.com", n)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:         fmt.Sprintf("testuser_%d", n),
		Email:            &email,
		PasswordHash:     &passwordHash,
		SubscriptionPlan: model.PlanFree,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithPassword 设置密码哈希
func WithPassword(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = &hash
	}
}

// WithPoints 设置积分
func WithPoints(points int64) func(*model.User) {
	return func(u *model.User) {
		u.Points = points
	}
}

// WithPlan 设置订阅套餐
func WithPlan(plan string) func(*model.User) {
	return func(u *model.User) {
		u.SubscriptionPlan = plan
	}
}

// WithPostsToday 设置发帖计数
func WithPostsToday(count int, date string) func(*model.User) {
	return func(u *model.User) {
		u.PostsToday = count
		u.LastPostDate = date
	}
}

// WithQuestionsToday 设置提问计数
func WithQuestionsToday(count int, date string) func(*model.User) {
	return func(u *model.User) {
		u.QuestionsToday = count
		u.LastQuestionDate = date
	}
}

// MakeFriends 建立双向好友关系
func MakeFriends(t *testing.T, db *gorm.DB, userID, friendID int64) {
	t.Helper()

	pair := []*model.Friendship{
		{UserID: userID, FriendID: friendID},
		{UserID: friendID, FriendID: userID},
	}
	if err := db.Create(&pair).Error; err != nil {
		t.Fatalf("Failed to create friendship: %v", err)
	}
}

// TestQuestion 创建测试问题
func TestQuestion(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Question)) *model.Question {
	t.Helper()

	n := nextSeq()
	question := &model.Question{
		UserID:     userID,
		UserPosted: fmt.Sprintf("testuser_%d", userID),
		Title:      fmt.Sprintf("Test Question %d", n),
		Body:       "How do I do this?",
		Tags:       model.StringArray{"go"},
	}

	for _, opt := range opts {
		opt(question)
	}

	if err := db.Create(question).Error; err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return question
}

// TestAnswer 创建测试回答
func TestAnswer(t *testing.T, db *gorm.DB, questionID, userID int64, opts ...func(*model.Answer)) *model.Answer {
	t.Helper()

	answer := &model.Answer{
		QuestionID:   questionID,
		UserID:       userID,
		UserAnswered: fmt.Sprintf("testuser_%d", userID),
		Body:         "Like this.",
	}

	for _, opt := range opts {
		opt(answer)
	}

	if err := db.Create(answer).Error; err != nil {
		t.Fatalf("Failed to create test answer: %v", err)
	}

	return answer
}

// WithUpVoters 预置赞成票
func WithUpVoters(ids ...int64) func(*model.Answer) {
	return func(a *model.Answer) {
		for _, id := range ids {
			a.UpVotes.Add(id)
		}
	}
}

// WithDownVoters 预置反对票
func WithDownVoters(ids ...int64) func(*model.Answer) {
	return func(a *model.Answer) {
		for _, id := range ids {
			a.DownVotes.Add(id)
		}
	}
}

// WithRewardPaid 设置奖励锁存位
func WithRewardPaid(paid bool) func(*model.Answer) {
	return func(a *model.Answer) {
		a.RewardPaid = paid
	}
}

// Voters 构造投票集合
func Voters(ids ...int64) vote.Set {
	var s vote.Set
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// TestPost 创建测试帖子
func TestPost(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Post)) *model.Post {
	t.Helper()

	post := &model.Post{
		UserID:  userID,
		Content: fmt.Sprintf("Test post %d", nextSeq()),
	}

	for _, opt := range opts {
		opt(post)
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return post
}

// TestComment 创建测试评论
func TestComment(t *testing.T, db *gorm.DB, userID, postID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建测试回复
func TestReply(t *testing.T, db *gorm.DB, userID, postID, parentID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:   userID,
		PostID:   postID,
		ParentID: &parentID,
		Content:  content,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	return comment
}

// TestInteraction 创建测试互动
func TestInteraction(t *testing.T, db *gorm.DB, userID, postID int64, interactionType string) *model.Interaction {
	t.Helper()

	interaction := &model.Interaction{
		UserID: userID,
		PostID: postID,
		Type:   interactionType,
	}

	if err := db.Create(interaction).Error; err != nil {
		t.Fatalf("Failed to create test interaction: %v", err)
	}

	return interaction
}
