package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/testutil"
)

func TestQuestionService_Ask_Success(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db, testutil.WithUsername("asker"))

	q, err := env.questions.Ask(user.ID, &dto.PostQuestionData{
		QuestionTitle: "How do channels work?",
		QuestionBody:  "Explain buffered channels",
		QuestionTags:  []string{"go", "concurrency"},
	})
	require.NoError(t, err)
	assert.NotZero(t, q.ID)
	assert.Equal(t, "asker", q.UserPosted)
	assert.Equal(t, model.StringArray{"go", "concurrency"}, q.Tags)

	updated, err := env.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.QuestionsToday)
	assert.Equal(t, testDay, updated.LastQuestionDate)
}

func TestQuestionService_Ask_QuotaExceeded(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db)
	data := &dto.PostQuestionData{QuestionTitle: "t", QuestionBody: "b"}

	_, err := env.questions.Ask(user.ID, data)
	require.NoError(t, err)

	_, err = env.questions.Ask(user.ID, data)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	_, total, err := env.questions.List(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestQuestionService_Ask_SilverPlan(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db, testutil.WithPlan(model.PlanSilver), testutil.WithQuestionsToday(9, testDay))
	data := &dto.PostQuestionData{QuestionTitle: "t", QuestionBody: "b", UserPosted: "alias"}

	q, err := env.questions.Ask(user.ID, data)
	require.NoError(t, err)
	assert.Equal(t, "alias", q.UserPosted)

	_, err = env.questions.Ask(user.ID, data)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestQuestionService_Get(t *testing.T) {
	env := setupEnv(t)

	user := testutil.TestUser(t, env.db)
	q := testutil.TestQuestion(t, env.db, user.ID)
	testutil.TestAnswer(t, env.db, q.ID, user.ID)

	got, err := env.questions.Get(q.ID, 0)
	require.NoError(t, err)
	assert.Len(t, got.Answers, 1)

	_, err = env.questions.Get(99999, 0)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestQuestionService_Delete(t *testing.T) {
	env := setupEnv(t)

	author := testutil.TestUser(t, env.db)
	other := testutil.TestUser(t, env.db)
	q := testutil.TestQuestion(t, env.db, author.ID)
	testutil.TestAnswer(t, env.db, q.ID, other.ID)

	err := env.questions.Delete(other.ID, q.ID)
	assert.ErrorIs(t, err, ErrQuestionPermission)

	require.NoError(t, env.questions.Delete(author.ID, q.ID))

	_, err = env.questions.Get(q.ID, 0)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	err = env.questions.Delete(author.ID, q.ID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestQuestionService_Get_ViewerVoteState(t *testing.T) {
	env := setupEnv(t)

	author := testutil.TestUser(t, env.db)
	viewer := testutil.TestUser(t, env.db)
	q := testutil.TestQuestion(t, env.db, author.ID)
	testutil.TestAnswer(t, env.db, q.ID, author.ID, testutil.WithDownVoters(viewer.ID))
	_, err := env.votes.VoteQuestion(viewer.ID, q.ID, "upVote")
	require.NoError(t, err)

	got, err := env.questions.Get(q.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, "up", got.UserVote)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, "down", got.Answers[0].UserVote)

	got, err = env.questions.Get(q.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, got.UserVote)
	assert.Empty(t, got.Answers[0].UserVote)
}
