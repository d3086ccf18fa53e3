package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/vote"
	"github.com/qs3c/codequest_server/internal/repository"
)

var (
	ErrQuestionNotFound   = errors.New("问题不存在")
	ErrQuestionPermission = errors.New("无权操作此问题")
)

type QuestionService struct {
	db           *gorm.DB
	questionRepo *repository.QuestionRepository
	userRepo     *repository.UserRepository
	quota        *QuotaService
}

func NewQuestionService(
	db *gorm.DB,
	questionRepo *repository.QuestionRepository,
	userRepo *repository.UserRepository,
	quota *QuotaService,
) *QuestionService {
	return &QuestionService{
		db:           db,
		questionRepo: questionRepo,
		userRepo:     userRepo,
		quota:        quota,
	}
}

// Ask 提问，受套餐每日提问额度限制
func (s *QuestionService) Ask(userID int64, data *dto.PostQuestionData) (*model.Question, error) {
	var question *model.Question

	err := s.quota.Consume(userID, FeatureQuestion, func(tx *gorm.DB) error {
		user, err := s.userRepo.WithTx(tx).GetByID(userID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}

		posted := data.UserPosted
		if posted == "" {
			posted = user.Username
		}

		question = &model.Question{
			UserID:     userID,
			UserPosted: posted,
			Title:      data.QuestionTitle,
			Body:       data.QuestionBody,
			Tags:       model.StringArray(data.QuestionTags),
		}
		return s.questionRepo.WithTx(tx).Create(question)
	})
	if err != nil {
		return nil, err
	}

	return question, nil
}

// List 问题列表，最新的在前
func (s *QuestionService) List(page, pageSize int) ([]*model.Question, int64, error) {
	return s.questionRepo.List(page, pageSize)
}

// Get 问题详情及回答
// viewerID 为 0 表示匿名访问，不返回投票立场
func (s *QuestionService) Get(questionID, viewerID int64) (*model.Question, error) {
	q, err := s.questionRepo.GetByIDWithAnswers(questionID)
	if err != nil {
		return nil, notFound(err, ErrQuestionNotFound)
	}

	if viewerID > 0 {
		q.UserVote = vote.Ballot{Up: &q.UpVotes, Down: &q.DownVotes}.StateOf(viewerID).String()
		for _, a := range q.Answers {
			a.UserVote = vote.Ballot{Up: &a.UpVotes, Down: &a.DownVotes}.StateOf(viewerID).String()
		}
	}
	return q, nil
}

// Delete 删除问题，仅作者可操作
func (s *QuestionService) Delete(userID, questionID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		questions := s.questionRepo.WithTx(tx)

		q, err := questions.GetByID(questionID)
		if err != nil {
			return notFound(err, ErrQuestionNotFound)
		}
		if q.UserID != userID {
			return ErrQuestionPermission
		}

		return questions.Delete(questionID)
	})
}
