package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/repository"
)

var (
	ErrAnswerNotFound   = errors.New("回答不存在")
	ErrAnswerPermission = errors.New("无权操作此回答")
)

type AnswerService struct {
	db           *gorm.DB
	questionRepo *repository.QuestionRepository
	answerRepo   *repository.AnswerRepository
	userRepo     *repository.UserRepository
	ledger       *LedgerService
	reward       int64
}

func NewAnswerService(
	db *gorm.DB,
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	userRepo *repository.UserRepository,
	ledger *LedgerService,
	reward int64,
) *AnswerService {
	return &AnswerService{
		db:           db,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
		ledger:       ledger,
		reward:       reward,
	}
}

// Post 回答问题，作者获得回答奖励
func (s *AnswerService) Post(ctx context.Context, userID, questionID int64, req *dto.PostAnswerRequest) (*model.Question, error) {
	var entry *model.PointTransaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		questions := s.questionRepo.WithTx(tx)

		exists, err := questions.Exists(questionID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrQuestionNotFound
		}

		user, err := s.userRepo.WithTx(tx).GetByID(userID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}

		answered := req.UserAnswered
		if answered == "" {
			answered = user.Username
		}

		answer := &model.Answer{
			QuestionID:   questionID,
			UserID:       userID,
			UserAnswered: answered,
			Body:         req.AnswerBody,
		}
		if err := s.answerRepo.WithTx(tx).Create(answer); err != nil {
			return err
		}
		if err := questions.IncrementAnswerCount(questionID, 1); err != nil {
			return err
		}

		entry, err = s.ledger.Apply(tx, Movement{
			UserID:    userID,
			Delta:     s.reward,
			Reason:    model.PointReasonAnswerPosted,
			Reference: answerReference(answer.ID),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Publish(ctx, entry)
	return s.questionRepo.GetByIDWithAnswers(questionID)
}

// Delete 删除回答，仅作者可操作，收回回答奖励
func (s *AnswerService) Delete(ctx context.Context, userID, questionID, answerID int64) (*model.Question, error) {
	var entry *model.PointTransaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		answers := s.answerRepo.WithTx(tx)

		answer, err := answers.GetByID(answerID)
		if err != nil {
			return notFound(err, ErrAnswerNotFound)
		}
		if answer.QuestionID != questionID {
			return ErrAnswerNotFound
		}
		if answer.UserID != userID {
			return ErrAnswerPermission
		}

		if err := answers.Delete(answerID); err != nil {
			return err
		}
		if err := s.questionRepo.WithTx(tx).IncrementAnswerCount(questionID, -1); err != nil {
			return err
		}

		entry, err = s.ledger.Apply(tx, Movement{
			UserID:    answer.UserID,
			Delta:     -s.reward,
			Reason:    model.PointReasonAnswerDeleted,
			Reference: answerReference(answer.ID),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Publish(ctx, entry)
	return s.questionRepo.GetByIDWithAnswers(questionID)
}
