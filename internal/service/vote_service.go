package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/model/dto"
	"github.com/qs3c/codequest_server/internal/pkg/vote"
	"github.com/qs3c/codequest_server/internal/repository"
)

// VoteService 问题与回答的投票，回答投票会结算作者积分
type VoteService struct {
	db           *gorm.DB
	questionRepo *repository.QuestionRepository
	answerRepo   *repository.AnswerRepository
	userRepo     *repository.UserRepository
	ledger       *LedgerService
	rule         vote.RewardRule
}

func NewVoteService(
	db *gorm.DB,
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	userRepo *repository.UserRepository,
	ledger *LedgerService,
	cfg *config.RewardsConfig,
) *VoteService {
	return &VoteService{
		db:           db,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
		ledger:       ledger,
		rule: vote.RewardRule{
			Threshold:       cfg.UpvoteThreshold,
			Bonus:           cfg.UpvoteBonus,
			DownvotePenalty: cfg.DownvotePenalty,
		},
	}
}

// VoteQuestion 问题投票，只切换立场不结算积分
func (s *VoteService) VoteQuestion(voterID, questionID int64, value string) (*dto.VoteResult, error) {
	dir, err := vote.ParseDirection(value)
	if err != nil {
		return nil, err
	}

	var result *dto.VoteResult
	err = withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.ensureVoter(tx, voterID); err != nil {
				return err
			}

			questions := s.questionRepo.WithTx(tx)
			q, err := questions.GetByID(questionID)
			if err != nil {
				return notFound(err, ErrQuestionNotFound)
			}

			tally := vote.Ballot{Up: &q.UpVotes, Down: &q.DownVotes}.Cast(voterID, dir)

			ok, err := questions.UpdateVotes(q)
			if err != nil {
				return fmt.Errorf("failed to save question votes: %w", err)
			}
			if !ok {
				return ErrConcurrentUpdate
			}

			result = &dto.VoteResult{
				Upvotes:   tally.CurUp,
				Downvotes: tally.CurDown,
				UserVote:  tally.State.String(),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VoteAnswer 回答投票：先判断奖励阈值，再结算反对票，和投票写入同一事务提交
func (s *VoteService) VoteAnswer(ctx context.Context, voterID, questionID, answerID int64, value string) (*dto.VoteResult, error) {
	dir, err := vote.ParseDirection(value)
	if err != nil {
		return nil, err
	}

	var (
		result  *dto.VoteResult
		entries []*model.PointTransaction
	)
	err = withRetry(func() error {
		entries = entries[:0]
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.ensureVoter(tx, voterID); err != nil {
				return err
			}

			exists, err := s.questionRepo.WithTx(tx).Exists(questionID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrQuestionNotFound
			}

			answers := s.answerRepo.WithTx(tx)
			a, err := answers.GetByID(answerID)
			if err != nil {
				return notFound(err, ErrAnswerNotFound)
			}
			if a.QuestionID != questionID {
				return ErrAnswerNotFound
			}

			tally := vote.Ballot{Up: &a.UpVotes, Down: &a.DownVotes}.Cast(voterID, dir)
			effects := s.rule.Settle(tally, &a.RewardPaid)

			ok, err := answers.UpdateVotes(a)
			if err != nil {
				return fmt.Errorf("failed to save answer votes: %w", err)
			}
			if !ok {
				return ErrConcurrentUpdate
			}

			for _, e := range effects {
				entry, err := s.ledger.Apply(tx, Movement{
					UserID:         a.UserID,
					Delta:          e.Delta,
					Reason:         e.Reason,
					Reference:      answerReference(a.ID),
					CounterpartyID: &voterID,
				})
				if err != nil {
					return err
				}
				entries = append(entries, entry)
			}

			paid := a.RewardPaid
			result = &dto.VoteResult{
				Upvotes:    tally.CurUp,
				Downvotes:  tally.CurDown,
				UserVote:   tally.State.String(),
				RewardPaid: &paid,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Publish(ctx, entries...)
	return result, nil
}

func (s *VoteService) ensureVoter(tx *gorm.DB, voterID int64) error {
	exists, err := s.userRepo.WithTx(tx).Exists(voterID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func answerReference(answerID int64) string {
	return fmt.Sprintf("answer:%d", answerID)
}
