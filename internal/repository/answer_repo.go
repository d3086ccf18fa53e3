package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
)

type AnswerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

func (r *AnswerRepository) WithTx(tx *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: tx}
}

func (r *AnswerRepository) Create(answer *model.Answer) error {
	return r.db.Create(answer).Error
}

func (r *AnswerRepository) GetByID(id int64) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.Where("id = ?", id).First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// UpdateVotes 带版本号的条件更新，同时写入奖励锁存位
func (r *AnswerRepository) UpdateVotes(answer *model.Answer) (bool, error) {
	result := r.db.Model(&model.Answer{}).
		Where("id = ? AND version = ?", answer.ID, answer.Version).
		Updates(map[string]interface{}{
			"up_votes":    answer.UpVotes,
			"down_votes":  answer.DownVotes,
			"reward_paid": answer.RewardPaid,
			"version":     gorm.Expr("version + 1"),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *AnswerRepository) Delete(id int64) error {
	return r.db.Delete(&model.Answer{}, id).Error
}

func (r *AnswerRepository) ListByQuestionID(questionID int64) ([]*model.Answer, error) {
	var answers []*model.Answer
	err := r.db.Where("question_id = ?", questionID).Order("created_at ASC").Find(&answers).Error
	return answers, err
}
