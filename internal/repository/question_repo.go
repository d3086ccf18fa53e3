package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: tx}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *QuestionRepository) GetByID(id int64) (*model.Question, error) {
	var question model.Question
	err := r.db.Where("id = ?", id).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// GetByIDWithAnswers 获取问题及其回答
func (r *QuestionRepository) GetByIDWithAnswers(id int64) (*model.Question, error) {
	var question model.Question
	err := r.db.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ?", id).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List 按提问时间倒序分页
func (r *QuestionRepository) List(page, pageSize int) ([]*model.Question, int64, error) {
	var questions []*model.Question
	var total int64

	query := r.db.Model(&model.Question{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(pageSize).Find(&questions).Error
	return questions, total, err
}

// UpdateVotes 带版本号的条件更新，版本不一致时返回 false
func (r *QuestionRepository) UpdateVotes(question *model.Question) (bool, error) {
	result := r.db.Model(&model.Question{}).
		Where("id = ? AND version = ?", question.ID, question.Version).
		Updates(map[string]interface{}{
			"up_votes":   question.UpVotes,
			"down_votes": question.DownVotes,
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *QuestionRepository) IncrementAnswerCount(id int64, delta int) error {
	return r.db.Model(&model.Question{}).Where("id = ?", id).
		Update("no_of_answers", gorm.Expr("no_of_answers + ?", delta)).Error
}

// Delete 删除问题及其回答
func (r *QuestionRepository) Delete(id int64) error {
	if err := r.db.Where("question_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Question{}, id).Error
}
