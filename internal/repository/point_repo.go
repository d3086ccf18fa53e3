package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/codequest_server/internal/model"
)

type PointRepository struct {
	db *gorm.DB
}

func NewPointRepository(db *gorm.DB) *PointRepository {
	return &PointRepository{db: db}
}

func (r *PointRepository) WithTx(tx *gorm.DB) *PointRepository {
	return &PointRepository{db: tx}
}

func (r *PointRepository) Create(entry *model.PointTransaction) error {
	return r.db.Create(entry).Error
}

// ListByUserID 分页获取积分流水
func (r *PointRepository) ListByUserID(userID int64, page, pageSize int) ([]*model.PointTransaction, int64, error) {
	var entries []*model.PointTransaction
	var total int64

	query := r.db.Model(&model.PointTransaction{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&entries).Error
	return entries, total, err
}

// ListByReference 获取同一业务引用下的流水
func (r *PointRepository) ListByReference(reference string) ([]*model.PointTransaction, error) {
	var entries []*model.PointTransaction
	err := r.db.Where("reference = ?", reference).Order("id ASC").Find(&entries).Error
	return entries, err
}

// SumByUserID 流水合计，用于对账
func (r *PointRepository) SumByUserID(userID int64) (int64, error) {
	var sum int64
	err := r.db.Model(&model.PointTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	return sum, err
}
