package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/codequest_server/internal/model"
)

// CounterColumns 每日计数器对应的两列
type CounterColumns struct {
	Count string
	Date  string
}

var (
	PostCounter     = CounterColumns{Count: "posts_today", Date: "last_post_date"}
	QuestionCounter = CounterColumns{Count: "questions_today", Date: "last_question_date"}
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByPhone(phone string) (*model.User, error) {
	var user model.User
	err := r.db.Where("phone_number = ?", phone).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// List 按注册顺序分页列出用户
func (r *UserRepository) List(page, pageSize int) ([]*model.User, int64, error) {
	var users []*model.User
	var total int64

	if err := r.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Order("id ASC").Offset(offset).Limit(pageSize).Find(&users).Error
	return users, total, err
}

// UpdateProfile 只更新给定的资料列
func (r *UserRepository) UpdateProfile(id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(updates).Error
}

// LockByIDs 按 id 升序对多行加行锁，调用方顺序一致即不会互相死锁
func (r *UserRepository) LockByIDs(ids ...int64) (int64, error) {
	var locked []int64
	err := r.db.Model(&model.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Pluck("id", &locked).Error
	return int64(len(locked)), err
}

// AddPoints 原子地调整积分，返回是否命中记录
func (r *UserRepository) AddPoints(id, delta int64) (bool, error) {
	result := r.db.Model(&model.User{}).Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", delta))
	return result.RowsAffected > 0, result.Error
}

// DebitIfEligible 仅当余额大于 unlockAt 且不少于 amount 时扣减
func (r *UserRepository) DebitIfEligible(id, amount, unlockAt int64) (bool, error) {
	result := r.db.Model(&model.User{}).
		Where("id = ? AND points > ? AND points >= ?", id, unlockAt, amount).
		Update("points", gorm.Expr("points - ?", amount))
	return result.RowsAffected > 0, result.Error
}

// GetPoints 读取当前积分
func (r *UserRepository) GetPoints(id int64) (int64, error) {
	var points int64
	err := r.db.Model(&model.User{}).Where("id = ?", id).Pluck("points", &points).Error
	return points, err
}

func (r *UserRepository) UpdatePlan(id int64, plan string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Update("subscription_plan", plan).Error
}

// CompareAndSetCounter 仅当计数器仍为读取时的值才写入新值
func (r *UserRepository) CompareAndSetCounter(id int64, cols CounterColumns, oldCount int, oldDate string, newCount int, newDate string) (bool, error) {
	result := r.db.Model(&model.User{}).
		Where("id = ?", id).
		Where(cols.Count+" = ?", oldCount).
		Where(cols.Date+" = ?", oldDate).
		Updates(map[string]interface{}{
			cols.Count: newCount,
			cols.Date:  newDate,
		})
	return result.RowsAffected > 0, result.Error
}

// ResetStaleCounters 将非当日的计数器归零
func (r *UserRepository) ResetStaleCounters(cols CounterColumns, today string) (int64, error) {
	result := r.db.Model(&model.User{}).
		Where(cols.Date+" <> ?", today).
		Where(cols.Count+" > 0").
		Updates(map[string]interface{}{
			cols.Count: 0,
			cols.Date:  today,
		})
	return result.RowsAffected, result.Error
}
