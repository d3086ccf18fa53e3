package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrIdentityMismatch = errors.New("请求用户与登录用户不一致")
	ErrConcurrentUpdate = errors.New("数据已被并发修改，请重试")
)

// maxAttempts 乐观锁冲突时的最大尝试次数
const maxAttempts = 3

// withRetry 仅在 ErrConcurrentUpdate 时重跑 fn，业务错误直接返回
func withRetry(fn func() error) error {
	var err error
	for i := 0; i < maxAttempts; i++ {
		err = fn()
		if !errors.Is(err, ErrConcurrentUpdate) {
			return err
		}
	}
	return err
}

// notFound 将 gorm 的记录不存在转换为业务错误
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

// CheckIdentity 请求体携带的 userId 必须与登录用户一致
func CheckIdentity(authUserID int64, bodyUserID *int64) error {
	if bodyUserID != nil && *bodyUserID != authUserID {
		return ErrIdentityMismatch
	}
	return nil
}
