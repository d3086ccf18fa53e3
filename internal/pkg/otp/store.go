package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix  = "otp:"
	codeDigits = 6
)

var ErrInvalidCode = errors.New("验证码无效或已过期")

// Store 基于 Redis 的一次性验证码存储，过期由 TTL 负责
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Generate 生成验证码并覆盖该联系方式下的旧码
func (s *Store) Generate(ctx context.Context, contact string) (string, error) {
	code, err := randomDigits(codeDigits)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := s.rdb.Set(ctx, keyPrefix+contact, code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	return code, nil
}

// Verify 校验验证码，成功后立即删除，防止重放
func (s *Store) Verify(ctx context.Context, contact, code string) error {
	if contact == "" || code == "" {
		return ErrInvalidCode
	}

	key := keyPrefix + contact
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrInvalidCode
		}
		if err != nil {
			return fmt.Errorf("failed to get otp: %w", err)
		}
		if val != code {
			return ErrInvalidCode
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)

	// 并发校验时另一方已先删除，视为验证码已失效
	if errors.Is(err, redis.TxFailedErr) {
		return ErrInvalidCode
	}
	return err
}

// TTL 剩余有效期
func (s *Store) TTL(ctx context.Context, contact string) (time.Duration, error) {
	return s.rdb.TTL(ctx, keyPrefix+contact).Result()
}

func randomDigits(n int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < n; i++ {
		max.Mul(max, big.NewInt(10))
	}
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v.Int64()), nil
}
