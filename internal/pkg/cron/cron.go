package cron

import (
	"log"
	"time"
)

// QuotaSweeper 清理过期的每日计数器
type QuotaSweeper interface {
	ResetStale() (int64, error)
	Location() *time.Location
}

type Service struct {
	quota    QuotaSweeper
	stopChan chan struct{}
	now      func() time.Time
}

func NewService(quota QuotaSweeper) *Service {
	return &Service{
		quota:    quota,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailyQuotaReset()
	log.Println("Cron service started (daily quota sweep)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runDailyQuotaReset 每天在额度时区的零点清理一次。
// 计数器本身按日期惰性重置，这里只是让展示数据保持干净。
func (s *Service) runDailyQuotaReset() {
	timer := time.NewTimer(untilMidnight(s.now(), s.quota.Location()))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.resetDailyQuotas()
			timer.Reset(untilMidnight(s.now(), s.quota.Location()))
		}
	}
}

// untilMidnight 距离 loc 下一个零点的时长
func untilMidnight(now time.Time, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return next.Sub(now)
}

func (s *Service) resetDailyQuotas() {
	log.Println("Starting daily quota sweep...")
	n, err := s.quota.ResetStale()
	if err != nil {
		log.Printf("Failed to sweep daily quotas: %v", err)
		return
	}
	log.Printf("Daily quota sweep completed, %d counters reset", n)
}

// RunNow 立即执行一次清理（用于测试或手动触发）
func (s *Service) RunNow() (int64, error) {
	log.Println("Manual quota sweep triggered...")
	return s.quota.ResetStale()
}
