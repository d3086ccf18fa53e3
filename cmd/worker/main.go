package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/qs3c/codequest_server/config"
	"github.com/qs3c/codequest_server/internal/database"
	"github.com/qs3c/codequest_server/internal/pkg/email"
	"github.com/qs3c/codequest_server/internal/pkg/queue"
	"github.com/qs3c/codequest_server/internal/pkg/sms"
	"github.com/qs3c/codequest_server/internal/worker"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	notifications := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	smsService := sms.NewService(&cfg.SMS)
	if cfg.SMS.AccountSID == "" {
		log.Println("Warning: Twilio not configured, SMS notifications will fail")
	}

	processor := worker.NewProcessor(email.NewService(&cfg.Email), smsService, notifications)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Worker started, max workers: %d", cfg.Queue.MaxWorkers)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					msg, err := notifications.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop notification: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: delivering %s via %s to %s", workerID, msg.Kind, msg.Channel, msg.To)
					if err := processor.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: notification failed: %v", workerID, err)
					}
				}
			}
		}(i)
	}

	wg.Wait()
	log.Println("Worker shutdown complete")
}
