package main

import (
	"context"
	"log"
	"time"

	"socialdesk/config"
	"socialdesk/internal/notify"
	"socialdesk/pkg/logger"

	"github.com/hibiken/asynq"
)

// The worker delivers e-mails queued by the API when NOTIFY_QUEUE=asynq.
func main() {
	cfg := config.LoadConfig()
	if !cfg.RedisEnabled() {
		log.Fatalf("REDIS_HOST is required to run the notification worker")
	}

	mode := logger.DevelopmentMode
	if cfg.AppMode == "release" {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	srv := asynq.NewServer(notify.RedisOpt(cfg), asynq.Config{
		Concurrency:     4,
		ShutdownTimeout: time.Duration(cfg.OutboundTimeoutSec) * time.Second,
		RetryDelayFunc:  asynq.DefaultRetryDelayFunc,
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			l.Errorf("task %s failed: %v", task.Type(), err)
		}),
	})

	processor := notify.NewProcessor(notify.SMTPFromConfig(cfg, l), l)
	l.Infof("Notification worker started")
	if err := srv.Run(processor.Handler()); err != nil {
		log.Fatalf("Worker error: %v", err)
	}
}
