package workers

import (
	"horeca-compliance-backend/config"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StartWorkerServer runs the asynq consumer in a background goroutine.
func StartWorkerServer(redisAddr string, db *gorm.DB) *asynq.Server {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{Concurrency: 2},
	)

	reconciler := NewReconciler(db)
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReconcileRequests, reconciler.HandleReconcileTask)

	go func() {
		if err := server.Run(mux); err != nil {
			config.Logger.Fatal("Worker server stopped", zap.Error(err))
		}
	}()

	return server
}

// StartScheduler enqueues the reconciliation task every fifteen minutes.
func StartScheduler(client *asynq.Client) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("*/15 * * * *", func() {
		if _, err := client.Enqueue(NewReconcileTask()); err != nil {
			config.Logger.Error("Failed to enqueue reconciliation task", zap.Error(err))
		}
	})
	if err != nil {
		config.Logger.Fatal("Failed to register reconciliation schedule", zap.Error(err))
	}

	c.Start()
	return c
}
