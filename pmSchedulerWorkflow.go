package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/meditrack/cmms_backend/config"
	"github.com/meditrack/cmms_backend/utils"
	"github.com/meditrack/cmms_backend/workflow"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultSchedulerIntervalMinutes = 60

func schedulerInterval() time.Duration {
	if v := os.Getenv("PM_SCHEDULER_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return defaultSchedulerIntervalMinutes * time.Minute
}

// RunPMSchedulerWorkflow runs work-order generation on a fixed interval
// until ctx is cancelled. Each pass gets its own correlation id so the
// log lines of one pass can be pulled out of the stream.
func RunPMSchedulerWorkflow(ctx context.Context, db *gorm.DB, logger *logrus.Logger) {
	interval := schedulerInterval()
	logger.WithFields(logrus.Fields{
		"field":    "PMSchedulerWorkflow",
		"interval": interval.String(),
	}).Info("pm scheduler started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First pass right away instead of waiting a full interval.
	runSchedulerPass(ctx, db, logger)

	for {
		select {
		case <-ctx.Done():
			logger.WithFields(logrus.Fields{
				"field": "PMSchedulerWorkflow",
			}).Info("pm scheduler stopped")
			return
		case <-ticker.C:
			runSchedulerPass(ctx, db, logger)
		}
	}
}

func runSchedulerPass(ctx context.Context, db *gorm.DB, logger *logrus.Logger) {
	passCtx := utils.SetCorrelationIdInContext(ctx, uuid.NewString())
	passCtx = utils.SetUserNameInContext(passCtx, "System")

	result, err := workflow.GenerateDueWorkOrders(passCtx, db, logger, time.Now())
	if err != nil {
		config.LogError(logger, "pmSchedulerWorkflow.go", "runSchedulerPass", "GenerateDueWorkOrders", nil, err)
		return
	}
	if result.AlreadyRunning {
		logger.WithFields(logrus.Fields{
			"field": "PMSchedulerWorkflow",
		}).Warn("previous generation pass still running; skipped this tick")
	}
}
