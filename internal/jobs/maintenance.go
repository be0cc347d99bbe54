// File: internal/jobs/maintenance.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"unihome_backend/internal/config"
	"unihome_backend/internal/user"
	"unihome_backend/internal/viewing"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MaintenanceJob runs the recurring housekeeping tasks: purging expired
// e-mail verification tokens and rejecting pending viewing requests
// whose date has already passed.
type MaintenanceJob struct {
	users         user.Repository
	viewings      viewing.Repository
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewMaintenanceJob creates a new MaintenanceJob.
func NewMaintenanceJob(
	users user.Repository,
	viewings viewing.Repository,
	logger *zap.Logger,
	cfg *config.Config,
) *MaintenanceJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &MaintenanceJob{
		users:         users,
		viewings:      viewings,
		logger:        logger.Named("MaintenanceJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *MaintenanceJob) SetupAndStart() error {
	jobSpec := j.cfg.MaintenanceJobSchedule // e.g., "@daily", "0 1 * * *"
	if jobSpec == "" {
		j.logger.Warn("Maintenance job schedule not defined (MAINTENANCE_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule maintenance job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Maintenance job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job. Each task is
// independent; one failing does not stop the others.
func (j *MaintenanceJob) runJob() {
	j.logger.Info("Starting maintenance job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()

	purged, err := j.users.DeleteExpiredVerificationTokens(ctx, now)
	if err != nil {
		j.logger.Error("Verification token purge failed", zap.Error(err))
	} else {
		j.logger.Info("Verification token purge completed", zap.Int64("tokens_purged", purged))
	}

	rejected, err := j.viewings.RejectStalePending(ctx, now)
	if err != nil {
		j.logger.Error("Stale viewing rejection failed", zap.Error(err))
	} else {
		j.logger.Info("Stale viewing rejection completed", zap.Int64("requests_rejected", rejected))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *MaintenanceJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping maintenance job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Maintenance job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Maintenance job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
