package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/Edinam27/lect-next/internal/jobs"
	"github.com/Edinam27/lect-next/internal/notifications"
)

// VerificationNoticeJob writes the notification that asks a class
// representative to verify a lecturer check-in.
type VerificationNoticeJob struct {
	Notifications *notifications.Repository
	Logger        *slog.Logger
	Metrics       *jobmetrics.Metrics
}

// NewVerificationNoticeJob wires dependencies for the notice handler.
func NewVerificationNoticeJob(repo *notifications.Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *VerificationNoticeJob {
	return &VerificationNoticeJob{Notifications: repo, Logger: logger, Metrics: metrics}
}

// Handle processes verification notice tasks.
func (j *VerificationNoticeJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Notifications == nil {
		return errors.New("verification notice: handler not configured")
	}
	var payload VerificationNoticePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.ClassRepUserID == "" || payload.RecordID == "" {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskVerificationNotice)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	body := fmt.Sprintf("A lecturer checked in for schedule %s. Please verify record %s.",
		payload.ScheduleID, payload.RecordID)
	_, err := j.Notifications.Create(ctx, payload.ClassRepUserID,
		"attendance.verify", "Attendance verification requested", body)
	if err != nil {
		resultErr = err
		j.logger().Error("create verification notification",
			slog.Any("error", err),
			slog.String("record_id", payload.RecordID))
		return resultErr
	}
	j.logger().Info("verification notice delivered",
		slog.String("record_id", payload.RecordID),
		slog.String("class_rep", payload.ClassRepUserID))
	return resultErr
}

func (j *VerificationNoticeJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *VerificationNoticeJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
