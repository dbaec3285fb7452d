package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskVerificationNotice asks a class representative to verify a check-in.
	TaskVerificationNotice = "notify:verification"
	// TaskReportsWarmup pre-computes report aggregates into the cache.
	TaskReportsWarmup = "reports:warmup"
)

// VerificationNoticePayload identifies the check-in awaiting verification.
type VerificationNoticePayload struct {
	RecordID       string `json:"recordId"`
	ClassRepUserID string `json:"classRepUserId"`
	ScheduleID     string `json:"scheduleId"`
}

// NewVerificationNoticeTask constructs an Asynq task.
func NewVerificationNoticeTask(payload VerificationNoticePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVerificationNotice, data), nil
}

// ReportsWarmupPayload scopes the warmup run.
type ReportsWarmupPayload struct {
	Ranges []string `json:"ranges,omitempty"`
}

// NewReportsWarmupTask constructs an Asynq task.
func NewReportsWarmupTask(payload ReportsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data), nil
}

// Enqueuer abstracts task submission for services that trigger jobs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
