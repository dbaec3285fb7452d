package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/Edinam27/lect-next/internal/jobs"
	"github.com/Edinam27/lect-next/internal/reports"
)

const warmupCacheTTL = 15 * time.Minute

// ReportsWarmupJob pre-computes report aggregates and parks them in redis
// so the first interactive export of the day is served warm.
type ReportsWarmupJob struct {
	Reports *reports.Service
	Redis   *redis.Client
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewReportsWarmupJob wires dependencies for the warmup handler.
func NewReportsWarmupJob(svc *reports.Service, rdb *redis.Client, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportsWarmupJob {
	return &ReportsWarmupJob{Reports: svc, Redis: rdb, Logger: logger, Metrics: metrics}
}

// WarmupCacheKey names the redis key holding a pre-computed aggregate.
func WarmupCacheKey(rng reports.Range, tab reports.Tab) string {
	return fmt.Sprintf("reports:warmup:%s:%s", rng, tab)
}

// Handle processes warmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil || j.Redis == nil {
		return errors.New("reports warmup: handler not configured")
	}
	var payload ReportsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	ranges := []reports.Range{reports.RangeWeek, reports.RangeMonth}
	if len(payload.Ranges) > 0 {
		ranges = ranges[:0]
		for _, raw := range payload.Ranges {
			ranges = append(ranges, reports.ParseRange(raw))
		}
	}

	tracker := j.metrics().Track(TaskReportsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	tabs := []reports.Tab{reports.TabOverview, reports.TabByCourse, reports.TabByLecturer, reports.TabDailyTrends}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, rng := range ranges {
		for _, tab := range tabs {
			g.Go(func() error {
				report, err := j.Reports.Build(gctx, tab, rng, "")
				if err != nil {
					return fmt.Errorf("build %s/%s: %w", rng, tab, err)
				}
				data, err := json.Marshal(report)
				if err != nil {
					return err
				}
				return j.Redis.Set(gctx, WarmupCacheKey(rng, tab), data, warmupCacheTTL).Err()
			})
		}
	}
	if err := g.Wait(); err != nil {
		resultErr = err
		j.logger().Error("reports warmup", slog.Any("error", err))
		return resultErr
	}
	j.logger().Info("reports warmup complete",
		slog.Int("ranges", len(ranges)),
		slog.Int("tabs", len(tabs)))
	return resultErr
}

func (j *ReportsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *ReportsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
