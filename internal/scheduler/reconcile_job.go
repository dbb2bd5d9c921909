package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/shared-tw/backend/internal/config"
	"github.com/shared-tw/backend/internal/logger"
	"github.com/shared-tw/backend/internal/repository"
)

// ReconcileJob 捐赠状态核对任务。
// 重放每笔未结束捐赠的事件日志，缓存状态与重放结果不一致时以日志为准修正。
// 任务不提交事件，也不处理过期，过期仍在访问时处理。
type ReconcileJob struct {
	store  *repository.Store
	config config.SchedulerConfig
}

// ReconcileResult 一轮核对的结果
type ReconcileResult struct {
	Checked  int
	Repaired int
	Skipped  int
}

// NewReconcileJob 创建捐赠状态核对任务
func NewReconcileJob(store *repository.Store, cfg config.SchedulerConfig) *ReconcileJob {
	if cfg.Interval <= 0 {
		cfg.Interval = 300
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	return &ReconcileJob{
		store:  store,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *ReconcileJob) GetName() string {
	return "donation_state_reconciler"
}

// GetSchedule 获取调度配置
func (j *ReconcileJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Interval) * time.Second)
}

// Execute 执行任务
func (j *ReconcileJob) Execute() {
	logger.Debug("Starting donation state reconciliation")

	result, err := j.Run(context.Background())
	if err != nil {
		logger.Error("Donation state reconciliation failed after %d donations: %v", result.Checked, err)
		return
	}
	if result.Repaired > 0 || result.Skipped > 0 {
		logger.Warn("Donation state reconciliation repaired %d, skipped %d of %d donations",
			result.Repaired, result.Skipped, result.Checked)
		return
	}
	logger.Debug("Donation state reconciliation completed, %d donations consistent", result.Checked)
}

// Run 分批核对所有未结束的捐赠
func (j *ReconcileJob) Run(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult
	var afterId int64

	for {
		donations, err := j.store.ListOpenDonations(ctx, afterId, j.config.BatchSize)
		if err != nil {
			return result, err
		}
		if len(donations) == 0 {
			return result, nil
		}

		for _, d := range donations {
			afterId = d.Id
			result.Checked++

			// 正在被修改的捐赠留到下一轮
			if j.store.DonationLocked(d.Id) {
				result.Skipped++
				continue
			}

			replayed := d.Replayed()
			if replayed == d.State {
				continue
			}

			err := j.store.RepairDonationState(ctx, d.Id, d.State, replayed)
			switch {
			case err == nil:
				result.Repaired++
				logger.Warn("Donation %d cached state %s repaired to %s", d.Id, d.State, replayed)
			case errors.Is(err, repository.ErrStateChanged):
				result.Skipped++
			default:
				return result, err
			}
		}
	}
}
