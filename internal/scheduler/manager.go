package scheduler

import (
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/shared-tw/backend/internal/config"
	"github.com/shared-tw/backend/internal/logger"
	"github.com/shared-tw/backend/internal/repository"
)

// Job 定时任务
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	store     *repository.Store
	config    config.SchedulerConfig
}

// NewManager 创建新的任务管理器
func NewManager(store *repository.Store, cfg config.SchedulerConfig) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Manager{
		scheduler: s,
		store:     store,
		config:    cfg,
	}, nil
}

// Start 创建任务管理器、注册任务并启动调度器
func Start(store *repository.Store, cfg config.SchedulerConfig) (*Manager, error) {
	manager, err := NewManager(store, cfg)
	if err != nil {
		return nil, err
	}

	// 注册所有任务
	if err := manager.RegisterJobs(); err != nil {
		return nil, err
	}

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager, nil
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() error {
	// 注册捐赠状态核对任务
	return m.Register(NewReconcileJob(m.store, m.config))
}

// Register 以单例模式注册任务，上一轮未结束时顺延
func (m *Manager) Register(job Job) error {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.GetName(), err)
	}
	return nil
}

// Jobs 已注册任务的名称
func (m *Manager) Jobs() []string {
	var names []string
	for _, j := range m.scheduler.Jobs() {
		names = append(names, j.Name())
	}
	return names
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
