package cron

import (
	"Potluck/internal/job"
	"context"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultPopularitySpec = "0 */5 * * * *"

type Manager struct {
	engine         *cron.Cron
	popularityJob  *job.PopularityJob
	popularitySpec string
}

func NewCronManager(popularityJob *job.PopularityJob, popularitySpec string) *Manager {
	if popularitySpec == "" {
		popularitySpec = defaultPopularitySpec
	}
	return &Manager{
		engine:         cron.New(cron.WithSeconds()),
		popularityJob:  popularityJob,
		popularitySpec: popularitySpec,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.popularitySpec, s.popularityJob); err != nil {
		return err
	}
	return nil
}

// Run 注册并启动任务，阻塞到 ctx 结束后等待运行中的任务退出
func (s *Manager) Run(ctx context.Context) error {
	if err := s.RegisterJobs(); err != nil {
		return err
	}
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "popularity_spec", s.popularitySpec)
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
