package cron

import (
	"Inkwell/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultPostCountersSpec 未配置时的计数回写周期
const DefaultPostCountersSpec = "@every 1m"

type Manager struct {
	engine          *cron.Cron
	postCountersJob *job.PostCountersJob
	postCountersAt  string
}

func NewCronManager(postCountersJob *job.PostCountersJob, postCountersAt string) *Manager {
	if postCountersAt == "" {
		postCountersAt = DefaultPostCountersSpec
	}
	return &Manager{
		engine:          cron.New(cron.WithSeconds()),
		postCountersJob: postCountersJob,
		postCountersAt:  postCountersAt,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.postCountersAt, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.postCountersJob)); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron engine started", "postCounters", s.postCountersAt)
	s.engine.Start()
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron engine stopping")
	<-s.engine.Stop().Done()
}
