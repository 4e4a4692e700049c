package job

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"context"
	"errors"
	log "log/slog"
)

// PostCountersJob 将有变动帖子的点赞数与评论数回写到 posts 表快照列
type PostCountersJob struct {
	actionSvc service.PostActionService
}

func NewPostCountersJob(actionSvc service.PostActionService) *PostCountersJob {
	return &PostCountersJob{
		actionSvc: actionSvc,
	}
}

func (s *PostCountersJob) Run() {
	ctx := logger.WithTraceID(context.Background(), "job-post-counters-")

	processingKey := consts.PostDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.PostDirtyKey, processingKey)
	if err != nil {
		if !errors.Is(err, redis.ErrNil) {
			log.ErrorContext(ctx, "rename post dirty set error", "err", err)
		}
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get post dirty set error", "err", err)
		return
	}

	postIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert post set to int slice error", "err", err)
		return
	}

	log.InfoContext(ctx, "start syncing post counters", "count", len(postIDs))

	successCount := 0
	for _, pid := range postIDs {
		if err = s.actionSvc.SyncPostCounters(ctx, pid); err != nil {
			log.ErrorContext(ctx, "sync post counters error", "pid", pid, "err", err)
			continue
		}
		successCount++
	}

	err = redis.DeleteKey(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "delete post processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync post counters success",
		"total_count", len(postIDs),
		"success_count", successCount)
}
