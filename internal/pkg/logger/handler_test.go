package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerRespectsEachLevel(t *testing.T) {
	var info, errOnly bytes.Buffer
	tee := NewTeeHandler(
		log.NewJSONHandler(&info, &log.HandlerOptions{Level: log.LevelInfo}),
		log.NewJSONHandler(&errOnly, &log.HandlerOptions{Level: log.LevelError}),
	)
	logger := log.New(tee)

	logger.Info("post created")
	logger.Error("post sync failed")

	if got := strings.Count(info.String(), "\n"); got != 2 {
		t.Fatalf("info sink got %d lines: %s", got, info.String())
	}
	if strings.Contains(errOnly.String(), "post created") || !strings.Contains(errOnly.String(), "post sync failed") {
		t.Fatalf("error sink = %s", errOnly.String())
	}
}

func TestRemoteFilterHandlerNeedsTraceID(t *testing.T) {
	var remote bytes.Buffer
	logger := log.New(&ContextHandler{NewRemoteFilterHandler(log.NewJSONHandler(&remote, nil))})

	logger.Info("startup")
	if remote.Len() != 0 {
		t.Fatalf("records without trace id must be dropped, got %s", remote.String())
	}

	ctx := WithTraceID(context.Background(), "job-post-counters-")
	logger.InfoContext(ctx, "synced")
	if !strings.Contains(remote.String(), `"trace_id":"job-post-counters-`) {
		t.Fatalf("traced record missing: %s", remote.String())
	}
}
