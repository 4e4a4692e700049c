package logger

import (
	"fmt"
	log "log/slog"
	"strings"
)

// SaramaLogger 将 sarama 内部日志转发到 slog
type SaramaLogger struct{}

func NewSaramaLogger() *SaramaLogger {
	return &SaramaLogger{}
}

func (SaramaLogger) Print(v ...interface{}) {
	log.Debug("Kafka", "detail", strings.TrimSpace(fmt.Sprint(v...)))
}

func (SaramaLogger) Printf(format string, v ...interface{}) {
	log.Debug("Kafka", "detail", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (SaramaLogger) Println(v ...interface{}) {
	log.Debug("Kafka", "detail", strings.TrimSpace(fmt.Sprintln(v...)))
}
