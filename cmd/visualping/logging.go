package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// parseLogLevel 解析日志级别，无法识别时使用info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogging 创建文本格式的日志记录器并设为全局默认
// TUI模式写入日志文件，watch模式写入stderr
func SetupLogging(level string, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)})
	logger := slog.New(handler).With("app", AppName)
	slog.SetDefault(logger)
	return logger
}

// openLogFile 以追加方式打开日志文件
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}
