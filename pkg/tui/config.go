// Package tui 配置定义
package tui

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Kevin-Rudy/visualping/pkg/grid"
)

// Config TUI组件的配置结构
type Config struct {
	RefreshInterval time.Duration // 周期性重绘间隔
	StatusTTL       time.Duration // 状态栏提示的显示时长
	CellWidth       int           // 一个终端字符对应的网格单元宽度（像素）
	CellHeight      int           // 一个终端字符对应的网格单元高度（像素）
	SessionsDir     string        // 导出与会话日志目录
	SettingsPath    string        // 设置文件路径，为空时不能保存
	Logger          *slog.Logger
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval: 500 * time.Millisecond, // 默认500ms重绘
		StatusTTL:       3 * time.Second,        // 提示显示3秒
		CellWidth:       grid.DefaultCellSize,
		CellHeight:      grid.DefaultCellSize,
		SessionsDir:     ".",
		Logger:          slog.Default(),
	}
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return errors.New("UI刷新间隔必须大于0")
	}

	if c.RefreshInterval < 10*time.Millisecond {
		return errors.New("UI刷新间隔不能小于10ms")
	}

	if c.StatusTTL <= 0 {
		return errors.New("状态提示时长必须大于0")
	}

	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return errors.New("单元格尺寸必须大于0")
	}

	if c.SessionsDir == "" {
		return errors.New("会话日志目录不能为空")
	}

	return nil
}
