// Package tui 状态栏提示管理
package tui

import (
	"fmt"
	"time"
)

// keyHints 状态栏中常驻的按键说明
const keyHints = "[gray]s 开始/停止  a 地址  c 清空  +/- 间隔  t 超时  g 网格  e 导出  w 保存  q 退出[white]"

// setStatus 设置状态栏提示，StatusTTL之后自动清除
func (t *TUI) setStatus(format string, args ...any) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()

	t.status = fmt.Sprintf(format, args...)
	t.statusExpires = t.now().Add(t.tuiConfig.StatusTTL)
}

// currentStatus 返回未过期的提示
func (t *TUI) currentStatus(now time.Time) string {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()

	if t.status == "" || !now.Before(t.statusExpires) {
		t.status = ""
		return ""
	}
	return t.status
}

// statusLine 状态栏文字：有提示时显示提示，否则显示按键说明
func (t *TUI) statusLine(now time.Time) string {
	if msg := t.currentStatus(now); msg != "" {
		return msg
	}
	return keyHints
}
