// Package tui 交互控制模块
package tui

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Kevin-Rudy/visualping/pkg/export"
	"github.com/Kevin-Rudy/visualping/pkg/paths"
	"github.com/Kevin-Rudy/visualping/pkg/settings"
)

// 间隔调整事件频率控制 - 包级私有变量
// 按住 +/- 时连续触发会反复重置定时器，超过阈值后暂停处理一段时间
var (
	adjustEventCounter   int                       // 事件计数器
	adjustEventThreshold = 5                       // 5次事件后休息
	adjustRestDuration   = 300 * time.Millisecond // 休息时长
	isAdjustResting      bool                      // 是否在休息状态
	lastAdjustEventTime  time.Time                 // 最后一次事件时间
)

// shouldHandleAdjustEvent 判断是否应该处理间隔调整事件
func shouldHandleAdjustEvent() bool {
	now := time.Now()

	// 如果正在休息中，检查是否休息够了
	if isAdjustResting {
		if now.Sub(lastAdjustEventTime) >= adjustRestDuration {
			isAdjustResting = false
			adjustEventCounter = 0
			return true
		}
		return false
	}

	return true
}

// recordAdjustEvent 记录间隔调整事件
func recordAdjustEvent() {
	adjustEventCounter++
	lastAdjustEventTime = time.Now()

	if adjustEventCounter >= adjustEventThreshold {
		isAdjustResting = true
	}
}

// setupKeyBindings 设置键盘绑定
func (t *TUI) setupKeyBindings() {
	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			t.quit()
			return nil
		}

		// 地址输入框获得焦点时按键交给输入框
		if t.input.HasFocus() {
			return event
		}

		switch event.Key() {
		case tcell.KeyEnter:
			t.syncAddress()
			t.toggleProbing()
		case tcell.KeyRune:
			if !t.handleRune(event.Rune()) {
				return event
			}
		default:
			return event
		}

		t.render()
		return nil
	})
}

// handleRune 处理字符按键，返回是否已处理
func (t *TUI) handleRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		t.quit()
	case 's', 'S':
		t.syncAddress()
		t.toggleProbing()
	case 'a', 'A', '/':
		t.app.SetFocus(t.input)
	case 'c', 'C':
		t.clearData()
	case '+', '=':
		if shouldHandleAdjustEvent() {
			t.adjustInterval(1)
			recordAdjustEvent()
		}
	case '-', '_':
		if shouldHandleAdjustEvent() {
			t.adjustInterval(-1)
			recordAdjustEvent()
		}
	case 't', 'T':
		t.cycleTimeout()
	case 'g', 'G':
		t.toggleGrid()
	case 'e', 'E':
		t.exportLog()
	case 'w', 'W':
		t.saveSettings()
	default:
		return false
	}
	return true
}

// syncAddress 从输入框读取地址
func (t *TUI) syncAddress() {
	if t.input != nil {
		t.snapshot.Address = t.input.GetText()
	}
}

// toggleProbing 在运行与停止之间切换
func (t *TUI) toggleProbing() {
	if t.engine.State().Running {
		t.stopProbing()
		return
	}
	t.startProbing(t.snapshot.Address)
}

// startProbing 以当前设置开始探测
func (t *TUI) startProbing(address string) {
	t.snapshot.Address = strings.TrimSpace(address)
	cfg := t.snapshot.ProbeConfig()

	if err := t.engine.Start(cfg); err != nil {
		t.logger.Warn("start rejected", "address", cfg.Address, "error", err)
		t.setStatus("[red]无法开始: %v[white]", err)
		return
	}

	t.sessionStart = t.now()
	t.setStatus("[green]开始探测 %s[white]", cfg.Address)
}

// stopProbing 停止探测，按设置保存会话日志
func (t *TUI) stopProbing() {
	t.engine.Stop()
	t.setStatus("[yellow]已停止[white]")
	t.saveSessionLog()
}

// clearData 清空网格与统计
func (t *TUI) clearData() {
	t.engine.Clear()
	t.setStatus("已清空网格和统计")
}

// adjustInterval 在预设间隔之间移动，到达两端时不再变化
func (t *TUI) adjustInterval(delta int) {
	next := t.snapshot.IntervalIndex + delta
	if next < 0 || next >= len(settings.IntervalChoices) {
		return
	}

	interval := settings.IntervalChoices[next]
	if err := t.engine.SetInterval(interval); err != nil {
		t.setStatus("[red]无法修改间隔: %v[white]", err)
		return
	}
	t.snapshot.IntervalIndex = next
	t.setStatus("探测间隔: %s", formatDuration(interval))
}

// cycleTimeout 循环切换预设超时
func (t *TUI) cycleTimeout() {
	next := (t.snapshot.TimeoutIndex + 1) % len(settings.TimeoutChoices)

	timeout := settings.TimeoutChoices[next]
	if err := t.engine.SetTimeout(timeout); err != nil {
		t.setStatus("[red]无法修改超时: %v[white]", err)
		return
	}
	t.snapshot.TimeoutIndex = next
	t.setStatus("超时时间: %s", formatDuration(timeout))
}

// toggleGrid 显示或隐藏网格
func (t *TUI) toggleGrid() {
	t.snapshot.ShowGrid = !t.snapshot.ShowGrid
	if t.snapshot.ShowGrid {
		t.setStatus("网格已显示")
	} else {
		t.setStatus("网格已隐藏")
	}
}

// exportLog 将当前延迟样本导出为CSV，返回文件路径
func (t *TUI) exportLog() string {
	now := t.now()
	path := filepath.Join(t.tuiConfig.SessionsDir, "export-"+paths.SessionFileName(now))
	state := t.engine.State()

	n, err := export.ExportFile(path, state.Stats.Samples, state.Config.Interval, now)
	if err != nil {
		t.logger.Error("export failed", "path", path, "error", err)
		t.setStatus("[red]导出失败: %v[white]", err)
		return ""
	}

	t.logger.Info("exported samples", "path", path, "rows", n)
	t.setStatus("已导出 %d 条记录到 %s", n, path)
	return path
}

// saveSettings 保存当前设置
func (t *TUI) saveSettings() {
	path := t.tuiConfig.SettingsPath
	if path == "" {
		t.setStatus("[red]未指定设置文件[white]")
		return
	}

	if err := settings.Save(path, t.snapshot); err != nil {
		t.logger.Error("saving settings failed", "path", path, "error", err)
		t.setStatus("[red]保存设置失败: %v[white]", err)
		return
	}

	t.logger.Info("settings saved", "path", path)
	t.setStatus("设置已保存到 %s", path)
}

// saveSessionLog 开启SaveLogs时将本次会话的样本写入会话目录
func (t *TUI) saveSessionLog() string {
	if !t.snapshot.SaveLogs {
		return ""
	}

	state := t.engine.State()
	if len(state.Stats.Samples) == 0 {
		return ""
	}

	started := t.sessionStart
	if started.IsZero() {
		started = t.now()
	}
	path := filepath.Join(t.tuiConfig.SessionsDir, paths.SessionFileName(started))

	if _, err := export.ExportFile(path, state.Stats.Samples, state.Config.Interval, t.now()); err != nil {
		t.logger.Error("saving session log failed", "path", path, "error", err)
		return ""
	}
	t.logger.Info("session log saved", "path", path, "samples", len(state.Stats.Samples))
	return path
}

// quit 停止探测并退出界面
func (t *TUI) quit() {
	if t.engine.State().Running {
		t.engine.Stop()
		t.saveSessionLog()
	}
	t.Stop()
}
