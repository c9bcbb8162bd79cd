// Package tui 提供基于网格的终端用户界面
// 每个探测结果对应网格中的一个彩色单元，并实时显示统计信息
package tui

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rivo/tview"

	"github.com/Kevin-Rudy/visualping/pkg/core"
	"github.com/Kevin-Rudy/visualping/pkg/settings"
)

// Engine 界面依赖的探测引擎
// 界面只通过这些操作改变引擎状态，并通过订阅读取快照
type Engine interface {
	Start(cfg core.ProbeConfig) error
	Stop()
	SetInterval(d time.Duration) error
	SetTimeout(d time.Duration) error
	Clear()
	Resize(width, height int)
	State() core.EngineState
	Subscribe() <-chan core.EngineState
	Unsubscribe(sub <-chan core.EngineState)
}

// TUI 主界面结构
type TUI struct {
	app       *tview.Application
	flex      *tview.Flex
	input     *tview.InputField
	dataCells []*tview.TextView
	grid      *gridView
	statusBar *tview.TextView

	engine    Engine
	tuiConfig *Config
	logger    *slog.Logger

	// 用户设置，只在事件处理goroutine中修改
	snapshot     settings.Snapshot
	sessionStart time.Time

	// 最近一次收到的引擎状态
	state   core.EngineState
	stateMu sync.RWMutex

	// 状态栏提示
	status        string
	statusExpires time.Time
	statusMu      sync.Mutex

	// 控制
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once

	// 测试模式标志
	testMode bool
	now      func() time.Time
}

// NewTUI 创建新的TUI实例
func NewTUI(engine Engine, snap settings.Snapshot, tuiConfig *Config) *TUI {
	t := newTUI(engine, snap, tuiConfig)
	t.app = tview.NewApplication()

	t.setupUI()
	t.setupKeyBindings()

	return t
}

// NewTUIForTest 创建用于测试的TUI实例（不初始化图形组件）
func NewTUIForTest(engine Engine, snap settings.Snapshot, tuiConfig *Config) *TUI {
	t := newTUI(engine, snap, tuiConfig)
	t.testMode = true
	return t
}

func newTUI(engine Engine, snap settings.Snapshot, tuiConfig *Config) *TUI {
	if tuiConfig == nil {
		tuiConfig = DefaultConfig()
	}
	logger := tuiConfig.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 文件中的越界下标按默认选项处理
	snap.IntervalIndex = settings.IndexOf(settings.IntervalChoices, snap.Interval())
	snap.TimeoutIndex = settings.IndexOf(settings.TimeoutChoices, snap.Timeout())

	return &TUI{
		engine:    engine,
		tuiConfig: tuiConfig,
		logger:    logger,
		snapshot:  snap,
		state:     engine.State(),
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
		now:       time.Now,
	}
}

// Run 启动TUI界面，阻塞直到用户退出
func (t *TUI) Run() error {
	sub := t.engine.Subscribe()
	defer t.engine.Unsubscribe(sub)

	// 启动数据处理goroutine
	go t.processData(sub)

	if t.snapshot.AutoStart && strings.TrimSpace(t.snapshot.Address) != "" {
		t.startProbing(t.snapshot.Address)
	}

	err := t.app.Run()

	// 确保清理工作完成
	t.Stop()
	<-t.doneChan

	return err
}

// Stop 停止TUI界面，可重复调用
func (t *TUI) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		if t.app != nil {
			t.app.Stop()
		}
	})
}

// Snapshot 返回当前用户设置
func (t *TUI) Snapshot() settings.Snapshot {
	return t.snapshot
}

// processData 接收引擎状态并驱动重绘
func (t *TUI) processData(sub <-chan core.EngineState) {
	defer close(t.doneChan)

	uiTicker := time.NewTicker(t.tuiConfig.RefreshInterval)
	defer uiTicker.Stop()

	for {
		select {
		case state, ok := <-sub:
			if !ok {
				return
			}
			t.handleStateUpdate(state)

		case <-uiTicker.C:
			// 状态栏提示需要按时过期
			t.handleUIRefresh()

		case <-t.stopChan:
			return
		}
	}
}

// handleStateUpdate 保存最新状态并刷新界面
func (t *TUI) handleStateUpdate(state core.EngineState) {
	t.stateMu.Lock()
	t.state = state
	t.stateMu.Unlock()

	t.handleUIRefresh()
}

// handleUIRefresh 处理UI刷新
func (t *TUI) handleUIRefresh() {
	if !t.testMode && t.app != nil {
		t.safeUIUpdate(t.render)
	}
}

// currentState 返回最近一次收到的引擎状态
func (t *TUI) currentState() core.EngineState {
	t.stateMu.RLock()
	defer t.stateMu.RUnlock()
	return t.state
}
