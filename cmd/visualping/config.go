package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kevin-Rudy/visualping/pkg/core"
	"github.com/Kevin-Rudy/visualping/pkg/paths"
	"github.com/Kevin-Rudy/visualping/pkg/pinger"
	"github.com/Kevin-Rudy/visualping/pkg/settings"
	"github.com/Kevin-Rudy/visualping/pkg/tui"
	"github.com/urfave/cli/v2"
)

// AppConfig 应用层配置聚合
// 优先级: 命令行参数 > 设置文件 > 默认值
type AppConfig struct {
	Snapshot     settings.Snapshot
	SettingsPath string
	Interval     time.Duration
	Timeout      time.Duration
	PingerConfig *pinger.Config
	TUIConfig    *tui.Config
	LogFile      string
	LogLevel     string
	OTLPEndpoint string
}

// ProbeConfig 返回启动探测所用的配置
func (a *AppConfig) ProbeConfig() core.ProbeConfig {
	probe := a.Snapshot.ProbeConfig()
	probe.Interval = a.Interval
	probe.Timeout = a.Timeout
	return probe
}

// setIn 返回显式设置了该参数的最近一层上下文，未设置时返回nil
// 探测参数同时定义在主程序和watch上，子命令的同名参数会遮住主程序的值，
// 因此需要沿上下文链逐层查找
func setIn(c *cli.Context, name string) *cli.Context {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx
		}
	}
	return nil
}

// buildConfigFromCLI 从设置文件和命令行参数构建配置
func buildConfigFromCLI(c *cli.Context) (*AppConfig, error) {
	settingsPath := c.String("settings")
	if settingsPath == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("无法确定设置文件路径: %w", err)
		}
		settingsPath = p
	}

	snap, err := settings.LoadOrDefault(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("读取设置文件失败: %w", err)
	}

	if c.Args().Present() {
		snap.Address = c.Args().First()
	}
	if sc := setIn(c, "auto-start"); sc != nil {
		snap.AutoStart = sc.Bool("auto-start")
	}
	if sc := setIn(c, "save-logs"); sc != nil {
		snap.SaveLogs = sc.Bool("save-logs")
	}

	interval := snap.Interval()
	if sc := setIn(c, "interval"); sc != nil {
		interval = sc.Duration("interval")
	}
	timeout := snap.Timeout()
	if sc := setIn(c, "timeout"); sc != nil {
		timeout = sc.Duration("timeout")
	}
	// 预设值同步到设置下标，非预设值只在watch模式下有效
	if i := settings.IndexOf(settings.IntervalChoices, interval); i >= 0 {
		snap.IntervalIndex = i
	}
	if i := settings.IndexOf(settings.TimeoutChoices, timeout); i >= 0 {
		snap.TimeoutIndex = i
	}

	// 构建 pinger 配置
	pingerConfig := pinger.DefaultConfig()
	if sc := setIn(c, "6"); sc != nil && sc.Bool("6") {
		pingerConfig.IPVersion = 6
	}
	if sc := setIn(c, "size"); sc != nil {
		pingerConfig.PayloadSize = sc.Int("size")
	}

	// 构建 TUI 配置
	sessionsDir, err := paths.GetSessionsDir()
	if err != nil {
		return nil, fmt.Errorf("无法确定会话日志目录: %w", err)
	}
	tuiOptions := []tui.Option{
		tui.WithSessionsDir(sessionsDir),
		tui.WithSettingsPath(settingsPath),
	}
	if sc := setIn(c, "cell-size"); sc != nil {
		size := sc.Int("cell-size")
		tuiOptions = append(tuiOptions, tui.WithCellSize(size, size))
	}
	tuiConfig := tui.NewConfigWithOptions(tuiOptions...)

	logFile := c.String("log-file")
	if logFile == "" {
		if logFile, err = paths.GetLogFilePath(); err != nil {
			return nil, fmt.Errorf("无法确定日志文件路径: %w", err)
		}
	}

	return &AppConfig{
		Snapshot:     snap,
		SettingsPath: settingsPath,
		Interval:     interval,
		Timeout:      timeout,
		PingerConfig: pingerConfig,
		TUIConfig:    tuiConfig,
		LogFile:      logFile,
		LogLevel:     c.String("log-level"),
		OTLPEndpoint: c.String("otlp-endpoint"),
	}, nil
}

// validateConfig 验证配置的合理性
// presetsOnly 为 true 时间隔和超时必须是界面可选的预设值
func validateConfig(config *AppConfig, presetsOnly bool) error {
	if err := config.PingerConfig.Validate(); err != nil {
		return fmt.Errorf("pinger配置错误: %v", err)
	}

	if err := config.TUIConfig.Validate(); err != nil {
		return fmt.Errorf("tui配置错误: %v", err)
	}

	if config.Interval <= 0 {
		return fmt.Errorf("%w: 探测间隔必须大于0", core.ErrInvalidConfig)
	}
	if err := core.ValidateTimeout(config.Timeout); err != nil {
		return err
	}

	if presetsOnly {
		if settings.IndexOf(settings.IntervalChoices, config.Interval) < 0 {
			return fmt.Errorf("探测间隔必须是以下之一: %s", formatChoices(settings.IntervalChoices))
		}
		if settings.IndexOf(settings.TimeoutChoices, config.Timeout) < 0 {
			return fmt.Errorf("超时时间必须是以下之一: %s", formatChoices(settings.TimeoutChoices))
		}
	}

	return nil
}

func formatChoices(choices []time.Duration) string {
	names := make([]string, len(choices))
	for i, d := range choices {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
