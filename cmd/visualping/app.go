package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kevin-Rudy/visualping/pkg/paths"
	"github.com/Kevin-Rudy/visualping/pkg/pinger"
	"github.com/Kevin-Rudy/visualping/pkg/scheduler"
	"github.com/Kevin-Rudy/visualping/pkg/telemetry"
	"github.com/Kevin-Rudy/visualping/pkg/tui"
	"github.com/urfave/cli/v2"
)

// newProber 创建探测执行器，测试中可替换
var newProber = pinger.NewProber

// runApp 主要应用逻辑处理函数：启动TUI
func runApp(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("错误: 最多只能指定一个目标地址\n使用方法: visualping [目标主机]", 1)
	}

	if err := paths.EnsureDirs(); err != nil {
		return cli.Exit(fmt.Sprintf("无法创建数据目录: %v", err), 1)
	}

	appConfig, err := buildConfigFromCLI(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("配置加载失败: %v", err), 1)
	}

	if err := validateConfig(appConfig, true); err != nil {
		return cli.Exit(fmt.Sprintf("配置验证失败: %v", err), 1)
	}

	// 界面占用终端，日志只能写入文件
	logFile, err := openLogFile(appConfig.LogFile)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法打开日志文件: %v", err), 1)
	}
	defer logFile.Close()
	logger := SetupLogging(appConfig.LogLevel, logFile)
	tui.WithLogger(logger)(appConfig.TUIConfig)

	printRunningConfig(appConfig)
	showSystemInfo()

	fmt.Println("\n正在初始化ping引擎...")

	engine, cleanup, err := newEngine(c.Context, appConfig, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer cleanup()

	fmt.Println("ping引擎初始化成功")
	fmt.Println("\n正在启动TUI界面...")

	printUsageInstructions()

	tuiInstance := tui.NewTUI(engine, appConfig.Snapshot, appConfig.TUIConfig)

	// 阻塞直到用户退出
	if err := tuiInstance.Run(); err != nil {
		return cli.Exit(fmt.Sprintf("TUI运行出错: %v", err), 1)
	}

	fmt.Println("\n程序已退出")
	return nil
}

// newEngine 初始化指标导出、探测执行器和调度器
// 返回的清理函数关闭调度器并刷新指标
func newEngine(ctx context.Context, config *AppConfig, logger *slog.Logger, opts ...scheduler.Option) (*scheduler.Scheduler, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := telemetry.InitMetrics(ctx, config.OTLPEndpoint, AppVersion, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("无法初始化指标导出: %w", err)
	}
	flush := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	meters, err := telemetry.NewMeters()
	if err != nil {
		flush()
		return nil, nil, fmt.Errorf("无法创建指标: %w", err)
	}

	prober, err := newProber(config.PingerConfig)
	if err != nil {
		flush()
		return nil, nil, fmt.Errorf("无法创建ping引擎: %w", err)
	}

	base := []scheduler.Option{
		scheduler.WithLogger(logger),
		scheduler.WithMeters(meters),
		scheduler.WithDefaults(config.Interval, config.Timeout),
		scheduler.WithCellSize(config.TUIConfig.CellWidth, config.TUIConfig.CellHeight),
	}
	engine := scheduler.New(prober, append(base, opts...)...)

	cleanup := func() {
		engine.Close()
		flush()
	}
	return engine, cleanup, nil
}

// printRunningConfig 打印运行配置信息
func printRunningConfig(config *AppConfig) {
	address := config.Snapshot.Address
	if address == "" {
		address = "(未设置，请在界面中输入)"
	}
	fmt.Printf("目标地址: %s\n", address)
	fmt.Printf("ping间隔: %v\n", config.Interval)
	fmt.Printf("ping超时: %v\n", config.Timeout)
	fmt.Printf("IP版本: IPv%d\n", config.PingerConfig.IPVersion)
	fmt.Printf("设置文件: %s\n", config.SettingsPath)
	fmt.Printf("日志文件: %s\n", config.LogFile)
	if config.OTLPEndpoint != "" {
		fmt.Printf("指标导出: %s\n", config.OTLPEndpoint)
	}
}
