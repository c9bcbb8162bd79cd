package main

import (
	"fmt"
	"time"

	"github.com/Kevin-Rudy/visualping/pkg/grid"
	"github.com/Kevin-Rudy/visualping/pkg/pinger"
	"github.com/urfave/cli/v2"
)

// createCliApp 创建CLI应用实例
func createCliApp() *cli.App {
	app := &cli.App{
		Name:    AppName,
		Version: AppVersion,
		Usage:   AppDesc,
		Flags:   createCliFlags(),
		Action:  runApp,
		Before: func(c *cli.Context) error {
			// 显示启动信息
			fmt.Printf("正在启动 %s v%s...\n", AppName, AppVersion)
			return nil
		},
		ArgsUsage: "[目标主机]",
	}

	app.Commands = createCommands()

	return app
}

// probeFlags 探测相关参数，主程序与watch子命令共用
func probeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "6",
			Usage: "使用IPv6进行域名解析",
		},
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"n"},
			Value:   time.Second,
			Usage:   "探测间隔 (TUI模式可选: 500ms, 1s, 2s, 5s)",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Value:   time.Second,
			Usage:   "探测超时 (TUI模式可选: 500ms, 1s, 2s, 5s)",
		},
		&cli.IntFlag{
			Name:    "size",
			Aliases: []string{"s"},
			Value:   pinger.DefaultConfig().PayloadSize,
			Usage:   "ICMP负载字节数",
		},
	}
}

// createCliFlags 创建CLI参数定义
func createCliFlags() []cli.Flag {
	return append(probeFlags(),
		&cli.StringFlag{
			Name:  "settings",
			Usage: "设置文件路径 (.toml, .yaml 或 .xml)，默认位于用户配置目录",
		},
		&cli.BoolFlag{
			Name:  "auto-start",
			Usage: "启动后立即开始探测",
		},
		&cli.BoolFlag{
			Name:  "save-logs",
			Usage: "停止探测时自动保存会话日志",
		},
		&cli.IntFlag{
			Name:  "cell-size",
			Value: grid.DefaultCellSize,
			Usage: "每个终端方块对应的网格单元边长（像素）",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "TUI模式的日志文件路径，默认位于用户数据目录",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "日志级别 (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:    "otlp-endpoint",
			Usage:   "OTLP gRPC 指标导出地址，为空时不导出",
			EnvVars: []string{"OTEL_EXPORTER_OTLP_ENDPOINT"},
		},
	)
}

// createCommands 创建子命令
func createCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "watch",
			Usage:     "不启动界面，逐行输出每次探测结果",
			ArgsUsage: "<目标主机>",
			Flags: append(probeFlags(),
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"c"},
					Usage:   "探测次数，0表示直到Ctrl+C",
				},
				&cli.StringFlag{
					Name:    "export",
					Aliases: []string{"o"},
					Usage:   "结束后将延迟样本导出为CSV文件",
				},
			),
			Action: runWatch,
		},
		{
			Name:  "settings",
			Usage: "查看或保存设置文件",
			Subcommands: []*cli.Command{
				{
					Name:   "show",
					Usage:  "显示生效的设置",
					Action: runSettingsShow,
				},
				{
					Name:      "save",
					Usage:     "将命令行参数合并后写入设置文件",
					ArgsUsage: "[目标主机]",
					Action:    runSettingsSave,
				},
			},
		},
		{
			Name:    "version",
			Aliases: []string{"v"},
			Usage:   "显示详细版本信息",
			Action: func(c *cli.Context) error {
				info := pinger.GetSystemInfo()
				fmt.Printf("%s v%s\n", AppName, AppVersion)
				fmt.Printf("描述: %s\n", AppDesc)
				fmt.Printf("系统: %s\n", info.OSName)
				fmt.Printf("实现: %s\n", info.Implementation)
				return nil
			},
		},
	}
}
