package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kevin-Rudy/visualping/pkg/core"
	"github.com/Kevin-Rudy/visualping/pkg/export"
	"github.com/Kevin-Rudy/visualping/pkg/scheduler"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// runWatch 无界面模式：每个结果输出一行，结束后输出统计
func runWatch(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("错误: 必须指定一个目标地址\n使用方法: visualping watch <目标主机>", 1)
	}

	count := c.Int("count")
	if count < 0 {
		return cli.Exit("错误: --count 不能为负数", 1)
	}

	appConfig, err := buildConfigFromCLI(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("配置加载失败: %v", err), 1)
	}
	if err := validateConfig(appConfig, false); err != nil {
		return cli.Exit(fmt.Sprintf("配置验证失败: %v", err), 1)
	}

	logger := SetupLogging(appConfig.LogLevel, os.Stderr)

	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}
	color := isTerminal(out)
	done := make(chan struct{})
	delivered := 0

	// 回调在调度器的更新循环中执行，delivered无需加锁
	hook := func(cfg core.ProbeConfig, outcome core.ProbeOutcome, sig core.VisualSignal) {
		delivered++
		fmt.Fprintln(out, formatOutcomeLine(delivered, outcome, sig, color))
		if count > 0 && delivered == count {
			close(done)
		}
	}

	engine, cleanup, err := newEngine(ctx, appConfig, logger, scheduler.WithOutcomeHook(hook))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer cleanup()

	probe := appConfig.ProbeConfig()
	fmt.Fprintf(out, "PING %s: 间隔 %v, 超时 %v\n", probe.Address, probe.Interval, probe.Timeout)
	if err := engine.Start(probe); err != nil {
		return cli.Exit(fmt.Sprintf("无法开始探测: %v", err), 1)
	}
	engine.TriggerNow()

	select {
	case <-ctx.Done():
	case <-done:
	}
	engine.Stop()

	state := engine.State()
	printWatchSummary(out, probe.Address, state.Stats)

	if path := c.String("export"); path != "" {
		n, err := export.ExportFile(path, state.Stats.Samples, probe.Interval, time.Now())
		if err != nil {
			return cli.Exit(fmt.Sprintf("导出失败: %v", err), 1)
		}
		fmt.Fprintf(out, "已导出 %d 条记录到 %s\n", n, path)
	}
	return nil
}

// isTerminal 输出目标是否为终端
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// formatOutcomeLine 格式化单次结果
// color 为 true 时在行首绘制一个真彩色色块
func formatOutcomeLine(seq int, outcome core.ProbeOutcome, sig core.VisualSignal, color bool) string {
	swatch := ""
	if color {
		swatch = fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m ", sig.Color.R, sig.Color.G, sig.Color.B)
	}
	return fmt.Sprintf("%s%s seq=%d %-20s %s",
		swatch,
		outcome.At.Format(export.TimeFormat),
		seq,
		outcome.String(),
		sig.Color.Hex())
}

// printWatchSummary 输出统计信息
func printWatchSummary(w io.Writer, address string, st core.StatsSnapshot) {
	fmt.Fprintf(w, "\n--- %s 统计 ---\n", address)
	lossRate := 0.0
	if st.HasLossRate {
		lossRate = st.LossRate
	}
	fmt.Fprintf(w, "发送 %d, 丢失 %d, 丢包率 %.1f%%\n", st.Sent, st.Lost, lossRate)
	if st.HasAverage {
		fmt.Fprintf(w, "最小/平均/最大/标准差 = %d/%.1f/%d/%.1f ms\n", st.Min, st.Average, st.Max, st.StdDev)
	}
}
