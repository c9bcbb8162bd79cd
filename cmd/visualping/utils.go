package main

import (
	"fmt"

	"github.com/Kevin-Rudy/visualping/pkg/pinger"
)

// 程序信息常量
const (
	AppName    = "visualping"
	AppVersion = "0.2.0"
	AppDesc    = "以颜色网格呈现延迟变化的可视化PING工具"
)

// showSystemInfo 显示系统环境信息
func showSystemInfo() {
	info := pinger.GetSystemInfo()
	fmt.Println("\n系统信息:")
	fmt.Printf("  操作系统: %s\n", info.OSName)
	fmt.Printf("  权限状态: %s\n", info.PrivilegeStatus)
	fmt.Printf("  实现方式: %s\n", info.Implementation)
}

// printUsageInstructions 显示TUI操作说明
func printUsageInstructions() {
	fmt.Println("操作说明:")
	fmt.Println("  s           - 开始/停止探测")
	fmt.Println("  a 或 /      - 编辑目标地址")
	fmt.Println("  + / -       - 调整探测间隔")
	fmt.Println("  t           - 切换超时时间")
	fmt.Println("  c           - 清空网格与统计")
	fmt.Println("  g           - 显示/隐藏网格")
	fmt.Println("  e           - 导出CSV")
	fmt.Println("  w           - 保存设置")
	fmt.Println("  q 或 Ctrl+C - 退出程序")
	fmt.Println("========================================")
}
