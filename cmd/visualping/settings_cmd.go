package main

import (
	"fmt"

	"github.com/Kevin-Rudy/visualping/pkg/settings"
	"github.com/urfave/cli/v2"
)

// runSettingsShow 显示合并命令行参数后生效的设置
func runSettingsShow(c *cli.Context) error {
	appConfig, err := buildConfigFromCLI(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("配置加载失败: %v", err), 1)
	}

	data, err := settings.Marshal(appConfig.SettingsPath, appConfig.Snapshot)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法编码设置: %v", err), 1)
	}

	fmt.Fprintf(c.App.Writer, "# %s\n", appConfig.SettingsPath)
	fmt.Fprint(c.App.Writer, string(data))
	return nil
}

// runSettingsSave 将命令行参数合并到设置文件
func runSettingsSave(c *cli.Context) error {
	appConfig, err := buildConfigFromCLI(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("配置加载失败: %v", err), 1)
	}
	if err := validateConfig(appConfig, true); err != nil {
		return cli.Exit(fmt.Sprintf("配置验证失败: %v", err), 1)
	}

	if err := settings.Save(appConfig.SettingsPath, appConfig.Snapshot); err != nil {
		return cli.Exit(fmt.Sprintf("保存设置失败: %v", err), 1)
	}

	fmt.Fprintf(c.App.Writer, "设置已保存到 %s\n", appConfig.SettingsPath)
	return nil
}
