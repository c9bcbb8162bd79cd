// Package paths 提供平台相关的配置与数据目录
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const appName = "visualping"

// GetConfigDir 返回平台相关的配置目录
// Unix: $XDG_CONFIG_HOME/visualping 或 ~/.config/visualping
// Windows: %APPDATA%\visualping
func GetConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appName), nil
}

// GetDataDir 返回平台相关的数据目录
// Unix: $XDG_DATA_HOME/visualping 或 ~/.local/share/visualping
// Windows: %LOCALAPPDATA%\visualping
func GetDataDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(base, appName), nil
}

// GetSessionsDir 返回会话CSV日志目录
func GetSessionsDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "sessions"), nil
}

// GetSettingsPath 返回默认设置文件路径
func GetSettingsPath() (string, error) {
	cfgDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "settings.toml"), nil
}

// GetLogFilePath 返回TUI模式下的日志文件路径
func GetLogFilePath() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, appName+".log"), nil
}

// SessionFileName 会话日志文件名，按开始时间命名
func SessionFileName(started time.Time) string {
	return "ping-" + started.Format("20060102-150405") + ".csv"
}

// EnsureDirs 创建所有需要的目录
func EnsureDirs() error {
	dirs := []func() (string, error){GetConfigDir, GetDataDir, GetSessionsDir}
	for _, fn := range dirs {
		dir, err := fn()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
