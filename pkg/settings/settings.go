// Package settings 用户设置的持久化
//
// 设置文件按扩展名选择格式：.toml、.yaml/.yml 或 .xml。
// 三种格式字段一致，可以无损往返。
package settings

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Kevin-Rudy/visualping/pkg/core"
	"github.com/Kevin-Rudy/visualping/pkg/paths"
)

// ErrUnknownFormat 无法根据扩展名确定文件格式
var ErrUnknownFormat = errors.New("unknown settings format")

// DefaultIndex 间隔与超时的默认选项（1000ms）
const DefaultIndex = 1

// IntervalChoices 可选的探测间隔
var IntervalChoices = []time.Duration{
	500 * time.Millisecond,
	1000 * time.Millisecond,
	2000 * time.Millisecond,
	5000 * time.Millisecond,
}

// TimeoutChoices 可选的超时时间
var TimeoutChoices = []time.Duration{
	500 * time.Millisecond,
	1000 * time.Millisecond,
	2000 * time.Millisecond,
	5000 * time.Millisecond,
}

// Snapshot 持久化的用户设置，纯数据对象
type Snapshot struct {
	Address       string `toml:"address" yaml:"address" xml:"Address"`
	IntervalIndex int    `toml:"interval_index" yaml:"interval_index" xml:"IntervalIndex"`
	TimeoutIndex  int    `toml:"timeout_index" yaml:"timeout_index" xml:"TimeoutIndex"`
	AutoStart     bool   `toml:"auto_start" yaml:"auto_start" xml:"AutoStart"`
	SaveLogs      bool   `toml:"save_logs" yaml:"save_logs" xml:"SaveLogs"`
	ShowGrid      bool   `toml:"show_grid" yaml:"show_grid" xml:"ShowGrid"`
	AlwaysOnTop   bool   `toml:"always_on_top" yaml:"always_on_top" xml:"AlwaysOnTop"`
}

// xmlDocument XML文件的根元素为 <Settings>
type xmlDocument struct {
	XMLName xml.Name `xml:"Settings"`
	Snapshot
}

// Default 返回默认设置
func Default() Snapshot {
	return Snapshot{
		IntervalIndex: DefaultIndex,
		TimeoutIndex:  DefaultIndex,
		ShowGrid:      true,
	}
}

// Interval 返回选中的探测间隔，越界时使用默认值
func (s Snapshot) Interval() time.Duration {
	return choose(IntervalChoices, s.IntervalIndex)
}

// Timeout 返回选中的超时时间，越界时使用默认值
func (s Snapshot) Timeout() time.Duration {
	return choose(TimeoutChoices, s.TimeoutIndex)
}

// ProbeConfig 转换为探测配置
func (s Snapshot) ProbeConfig() core.ProbeConfig {
	return core.ProbeConfig{
		Address:  strings.TrimSpace(s.Address),
		Interval: s.Interval(),
		Timeout:  s.Timeout(),
	}
}

func choose(choices []time.Duration, index int) time.Duration {
	if index < 0 || index >= len(choices) {
		return choices[DefaultIndex]
	}
	return choices[index]
}

// IndexOf 返回d在choices中的下标，不存在时返回-1
func IndexOf(choices []time.Duration, d time.Duration) int {
	for i, c := range choices {
		if c == d {
			return i
		}
	}
	return -1
}

// DefaultPath 返回默认设置文件路径
func DefaultPath() (string, error) {
	return paths.GetSettingsPath()
}

type format int

const (
	formatTOML format = iota
	formatYAML
	formatXML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".xml":
		return formatXML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Marshal 按格式编码设置
func Marshal(path string, snap Snapshot) ([]byte, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	switch f {
	case formatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(snap); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatYAML:
		return yaml.Marshal(snap)
	default:
		data, err := xml.MarshalIndent(xmlDocument{Snapshot: snap}, "", "  ")
		if err != nil {
			return nil, err
		}
		return append([]byte(xml.Header), append(data, '\n')...), nil
	}
}

// Unmarshal 按格式解码设置，缺失字段保留默认值
func Unmarshal(path string, data []byte) (Snapshot, error) {
	f, err := formatOf(path)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Default()
	switch f {
	case formatTOML:
		err = toml.Unmarshal(data, &snap)
	case formatYAML:
		err = yaml.Unmarshal(data, &snap)
	default:
		doc := xmlDocument{Snapshot: snap}
		err = xml.Unmarshal(data, &doc)
		snap = doc.Snapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return snap, nil
}

// Save 写入设置文件，必要时创建父目录
func Save(path string, snap Snapshot) error {
	data, err := Marshal(path, snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Load 读取设置文件
// 文件不存在时返回的错误满足 errors.Is(err, fs.ErrNotExist)
func Load(path string) (Snapshot, error) {
	if _, err := formatOf(path); err != nil {
		return Snapshot{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	return Unmarshal(path, data)
}

// LoadOrDefault 读取设置文件，文件不存在时返回默认设置
func LoadOrDefault(path string) (Snapshot, error) {
	snap, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return snap, err
}
