// Package export 将延迟样本导出为CSV
//
// 样本本身不带时间戳，导出时从参考时间按当前间隔向前推算。
// 运行中重启或修改间隔会让推算时间产生偏差，这是已知的近似。
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// TimeFormat 导出文件中的时间格式
const TimeFormat = "2006-01-02 15:04:05.000"

// Header CSV表头
var Header = []string{"Time", "Ping (ms)"}

// Row 一行导出数据
type Row struct {
	Time      time.Time
	LatencyMs int64
}

// Reconstruct 为样本推算时间戳，样本按从旧到新排列
// 第i个样本（0为最旧）的时间为 now - (n-i)*interval
func Reconstruct(samples []int64, interval time.Duration, now time.Time) []Row {
	n := len(samples)
	rows := make([]Row, n)
	for i, latency := range samples {
		rows[i] = Row{
			Time:      now.Add(-time.Duration(n-i) * interval),
			LatencyMs: latency,
		}
	}
	return rows
}

// WriteCSV 写出表头和所有行
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{row.Time.Format(TimeFormat), strconv.FormatInt(row.LatencyMs, 10)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFile 推算时间戳并写入文件，返回写出的行数
func ExportFile(path string, samples []int64, interval time.Duration, now time.Time) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	rows := Reconstruct(samples, interval, now)
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return len(rows), nil
}
