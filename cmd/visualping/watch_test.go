package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Kevin-Rudy/visualping/pkg/classifier"
	"github.com/Kevin-Rudy/visualping/pkg/core"
)

func TestFormatOutcomeLine(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

	ok := core.Success(300)
	ok.At = at
	sig := classifier.Classify(ok, 1000)

	line := formatOutcomeLine(7, ok, sig, false)
	for _, want := range []string{"2024-03-01 12:00:00.000", "seq=7", "300 ms", sig.Color.Hex()} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "\x1b[") {
		t.Errorf("plain output should not contain escape codes: %q", line)
	}

	lost := core.Failure(core.ReasonTimedOut)
	lost.At = at
	colored := formatOutcomeLine(8, lost, classifier.Classify(lost, 1000), true)
	if !strings.HasPrefix(colored, "\x1b[48;2;255;0;0m") {
		t.Errorf("expected red swatch for timeout, got %q", colored)
	}
	if !strings.Contains(colored, "timed out") {
		t.Errorf("expected failure reason in line, got %q", colored)
	}
}

func TestPrintWatchSummary(t *testing.T) {
	var buf bytes.Buffer
	printWatchSummary(&buf, "10.0.0.1", core.StatsSnapshot{
		Sent:        4,
		Lost:        1,
		LossRate:    25,
		HasLossRate: true,
		Average:     152.5,
		HasAverage:  true,
		Min:         5,
		Max:         300,
		StdDev:      147.5,
	})

	out := buf.String()
	for _, want := range []string{"10.0.0.1", "发送 4", "丢失 1", "25.0%", "5/152.5/300/147.5 ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary %q missing %q", out, want)
		}
	}

	buf.Reset()
	printWatchSummary(&buf, "10.0.0.1", core.StatsSnapshot{})
	if strings.Contains(buf.String(), "最小") {
		t.Errorf("summary without samples should omit latency line: %q", buf.String())
	}
}
