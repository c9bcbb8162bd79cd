package stats

import (
	"math"
	"testing"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// TestAlternatingOutcomes 成功与失败交替n次：sent=2n, lost=n, 丢包率50%
func TestAlternatingOutcomes(t *testing.T) {
	for _, n := range []int{1, 2, 10, 250} {
		a := New()
		for i := 0; i < n; i++ {
			a.RecordSuccess(int64(i))
			a.RecordFailure()
		}

		if a.Sent() != 2*n {
			t.Errorf("n=%d: expected sent=%d, got %d", n, 2*n, a.Sent())
		}
		if a.Lost() != n {
			t.Errorf("n=%d: expected lost=%d, got %d", n, n, a.Lost())
		}
		rate, ok := a.LossRate()
		if !ok || rate != 50 {
			t.Errorf("n=%d: expected loss rate 50%%, got %v (ok=%v)", n, rate, ok)
		}
	}
}

// TestNoDataSentinels 无数据时返回显式的"无数据"标记
func TestNoDataSentinels(t *testing.T) {
	a := New()

	if avg, ok := a.AverageLatency(); ok || math.IsNaN(avg) {
		t.Errorf("expected no-data sentinel, got avg=%v ok=%v", avg, ok)
	}
	if rate, ok := a.LossRate(); ok || math.IsNaN(rate) {
		t.Errorf("expected no-data sentinel, got rate=%v ok=%v", rate, ok)
	}

	// 只有失败时平均值仍然无数据
	a.RecordFailure()
	if _, ok := a.AverageLatency(); ok {
		t.Error("average should stay undefined without successful samples")
	}
	if rate, ok := a.LossRate(); !ok || rate != 100 {
		t.Errorf("expected 100%% loss, got %v", rate)
	}

	snap := a.Snapshot()
	if snap.HasAverage || math.IsNaN(snap.Average) {
		t.Errorf("snapshot should carry the no-data sentinel, got %+v", snap)
	}
}

// TestAverageIgnoresFailures 平均值只基于成功样本
func TestAverageIgnoresFailures(t *testing.T) {
	a := New()
	a.Record(core.Success(5))
	a.Record(core.Failure(core.ReasonTimedOut))
	a.Record(core.Success(300))

	avg, ok := a.AverageLatency()
	if !ok || avg != 152.5 {
		t.Errorf("expected average 152.5, got %v", avg)
	}

	rate, _ := a.LossRate()
	if math.Abs(rate-33.333) > 0.01 {
		t.Errorf("expected loss rate ~33.3%%, got %v", rate)
	}
}

// TestMinMaxStdDev 测试最小/最大值与标准差
func TestMinMaxStdDev(t *testing.T) {
	a := New()
	for _, v := range []int64{10, 20, 30, 40, 50} {
		a.RecordSuccess(v)
	}

	snap := a.Snapshot()
	if snap.Min != 10 || snap.Max != 50 {
		t.Errorf("expected min=10 max=50, got min=%d max=%d", snap.Min, snap.Max)
	}
	// 样本标准差 sqrt(250)
	if math.Abs(snap.StdDev-math.Sqrt(250)) > 0.001 {
		t.Errorf("expected stddev %.3f, got %.3f", math.Sqrt(250), snap.StdDev)
	}

	single := New()
	single.RecordSuccess(3)
	if _, ok := single.StdDev(); ok {
		t.Error("stddev needs at least two samples")
	}
}

// TestReset 测试重置
func TestReset(t *testing.T) {
	a := New()
	a.RecordSuccess(12)
	a.RecordFailure()
	a.Reset()

	if a.Sent() != 0 || a.Lost() != 0 || len(a.Samples()) != 0 {
		t.Errorf("Reset should zero everything, got sent=%d lost=%d samples=%d", a.Sent(), a.Lost(), len(a.Samples()))
	}

	a.RecordSuccess(99)
	snap := a.Snapshot()
	if snap.Min != 99 || snap.Max != 99 {
		t.Errorf("min/max should restart after reset, got %d/%d", snap.Min, snap.Max)
	}
}

// TestSamplesCopy 样本副本与内部存储互不影响
func TestSamplesCopy(t *testing.T) {
	a := New()
	a.RecordSuccess(1)
	s := a.Samples()
	s[0] = 1000
	if a.Samples()[0] != 1 {
		t.Error("Samples should return a copy")
	}
}
