// Package scheduler 负责探测节奏、启停生命周期以及过期结果的淘汰
//
// 所有对网格和统计数据的修改都在同一个更新循环goroutine中执行；
// 探测在独立的goroutine中进行，完成后按到达顺序交回更新循环。
// 每次启动/停止都会递增代际编号，携带旧代际编号的结果会被静默丢弃。
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Kevin-Rudy/visualping/pkg/classifier"
	"github.com/Kevin-Rudy/visualping/pkg/core"
	"github.com/Kevin-Rudy/visualping/pkg/grid"
	"github.com/Kevin-Rudy/visualping/pkg/stats"
	"github.com/Kevin-Rudy/visualping/pkg/telemetry"
)

// ErrClosed 调度器已关闭
var ErrClosed = errors.New("scheduler closed")

// completion 一次探测完成后交回更新循环的数据
type completion struct {
	generation uint64
	config     core.ProbeConfig // 发起探测时捕获的配置
	outcome    core.ProbeOutcome
}

// Scheduler 探测调度器
type Scheduler struct {
	prober core.Prober
	logger *slog.Logger
	meters *telemetry.Meters
	now    func() time.Time
	hook   OutcomeHook

	cmdCh    chan func()
	resultCh chan completion
	closeCh  chan struct{}
	doneCh   chan struct{}
	closeMu  sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup

	// 以下字段只由更新循环访问
	running    bool
	generation uint64
	config     core.ProbeConfig
	ticker     *time.Ticker
	grid       *grid.Buffer
	stats      *stats.Aggregator
	last       core.ProbeOutcome
	hasLast    bool
	stale      uint64

	// 对外发布的快照
	mu          sync.RWMutex
	state       core.EngineState
	subscribers []chan core.EngineState
}

// New 创建调度器并启动更新循环，初始状态为Idle
func New(prober core.Prober, opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		prober:   prober,
		logger:   o.logger,
		meters:   o.meters,
		now:      o.clock,
		hook:     o.onOutcome,
		cmdCh:    make(chan func()),
		resultCh: make(chan completion),
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		config:   core.ProbeConfig{Interval: o.interval, Timeout: o.timeout},
		grid:     grid.NewBuffer(o.gridWidth, o.gridHeight, o.cellWidth, o.cellHeight),
		stats:    stats.New(),
	}
	s.publish()

	go s.loop()
	return s
}

// Start 校验配置并进入Running状态
// 已在运行时相当于重启；目标地址变化时统计数据和网格会被重置
func (s *Scheduler) Start(cfg core.ProbeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return s.do(func() error {
		if s.running {
			s.halt()
		}
		if s.config.Address != "" && s.config.Address != cfg.Address {
			s.resetData()
		}

		s.config = cfg
		s.running = true
		s.generation++
		s.ticker = time.NewTicker(cfg.Interval)

		s.logger.Info("probing started",
			"address", cfg.Address,
			"interval", cfg.Interval,
			"timeout", cfg.Timeout,
			"generation", s.generation)
		s.publish()
		return nil
	})
}

// Stop 进入Idle状态，已发出的探测结果将被丢弃
func (s *Scheduler) Stop() {
	_ = s.do(func() error {
		if !s.running {
			return nil
		}
		s.halt()
		s.logger.Info("probing stopped", "address", s.config.Address, "generation", s.generation)
		s.publish()
		return nil
	})
}

// SetInterval 修改探测间隔，从下一次触发开始生效，不改变运行状态
func (s *Scheduler) SetInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: 探测间隔必须大于0", core.ErrInvalidConfig)
	}
	return s.do(func() error {
		s.config.Interval = d
		if s.ticker != nil {
			s.ticker.Reset(d)
		}
		s.logger.Debug("interval changed", "interval", d, "running", s.running)
		s.publish()
		return nil
	})
}

// SetTimeout 修改超时时间，只影响之后发出的探测
func (s *Scheduler) SetTimeout(d time.Duration) error {
	if err := core.ValidateTimeout(d); err != nil {
		return err
	}
	return s.do(func() error {
		s.config.Timeout = d
		s.logger.Debug("timeout changed", "timeout", d)
		s.publish()
		return nil
	})
}

// Clear 清空网格并重置统计数据
func (s *Scheduler) Clear() {
	_ = s.do(func() error {
		s.resetData()
		s.publish()
		return nil
	})
}

// Resize 修改网格容量，网格会被清空
func (s *Scheduler) Resize(width, height int) {
	_ = s.do(func() error {
		s.grid.Resize(width, height)
		s.logger.Debug("grid resized", "width", width, "height", height)
		s.publish()
		return nil
	})
}

// TriggerNow 在Running状态下立即发起一次探测
func (s *Scheduler) TriggerNow() bool {
	fired := false
	_ = s.do(func() error {
		if s.running {
			s.fire()
			fired = true
		}
		return nil
	})
	return fired
}

// State 返回最近发布的状态快照
// 快照中的切片与订阅者共享，调用方应只读
func (s *Scheduler) State() core.EngineState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe 返回一个接收状态更新的通道
// 通道容量为1，只保留最新状态；调度器关闭时通道被关闭
func (s *Scheduler) Subscribe() <-chan core.EngineState {
	ch := make(chan core.EngineState, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.doneCh:
		close(ch)
		return ch
	default:
	}

	ch <- s.state
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe 取消订阅并关闭通道
func (s *Scheduler) Unsubscribe(sub <-chan core.EngineState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ch := range s.subscribers {
		if ch == sub {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// Close 停止调度并结束更新循环，可重复调用
func (s *Scheduler) Close() {
	s.closeMu.Do(func() {
		close(s.closeCh)
		<-s.doneCh
		s.cancel()
		s.inflight.Wait()

		s.mu.Lock()
		for _, ch := range s.subscribers {
			close(ch)
		}
		s.subscribers = nil
		s.mu.Unlock()
	})
}

// loop 更新循环：唯一修改网格与统计数据的地方
func (s *Scheduler) loop() {
	defer close(s.doneCh)

	for {
		var tick <-chan time.Time
		if s.ticker != nil {
			tick = s.ticker.C
		}

		select {
		case fn := <-s.cmdCh:
			fn()

		case <-tick:
			if s.running {
				s.fire()
			}

		case c := <-s.resultCh:
			s.deliver(c)

		case <-s.closeCh:
			if s.running {
				s.halt()
			}
			s.publish()
			return
		}
	}
}

// do 在更新循环中执行fn并等待其返回
func (s *Scheduler) do(fn func() error) error {
	errCh := make(chan error, 1)
	select {
	case s.cmdCh <- func() { errCh <- fn() }:
	case <-s.doneCh:
		return ErrClosed
	}
	return <-errCh
}

// fire 捕获当前代际与配置，异步发起一次探测
// 探测可能持续超过间隔，多个探测允许同时进行
func (s *Scheduler) fire() {
	gen := s.generation
	cfg := s.config

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		outcome := s.runProbe(cfg)
		select {
		case s.resultCh <- completion{generation: gen, config: cfg, outcome: outcome}:
		case <-s.doneCh:
		}
	}()
}

// runProbe 调用执行器，执行器的panic按其他错误处理
func (s *Scheduler) runProbe(cfg core.ProbeConfig) (outcome core.ProbeOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("probe executor panicked", "address", cfg.Address, "panic", r)
			outcome = core.Failure(core.ReasonOther)
		}
		if outcome.At.IsZero() {
			outcome.At = s.now()
		}
	}()
	return s.prober.Probe(s.ctx, cfg.Address, cfg.Timeout)
}

// deliver 将结果交给分类器，再更新网格与统计
func (s *Scheduler) deliver(c completion) {
	if c.generation != s.generation {
		s.stale++
		s.meters.RecordStale(s.ctx)
		s.logger.Debug("discarding stale probe result",
			"address", c.config.Address,
			"generation", c.generation,
			"current", s.generation)
		s.publish()
		return
	}

	signal := classifier.Classify(c.outcome, c.config.TimeoutMs())

	wraps := s.grid.Wraps()
	s.grid.Append(signal.Color)
	if s.grid.Wraps() != wraps {
		s.meters.RecordGridWrap(s.ctx)
	}

	s.stats.Record(c.outcome)
	s.last = c.outcome
	s.hasLast = true
	s.meters.RecordOutcome(s.ctx, c.config.Address, c.outcome)

	if signal.IsError() {
		s.logger.Debug("probe failed", "address", c.config.Address, "reason", c.outcome.Reason.String())
	}
	if s.hook != nil {
		s.hook(c.config, c.outcome, signal)
	}
	s.publish()
}

// halt 停止定时器并使在途探测失效
func (s *Scheduler) halt() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.running = false
	s.generation++
}

func (s *Scheduler) resetData() {
	s.grid.Clear()
	s.stats.Reset()
	s.last = core.ProbeOutcome{}
	s.hasLast = false
}

// publish 生成快照并通知订阅者（非阻塞，只保留最新状态）
func (s *Scheduler) publish() {
	state := core.EngineState{
		Running:        s.running,
		Generation:     s.generation,
		Config:         s.config,
		Grid:           s.grid.Snapshot(),
		Stats:          s.stats.Snapshot(),
		Last:           s.last,
		HasLast:        s.hasLast,
		StaleDiscarded: s.stale,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
	for _, ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			// 丢弃旧状态，替换为最新状态
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}
