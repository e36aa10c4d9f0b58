package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"DCADashboard/internal/logger"
	"DCADashboard/internal/model"
	"DCADashboard/internal/notifier"
	"DCADashboard/internal/strategy"
)

// Collector produces a fresh snapshot of every configured series.
type Collector interface {
	Collect(ctx context.Context) (*model.Snapshot, error)
}

// Recorder receives evaluation results and timings, e.g. Prometheus metrics.
type Recorder interface {
	RecordEvaluation(eval *model.Evaluation)
	RecordLatency(op string, seconds float64)
}

// Scheduler manages the cron tasks and holds the latest snapshot together
// with the runtime-adjustable parameters.
type Scheduler struct {
	Cron      *cron.Cron
	Collector Collector
	Notifier  notifier.Sender
	Metrics   Recorder
	Log       *logger.Logger
	Ctx       context.Context

	mu       sync.RWMutex
	params   strategy.Params
	snapshot *model.Snapshot
	current  *model.Evaluation
}

// NewScheduler creates a new Scheduler. rec may be nil.
func NewScheduler(ctx context.Context, col Collector, sender notifier.Sender, rec Recorder, params strategy.Params, log *logger.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  sender,
		Metrics:   rec,
		Log:       log,
		Ctx:       ctx,
		params:    params,
	}
}

// RegisterAll registers the refresh and report tasks.
func (s *Scheduler) RegisterAll(refreshCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, func() {
		if err := s.Refresh(s.Ctx); err != nil {
			s.Log.Error("scheduled refresh failed", logger.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if reportCron != "" {
		if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
			return fmt.Errorf("register report task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", logger.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// Refresh collects a new snapshot, evaluates it with the current params,
// publishes metrics and notifies alerts that were not raised by the
// previous evaluation.
func (s *Scheduler) Refresh(ctx context.Context) error {
	log := s.Log.With(logger.String("run_id", uuid.NewString()))
	start := time.Now()
	log.Info("refresh started")

	snap, err := s.Collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	s.mu.Lock()
	prev := s.current
	eval := s.evaluate(snap, s.params)
	s.snapshot = snap
	s.current = eval
	s.mu.Unlock()

	if s.Metrics != nil {
		s.Metrics.RecordEvaluation(eval)
		s.Metrics.RecordLatency("refresh", time.Since(start).Seconds())
	}

	available := 0
	for _, a := range eval.Assets {
		if a.Available {
			available++
		}
	}
	log.Info("refresh completed",
		logger.Int("assets", len(eval.Assets)), logger.Int("available", available),
		logger.Int("arbitrage_alerts", eval.AlertCount()), logger.Int("rebalance_alerts", len(eval.Rebalance)),
		logger.Duration("took", time.Since(start)))

	arb, reb := NewAlerts(prev, eval)
	if len(arb)+len(reb) > 0 {
		s.trySend(ctx, notifier.FormatNewAlerts(arb, reb))
	}
	return nil
}

func (s *Scheduler) evaluate(snap *model.Snapshot, p strategy.Params) *model.Evaluation {
	start := time.Now()
	eval := strategy.Evaluate(snap, p)
	if s.Metrics != nil {
		s.Metrics.RecordLatency("evaluate", time.Since(start).Seconds())
	}
	return eval
}

// Latest returns the most recent snapshot, or nil before the first refresh.
func (s *Scheduler) Latest() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Current returns the evaluation of the latest snapshot with the current params.
func (s *Scheduler) Current() (*model.Evaluation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// Params returns a copy of the current evaluation parameters.
func (s *Scheduler) Params() strategy.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// SetThreshold changes the deviation threshold, given in percent, and
// re-evaluates the latest snapshot.
func (s *Scheduler) SetThreshold(pct float64) error {
	if pct <= 0 || pct > 100 {
		return fmt.Errorf("threshold must be in (0, 100], got %g", pct)
	}
	s.mu.Lock()
	s.params.Threshold = strategy.ThresholdFromPercent(pct)
	if s.snapshot != nil {
		s.current = s.evaluate(s.snapshot, s.params)
	}
	eval := s.current
	s.mu.Unlock()

	if eval != nil && s.Metrics != nil {
		s.Metrics.RecordEvaluation(eval)
	}
	s.Log.Info("deviation threshold updated", logger.Float("percent", pct))
	return nil
}

func (s *Scheduler) reportTask() {
	eval, ok := s.Current()
	if !ok {
		s.Log.Warn("report skipped, no data yet")
		return
	}
	s.trySend(s.Ctx, notifier.FormatReport(eval))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i] // "/report@my_bot" in group chats
	}

	if name == "/refresh" {
		if err := s.Refresh(ctx); err != nil {
			return fmt.Sprintf("❌ refresh failed: %v", err)
		}
		name = "/report"
	}

	if name == "/threshold" {
		if len(fields) != 2 {
			return fmt.Sprintf("Current threshold: %.1f%%\nUsage: /threshold 10", strategy.ThresholdToPercent(s.Params().Threshold))
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "%"), 64)
		if err != nil {
			return "❌ not a number: " + fields[1]
		}
		if err := s.SetThreshold(pct); err != nil {
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("✅ threshold set to %.1f%%", pct)
	}

	eval, ok := s.Current()
	switch name {
	case "/report", "/alloc", "/alerts", "/macro":
		if !ok {
			return "⏳ No data yet, try again after the first refresh"
		}
	default:
		return usage
	}

	switch name {
	case "/alloc":
		return notifier.FormatAllocations(eval)
	case "/alerts":
		return notifier.FormatAlerts(eval)
	case "/macro":
		return notifier.FormatMacro(eval)
	default:
		return notifier.FormatReport(eval)
	}
}

const usage = "Commands:\n" +
	"• /report full dashboard\n" +
	"• /alloc allocation split\n" +
	"• /alerts arbitrage and rebalance alerts\n" +
	"• /macro macro indicators\n" +
	"• /threshold N set deviation threshold in percent\n" +
	"• /refresh fetch data now"

// NewAlerts returns the alerts of cur that prev did not raise. A nil prev
// makes every alert new.
func NewAlerts(prev, cur *model.Evaluation) ([]model.ArbitrageAlert, []model.RebalanceAlert) {
	seenArb := map[string]bool{}
	seenReb := map[string]bool{}
	if prev != nil {
		for _, t := range prev.Arbitrage {
			for _, a := range t.Alerts {
				seenArb[arbitrageKey(a)] = true
			}
		}
		for _, r := range prev.Rebalance {
			seenReb[r.Asset] = true
		}
	}

	var arb []model.ArbitrageAlert
	for _, t := range cur.Arbitrage {
		for _, a := range t.Alerts {
			if !seenArb[arbitrageKey(a)] {
				arb = append(arb, a)
			}
		}
	}
	var reb []model.RebalanceAlert
	for _, r := range cur.Rebalance {
		if !seenReb[r.Asset] {
			reb = append(reb, r)
		}
	}
	return arb, reb
}

func arbitrageKey(a model.ArbitrageAlert) string {
	return a.A + "\x00" + a.B + "\x00" + strconv.FormatFloat(a.Threshold, 'f', -1, 64)
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		s.Log.Error("send notification failed", logger.Error(err))
	}
}
