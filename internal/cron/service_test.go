package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/gradevault-backend/pkg/logger"
	"github.com/angelmondragon/gradevault-backend/pkg/metrics"
)

type fakeLock struct {
	acquired bool
	holder   string
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error { f.acquired = false; return nil }

func (f *fakeLock) Holder(context.Context) (string, error) { return f.holder, nil }

type testJob struct {
	name string
	err  error
	runs int
	wait bool
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(ctx context.Context) error {
	t.runs++
	if t.wait {
		<-ctx.Done()
		return ctx.Err()
	}
	return t.err
}

func newTestService(t *testing.T, lock Lock, params ServiceParams, jobs ...Job) *Service {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	params.Logger = logger.New(logger.Options{ServiceName: "cron-test"})
	params.Registry = registry
	params.Lock = lock
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc
}

func TestServiceRunOnceRunsAllJobsAndCombinesFailures(t *testing.T) {
	ok := &testJob{name: "low_stock_scan"}
	bad := &testJob{name: "broken", err: errors.New("boom")}
	alsoBad := &testJob{name: "broken_too", err: errors.New("bang")}
	reg := prometheus.NewRegistry()
	cronMetrics := metrics.NewCronJobMetrics(reg)
	svc := newTestService(t, &fakeLock{}, ServiceParams{Metrics: cronMetrics}, ok, bad, alsoBad)

	err := svc.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected combined error")
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("expected 2 combined errors, got %d (%v)", got, err)
	}
	if !strings.Contains(err.Error(), "broken: boom") {
		t.Fatalf("error should name the failing job: %v", err)
	}
	for _, job := range []*testJob{ok, bad, alsoBad} {
		if job.runs != 1 {
			t.Fatalf("%s ran %d times", job.name, job.runs)
		}
	}
	if v := runCount(t, reg, "low_stock_scan", "success"); v != 1 {
		t.Fatalf("expected 1 success, got %v", v)
	}
	if v := runCount(t, reg, "broken", "failure"); v != 1 {
		t.Fatalf("expected 1 failure, got %v", v)
	}
}

func TestServiceRunOnceSkipsWhenLocked(t *testing.T) {
	job := &testJob{name: "low_stock_scan"}
	svc := newTestService(t, &fakeLock{acquired: true, holder: "replica-b/abc"}, ServiceParams{}, job)
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job skipped while locked, ran %d", job.runs)
	}
	if svc.interval != defaultInterval || svc.jobTimeout != defaultJobTimeout {
		t.Fatalf("unexpected defaults interval=%s timeout=%s", svc.interval, svc.jobTimeout)
	}
}

func TestServiceJobTimeout(t *testing.T) {
	slow := &testJob{name: "slow", wait: true}
	svc := newTestService(t, &fakeLock{}, ServiceParams{JobTimeout: 10 * time.Millisecond}, slow)
	err := svc.RunOnce(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestServiceRunJob(t *testing.T) {
	first := &testJob{name: "low_stock_scan"}
	second := &testJob{name: "other"}
	svc := newTestService(t, &fakeLock{}, ServiceParams{}, first, second)

	if err := svc.RunJob(context.Background(), "low_stock_scan"); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if first.runs != 1 || second.runs != 0 {
		t.Fatalf("unexpected runs first=%d second=%d", first.runs, second.runs)
	}
	if err := svc.RunJob(context.Background(), "missing"); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("expected ErrUnknownJob, got %v", err)
	}
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	job := &testJob{name: "low_stock_scan"}
	svc := newTestService(t, &fakeLock{}, ServiceParams{Interval: time.Hour}, job)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewServiceRequiresLoggerAndLock(t *testing.T) {
	if _, err := NewService(ServiceParams{Lock: &fakeLock{}}); err == nil {
		t.Fatal("expected error without logger")
	}
	if _, err := NewService(ServiceParams{Logger: logger.New(logger.Options{ServiceName: "cron-test"})}); err == nil {
		t.Fatal("expected error without lock")
	}
}

func runCount(t *testing.T, reg *prometheus.Registry, job, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "gradevault_cron_job_runs_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["job"] == job && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
