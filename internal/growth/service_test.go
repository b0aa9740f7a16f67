package growth

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vendygo/vendygo-backend/pkg/config"
	"github.com/vendygo/vendygo-backend/pkg/logger"
)

type fakeFeed struct {
	batches [][]Commitment
	calls   int
	err     error
}

func (f *fakeFeed) Name() string { return "fake" }

func (f *fakeFeed) Next(ctx context.Context) ([]Commitment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.batches) {
		return nil, nil
	}
	batch := f.batches[f.calls]
	f.calls++
	return batch, nil
}

type fakeLedger struct {
	applied map[uuid.UUID]int
	errFor  map[uuid.UUID]error
	clampTo map[uuid.UUID]int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		applied: make(map[uuid.UUID]int),
		errFor:  make(map[uuid.UUID]error),
		clampTo: make(map[uuid.UUID]int),
	}
}

func (f *fakeLedger) ApplyExternalCommitment(ctx context.Context, campaignID uuid.UUID, delta int) (int, error) {
	if err := f.errFor[campaignID]; err != nil {
		return 0, err
	}
	if clamp, ok := f.clampTo[campaignID]; ok && delta > clamp {
		delta = clamp
	}
	f.applied[campaignID] += delta
	return delta, nil
}

type fakeLock struct {
	available bool
	acquired  int
	released  int
}

func (f *fakeLock) Acquire(ctx context.Context) (bool, error) {
	f.acquired++
	return f.available, nil
}

func (f *fakeLock) Release(ctx context.Context) error {
	f.released++
	return nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Options{ServiceName: "growth-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func newTestService(t *testing.T, feed Feed, ledger *fakeLedger, lock Lock) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger: testLogger(t),
		Feed:   feed,
		Ledger: ledger,
		Lock:   lock,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRunCycleAppliesBatch(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	feed := &fakeFeed{batches: [][]Commitment{{
		{CampaignID: a, Delta: 10},
		{CampaignID: b, Delta: 20},
	}}}
	ledger := newFakeLedger()
	ledger.clampTo[b] = 7
	lock := &fakeLock{available: true}
	svc := newTestService(t, feed, ledger, lock)

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if ledger.applied[a] != 10 {
		t.Fatalf("expected 10 applied to a, got %d", ledger.applied[a])
	}
	if ledger.applied[b] != 7 {
		t.Fatalf("expected clamped 7 applied to b, got %d", ledger.applied[b])
	}
	if lock.released != 1 {
		t.Fatalf("expected lock released once, got %d", lock.released)
	}
}

func TestRunCycleSkipsWithoutLock(t *testing.T) {
	a := uuid.New()
	feed := &fakeFeed{batches: [][]Commitment{{{CampaignID: a, Delta: 10}}}}
	ledger := newFakeLedger()
	lock := &fakeLock{available: false}
	svc := newTestService(t, feed, ledger, lock)

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if feed.calls != 0 {
		t.Fatal("feed must not be polled without the lock")
	}
	if len(ledger.applied) != 0 {
		t.Fatalf("expected no commitments applied, got %v", ledger.applied)
	}
	if lock.released != 0 {
		t.Fatal("nothing to release when the lock was not acquired")
	}
}

func TestRunCycleContinuesPastFailedCommitment(t *testing.T) {
	bad, good := uuid.New(), uuid.New()
	feed := &fakeFeed{batches: [][]Commitment{{
		{CampaignID: bad, Delta: 5},
		{CampaignID: good, Delta: 8},
	}}}
	ledger := newFakeLedger()
	ledger.errFor[bad] = errors.New("campaign gone")
	svc := newTestService(t, feed, ledger, &fakeLock{available: true})

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if ledger.applied[good] != 8 {
		t.Fatalf("expected remaining commitment applied, got %d", ledger.applied[good])
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	feed := &fakeFeed{}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(t),
		Feed:     feed,
		Ledger:   newFakeLedger(),
		Lock:     &fakeLock{available: true},
		Interval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

type fakeCampaignSource struct {
	ids []uuid.UUID
}

func (f *fakeCampaignSource) OpenCampaignIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.ids, nil
}

func TestRandomFeedDeltaRange(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	feed, err := NewRandomFeed(&fakeCampaignSource{ids: ids}, config.GrowthConfig{MinDelta: 5, MaxDelta: 25})
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}

	batch, err := feed.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(batch) != len(ids) {
		t.Fatalf("expected one commitment per campaign, got %d", len(batch))
	}
	for _, c := range batch {
		if c.Delta < 5 || c.Delta > 25 {
			t.Fatalf("delta %d outside [5, 25]", c.Delta)
		}
	}
}

func TestNewRandomFeedValidatesRange(t *testing.T) {
	if _, err := NewRandomFeed(&fakeCampaignSource{}, config.GrowthConfig{MinDelta: 0, MaxDelta: 10}); err == nil {
		t.Fatal("expected range validation error")
	}
	if _, err := NewRandomFeed(&fakeCampaignSource{}, config.GrowthConfig{MinDelta: 10, MaxDelta: 5}); err == nil {
		t.Fatal("expected range validation error")
	}
}
