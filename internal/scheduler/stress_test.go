package scheduler

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestEngineStressConcurrentScheduleAndCancel(t *testing.T) {
	engine := NewEngine(4096)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 200

	now := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				delay := time.Duration((w+i)%50+10) * time.Millisecond
				ev := Event{
					ID:        fmt.Sprintf("w%d-%d", w, i),
					Kind:      KindAdvance,
					CardID:    fmt.Sprintf("%d", i),
					Token:     uint64(i),
					TriggerAt: now.Add(delay + 200*time.Millisecond),
				}
				if err := engine.Schedule(ev); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
				// Every odd event is superseded before it fires.
				if i%2 == 1 && !engine.Cancel(ev.ID) {
					t.Errorf("cancel %s: not pending", ev.ID)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	total := workers * perWorker / 2
	deadline := time.After(5 * time.Second)
	seen := make(map[string]bool, total)
	for len(seen) < total {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting events: received=%d total=%d dropped=%d", len(seen), total, engine.Dropped())
		case ev := <-engine.C():
			if ev.Token%2 == 1 {
				t.Fatalf("cancelled event delivered: %+v", ev)
			}
			seen[ev.ID] = true
		}
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got=%d", engine.Dropped())
	}
}

func TestTickerStopStartCycles(t *testing.T) {
	ticker := NewTicker(time.Millisecond)
	for i := 0; i < 50; i++ {
		ticker.Start()
		ticker.Start()
		time.Sleep(time.Millisecond)
		ticker.Stop()
	}
	if ticker.Running() {
		t.Fatal("expected ticker stopped")
	}
}
