package ticker

import (
	"sync"
	"testing"
	"time"
)

func TestDriverEmitsImmediatelyAndPeriodically(t *testing.T) {
	driver, err := NewDriver(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	driver.Start()
	defer driver.Stop()

	first := waitTick(t, driver.C(), 50*time.Millisecond)
	second := waitTick(t, driver.C(), time.Second)
	if !second.After(first) {
		t.Fatalf("expected increasing instants: first=%s second=%s", first, second)
	}
}

func TestDriverCoalescesWhenConsumerIsSlow(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	base := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	driver, err := NewDriver(5*time.Millisecond, WithClock(clock))
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	driver.Start()

	time.Sleep(80 * time.Millisecond)
	driver.Stop()

	if driver.Dropped() == 0 {
		t.Fatalf("expected coalesced ticks > 0, got %d", driver.Dropped())
	}

	latest, ok := <-driver.C()
	if !ok {
		t.Fatal("expected one buffered instant after stop")
	}
	mu.Lock()
	last := base.Add(time.Duration(calls) * time.Minute)
	mu.Unlock()
	if !latest.Equal(last) {
		t.Fatalf("expected newest instant %s, got %s", last, latest)
	}
	if _, ok := <-driver.C(); ok {
		t.Fatal("expected channel closed after stop")
	}
}

func TestDriverStopIsIdempotent(t *testing.T) {
	driver, err := NewDriver(time.Millisecond)
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	driver.Stop()
	driver.Start()
	driver.Start()
	driver.Stop()
	driver.Stop()
}

func TestNewDriverValidatesInterval(t *testing.T) {
	if _, err := NewDriver(0); err != ErrInvalidInterval {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func waitTick(t *testing.T, ch <-chan time.Time, timeout time.Duration) time.Time {
	t.Helper()
	select {
	case now, ok := <-ch:
		if !ok {
			t.Fatal("tick channel closed")
		}
		return now
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for tick")
		return time.Time{}
	}
}
