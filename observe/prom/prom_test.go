package prom

import (
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/NetPo4ki/go-mpsc/mpsc"
)

func newMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := New(WithRegisterer(prometheus.NewRegistry()), WithNamespace("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestMetricsTrackChannel(t *testing.T) {
	t.Parallel()
	m := newMetrics(t)
	tx, rx := mpsc.New[int](mpsc.WithName("jobs"), mpsc.WithObserver(m))
	defer rx.Drop()
	c := tx.Clone()
	_ = tx.Send(1)
	_ = c.Send(2)
	_ = tx.Send(3)
	_, _ = rx.Recv()

	if got := testutil.ToFloat64(m.sent.WithLabelValues("jobs")); got != 3 {
		t.Fatalf("expected 3 sent, got %v", got)
	}
	if got := testutil.ToFloat64(m.received.WithLabelValues("jobs")); got != 1 {
		t.Fatalf("expected 1 received, got %v", got)
	}
	if got := testutil.ToFloat64(m.queued.WithLabelValues("jobs")); got != 2 {
		t.Fatalf("expected 2 queued, got %v", got)
	}
	if got := testutil.ToFloat64(m.senders.WithLabelValues("jobs")); got != 2 {
		t.Fatalf("expected 2 senders, got %v", got)
	}

	tx.Drop()
	if got := testutil.ToFloat64(m.senders.WithLabelValues("jobs")); got != 1 {
		t.Fatalf("expected 1 sender, got %v", got)
	}
	rx.Close()
	_ = c.Send(4)
	if got := testutil.ToFloat64(m.rejected.WithLabelValues("jobs")); got != 1 {
		t.Fatalf("expected 1 rejected send, got %v", got)
	}
	c.Drop()
	_ = c.Send(5)
	if got := testutil.ToFloat64(m.rejected.WithLabelValues("jobs")); got != 1 {
		t.Fatalf("sends on a dropped handle should not count, got %v rejected", got)
	}
	if got := testutil.ToFloat64(m.closed.WithLabelValues("jobs", "receiver_closed")); got != 1 {
		t.Fatalf("expected one receiver_closed close, got %v", got)
	}
	if got := testutil.CollectAndCount(m.closed); got != 1 {
		t.Fatalf("expected a single closed series, got %d", got)
	}
}

func TestQueuedZeroAfterReceiverDrop(t *testing.T) {
	t.Parallel()
	m := newMetrics(t)
	tx, rx := mpsc.New[int](mpsc.WithName("orders"), mpsc.WithObserver(m))
	defer tx.Drop()
	for i := 0; i < 3; i++ {
		_ = tx.Send(i)
	}
	rx.Drop()

	if rx.Len() != 0 {
		t.Fatalf("expected empty queue after drop, got %d", rx.Len())
	}
	if got := testutil.ToFloat64(m.queued.WithLabelValues("orders")); got != 0 {
		t.Fatalf("expected queued gauge 0 after receiver drop, got %v", got)
	}
	if got := testutil.ToFloat64(m.discarded.WithLabelValues("orders")); got != 3 {
		t.Fatalf("expected 3 discarded, got %v", got)
	}
}

func TestReleasedChannelsLeaveNoSeries(t *testing.T) {
	t.Parallel()
	m := newMetrics(t)
	for i := 0; i < 100; i++ {
		tx, rx := mpsc.New[int](mpsc.WithObserver(m))
		c := tx.Clone()
		_ = tx.Send(i)
		_ = c.Send(i)
		_, _ = rx.Recv()
		tx.Drop()
		if i%2 == 0 {
			rx.Drop()
			c.Drop()
		} else {
			c.Drop()
			rx.Drop()
		}
	}
	for name, c := range map[string]prometheus.Collector{
		"sent": m.sent, "received": m.received, "discarded": m.discarded,
		"closed": m.closed, "queued": m.queued, "senders": m.senders,
	} {
		if got := testutil.CollectAndCount(c); got != 0 {
			t.Fatalf("expected no %s series after release, got %d", name, got)
		}
	}
}

func TestGaugesSettleUnderConcurrency(t *testing.T) {
	t.Parallel()
	m := newMetrics(t)
	tx, rx := mpsc.New[int](mpsc.WithName("busy"), mpsc.WithObserver(m))
	defer rx.Drop()

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		s := tx.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.Drop()
			for i := 0; i < 100; i++ {
				_ = s.Send(i)
			}
		}()
	}
	for i := 0; i < 200; i++ {
		_, _ = rx.Recv()
	}
	wg.Wait()

	queued := float64(rx.Len())
	if got := testutil.ToFloat64(m.queued.WithLabelValues("busy")); got != queued {
		t.Fatalf("expected queued gauge %v, got %v", queued, got)
	}
	if got := testutil.ToFloat64(m.senders.WithLabelValues("busy")); got != 1 {
		t.Fatalf("expected 1 sender left, got %v", got)
	}
	tx.Drop()
}

func TestRegistrationConflict(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	if _, err := New(WithRegisterer(reg)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := New(WithRegisterer(reg)); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected MustNew to panic")
		} else if _, ok := r.(error); !ok {
			t.Fatalf("expected registration error, got %s", fmt.Sprint(r))
		}
	}()
	MustNew(WithRegisterer(reg))
}
