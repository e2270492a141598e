package reactive

import (
	"testing"
)

func TestBatchSingleNotification(t *testing.T) {
	first := NewSignal("")
	last := NewSignal("")
	listener := newTestListener()

	WithListener(listener, func() {
		_ = first.Get()
		_ = last.Get()
	})

	Batch(func() {
		first.Set("John")
		last.Set("Doe")
		if listener.getDirtyCount() != 0 {
			t.Error("listener should not be notified inside a batch")
		}
	})

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
}

func TestBatchNested(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()
	count.Subscribe(listener)

	Batch(func() {
		count.Set(1)
		Batch(func() {
			count.Set(2)
		})
		if listener.getDirtyCount() != 0 {
			t.Error("inner batch should not flush")
		}
		count.Set(3)
	})

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
}

func TestBatchModify(t *testing.T) {
	items := NewSignal([]int{})
	listener := newTestListener()
	items.Subscribe(listener)

	Batch(func() {
		for i := range 10 {
			items.Modify(func(v *[]int) { *v = append(*v, i) })
		}
	})

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
	if len(items.Peek()) != 10 {
		t.Errorf("expected 10 items, got %d", len(items.Peek()))
	}
}

func TestBatchFlushesAfterPanic(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()
	count.Subscribe(listener)

	func() {
		defer func() { _ = recover() }()
		Batch(func() {
			count.Set(1)
			panic("boom")
		})
	}()

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected queued notification to flush, got %d", listener.getDirtyCount())
	}
	if getBatchDepth() != 0 {
		t.Errorf("expected batch depth 0, got %d", getBatchDepth())
	}
}
