package reactive

import (
	"testing"
)

func TestEffectRerunsWithoutOwner(t *testing.T) {
	count := NewSignal(0)
	var seen []int

	e := CreateEffect(func() Cleanup {
		seen = append(seen, count.Get())
		return nil
	})
	defer e.Dispose()

	count.Set(1)
	count.Modify(func(n *int) { *n += 1 })

	expected := []int{0, 1, 2}
	if len(seen) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("seen[%d]: expected %d, got %d", i, expected[i], seen[i])
		}
	}
}

func TestEffectCleanup(t *testing.T) {
	count := NewSignal(0)
	cleanups := 0

	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		return func() { cleanups++ }
	})

	count.Set(1)
	if cleanups != 1 {
		t.Errorf("expected cleanup before rerun, got %d", cleanups)
	}

	e.Dispose()
	if cleanups != 2 {
		t.Errorf("expected cleanup on dispose, got %d", cleanups)
	}
}

func TestEffectDisposeStopsTracking(t *testing.T) {
	count := NewSignal(0)
	runs := 0

	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})
	e.Dispose()
	e.Dispose()

	count.Set(1)
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}
}

func TestEffectDynamicDependencies(t *testing.T) {
	useA := NewSignal(true)
	a := NewSignal(0)
	b := NewSignal(0)
	runs := 0

	e := CreateEffect(func() Cleanup {
		runs++
		if useA.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
		return nil
	})
	defer e.Dispose()

	useA.Set(false)
	runs = 0

	a.Set(1)
	if runs != 0 {
		t.Errorf("effect should no longer depend on a, got %d runs", runs)
	}
	b.Set(1)
	if runs != 1 {
		t.Errorf("expected 1 run from b, got %d", runs)
	}
}

func TestEffectDisposedWithOwner(t *testing.T) {
	count := NewSignal(0)
	runs := 0

	WithScope(func(o *Owner) {
		CreateEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})

	count.Set(1)
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}
}

func TestOnCleanupUsesCurrentOwner(t *testing.T) {
	ran := false
	WithScope(func(o *Owner) {
		OnCleanup(func() { ran = true })
	})
	if !ran {
		t.Error("expected cleanup to run on scope disposal")
	}

	OnCleanup(func() { t.Error("cleanup without owner should never run") })
}
