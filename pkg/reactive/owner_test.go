package reactive

import (
	"testing"
)

func TestOwnerHierarchy(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)
	grandchild := NewOwner(child)

	if child.Parent() != root {
		t.Error("child parent should be root")
	}
	if grandchild.Parent() != child {
		t.Error("grandchild parent should be child")
	}

	root.Dispose()

	if !root.IsDisposed() || !child.IsDisposed() || !grandchild.IsDisposed() {
		t.Error("disposing root should dispose the whole tree")
	}
}

func TestOwnerDisposeOrder(t *testing.T) {
	var order []string
	root := NewOwner(nil)

	first := NewOwner(root)
	first.OnCleanup(func() { order = append(order, "first-child") })
	second := NewOwner(root)
	second.OnCleanup(func() { order = append(order, "second-child") })

	root.OnCleanup(func() { order = append(order, "cleanup-1") })
	root.OnCleanup(func() { order = append(order, "cleanup-2") })

	root.Dispose()

	expected := []string{"second-child", "first-child", "cleanup-2", "cleanup-1"}
	if len(order) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("order[%d]: expected %s, got %s", i, expected[i], order[i])
		}
	}
}

func TestOwnerDisposeTwice(t *testing.T) {
	calls := 0
	o := NewOwner(nil)
	o.OnCleanup(func() { calls++ })

	o.Dispose()
	o.Dispose()

	if calls != 1 {
		t.Errorf("expected cleanup to run once, got %d", calls)
	}
}

func TestOwnerOnCleanupAfterDispose(t *testing.T) {
	o := NewOwner(nil)
	o.Dispose()

	ran := false
	o.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup registered on a disposed owner should run immediately")
	}
}

func TestOwnerDisposesSignals(t *testing.T) {
	o := NewOwner(nil)
	var count *Signal[int]
	WithOwner(o, func() {
		count = NewSignal(1)
	})

	o.Dispose()

	if !count.IsDisposed() {
		t.Error("signal should be disposed with its owner")
	}
	if count.TryModify(func(n *int) { *n = 2 }) {
		t.Error("TryModify should fail after owner disposal")
	}
}

func TestSignalCreatedUnderDisposedOwner(t *testing.T) {
	o := NewOwner(nil)
	o.Dispose()

	var count *Signal[int]
	WithOwner(o, func() {
		count = NewSignal(1)
	})

	if !count.IsDisposed() {
		t.Error("signal created under a disposed owner should start disposed")
	}
}

func TestWithScope(t *testing.T) {
	var scope *Owner
	var count *Signal[int]

	WithScope(func(o *Owner) {
		scope = o
		count = NewSignal(0)
		if getCurrentOwner() != o {
			t.Error("scope owner should be current inside fn")
		}
	})

	if !scope.IsDisposed() {
		t.Error("scope owner should be disposed after fn returns")
	}
	if !count.IsDisposed() {
		t.Error("signal created in scope should be disposed")
	}
}

func TestProvideUseContext(t *testing.T) {
	type theme string

	root := NewOwner(nil)
	defer root.Dispose()
	child := NewOwner(root)

	WithOwner(root, func() {
		ProvideContext(theme("dark"))
	})

	WithOwner(child, func() {
		got, ok := UseContext[theme]()
		if !ok || got != "dark" {
			t.Errorf("expected dark, got %q %v", got, ok)
		}
		if _, ok := UseContext[int](); ok {
			t.Error("expected no int in context")
		}
	})

	if _, ok := UseContext[theme](); ok {
		t.Error("UseContext without an owner should report false")
	}
}

func TestOwnerGetValueShadowing(t *testing.T) {
	root := NewOwner(nil)
	defer root.Dispose()
	child := NewOwner(root)

	root.SetValue("k", 1)
	child.SetValue("k", 2)

	if v, _ := child.GetValue("k"); v != 2 {
		t.Errorf("expected child value 2, got %v", v)
	}
	if v, _ := root.GetValue("k"); v != 1 {
		t.Errorf("expected root value 1, got %v", v)
	}
	if _, ok := root.GetValue("missing"); ok {
		t.Error("expected missing key to report false")
	}
}

func TestRunPendingEffects(t *testing.T) {
	root := NewOwner(nil)
	defer root.Dispose()
	child := NewOwner(root)

	count := NewSignal(0)
	runs := 0
	WithOwner(child, func() {
		CreateEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})

	count.Set(1)
	count.Set(2)

	if !root.HasPendingEffects() {
		t.Fatal("expected pending effects after writes")
	}
	if n := root.RunPendingEffects(); n != 1 {
		t.Errorf("expected 1 effect run, got %d", n)
	}
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
	if root.HasPendingEffects() {
		t.Error("expected no pending effects after run")
	}
}
