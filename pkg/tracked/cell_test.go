package tracked_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vango-dev/tracked/pkg/reactive"
	"github.com/vango-dev/tracked/pkg/tracked"
)

// cell is an in-memory Updater that counts primitive calls.
type cell[T any] struct {
	value       T
	invalid     bool
	modifies    int
	tryModifies int
}

func (c *cell[T]) Modify(fn func(*T)) {
	c.modifies++
	if c.invalid {
		return
	}
	fn(&c.value)
}

func (c *cell[T]) TryModify(fn func(*T)) bool {
	c.tryModifies++
	if c.invalid {
		return false
	}
	fn(&c.value)
	return true
}

func (c *cell[T]) calls() int {
	return c.modifies + c.tryModifies
}

var _ tracked.Updater[int] = (*cell[int])(nil)

// observed creates a signal under a fresh owner and counts its notifications.
// The owner is disposed when the test ends.
func observed[T any](t *testing.T, initial T) (reactive.ReadSignal[T], reactive.WriteSignal[T], *int) {
	t.Helper()

	owner := reactive.NewOwner(nil)
	t.Cleanup(owner.Dispose)

	var (
		read  reactive.ReadSignal[T]
		write reactive.WriteSignal[T]
	)
	reactive.WithOwner(owner, func() {
		read, write = reactive.CreateSignal(initial)
	})

	notifications := new(int)
	read.Subscribe(reactive.ListenerFunc(func() { *notifications++ }))
	require.False(t, read.IsDisposed())
	return read, write, notifications
}

// disposedWriter returns a write handle whose owner has already been
// disposed.
func disposedWriter[T any](initial T) (reactive.ReadSignal[T], reactive.WriteSignal[T]) {
	owner := reactive.NewOwner(nil)
	var (
		read  reactive.ReadSignal[T]
		write reactive.WriteSignal[T]
	)
	reactive.WithOwner(owner, func() {
		read, write = reactive.CreateSignal(initial)
	})
	owner.Dispose()
	return read, write
}
