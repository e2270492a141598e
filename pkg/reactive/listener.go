package reactive

// Listener is anything that can be notified when a dependency changes.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	MarkDirty()

	// ID returns a unique identifier, used to deduplicate batched notifications.
	ID() uint64
}

// Cleanup is returned by effects and runs before the effect re-runs or when
// it is disposed.
type Cleanup func()

// funcListener adapts a plain function into a Listener.
type funcListener struct {
	id uint64
	fn func()
}

// ListenerFunc returns a Listener that calls fn on every notification.
// Each call returns a listener with a fresh ID.
func ListenerFunc(fn func()) Listener {
	return &funcListener{id: nextID(), fn: fn}
}

func (l *funcListener) MarkDirty() {
	if l.fn != nil {
		l.fn()
	}
}

func (l *funcListener) ID() uint64 {
	return l.id
}
