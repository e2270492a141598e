package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Observer receives runtime events. Implementations must be safe for
// concurrent use and must not write signals.
type Observer interface {
	// SignalWritten is called after a write was applied to a signal.
	SignalWritten(signalID uint64)

	// SignalWriteRejected is called when a write targeted a disposed signal.
	SignalWriteRejected(signalID uint64)

	// ListenersNotified is called with the number of listeners marked dirty
	// by one immediate (unbatched) notification.
	ListenersNotified(n int)

	// BatchCompleted is called when an outermost batch flushes, with the
	// number of unique listeners it notified.
	BatchCompleted(n int)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) SignalWritten(uint64)       {}
func (NopObserver) SignalWriteRejected(uint64) {}
func (NopObserver) ListenersNotified(int)      {}
func (NopObserver) BatchCompleted(int)         {}

// observerSet fans events out to every registered observer. A set is never
// modified after it is stored; registration swaps in a new one.
type observerSet struct {
	entries []*observerEntry
}

type observerEntry struct{ Observer }

func (s *observerSet) SignalWritten(id uint64) {
	for _, e := range s.entries {
		e.SignalWritten(id)
	}
}

func (s *observerSet) SignalWriteRejected(id uint64) {
	for _, e := range s.entries {
		e.SignalWriteRejected(id)
	}
}

func (s *observerSet) ListenersNotified(n int) {
	for _, e := range s.entries {
		e.ListenersNotified(n)
	}
}

func (s *observerSet) BatchCompleted(n int) {
	for _, e := range s.entries {
		e.BatchCompleted(n)
	}
}

type loggerHolder struct{ *slog.Logger }

var (
	observersMu sync.Mutex
	observers   atomic.Pointer[observerSet]
	logger      atomic.Pointer[loggerHolder]
)

func init() {
	observers.Store(&observerSet{})
	logger.Store(&loggerHolder{slog.Default()})
}

// AddObserver registers o to receive runtime events alongside any other
// registered observers. The returned function unregisters o; calling it
// more than once is a no-op.
func AddObserver(o Observer) (remove func()) {
	entry := &observerEntry{o}

	observersMu.Lock()
	cur := observers.Load().entries
	next := make([]*observerEntry, 0, len(cur)+1)
	next = append(next, cur...)
	observers.Store(&observerSet{entries: append(next, entry)})
	observersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { removeObserver(entry) })
	}
}

func removeObserver(entry *observerEntry) {
	observersMu.Lock()
	defer observersMu.Unlock()

	cur := observers.Load().entries
	next := make([]*observerEntry, 0, len(cur))
	for _, e := range cur {
		if e != entry {
			next = append(next, e)
		}
	}
	observers.Store(&observerSet{entries: next})
}

// SetObserver replaces every registered observer with o. nil removes them
// all.
func SetObserver(o Observer) {
	observersMu.Lock()
	defer observersMu.Unlock()

	if o == nil {
		observers.Store(&observerSet{})
		return
	}
	observers.Store(&observerSet{entries: []*observerEntry{{o}}})
}

func currentObserver() Observer {
	return observers.Load()
}

// SetLogger sets the logger used for runtime diagnostics. nil restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger.Store(&loggerHolder{l})
}

func runtimeLogger() *slog.Logger {
	return logger.Load().Logger
}
