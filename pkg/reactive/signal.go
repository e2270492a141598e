package reactive

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// signalBase provides type-erased subscriber management shared by every
// Signal[T] instantiation.
type signalBase struct {
	id uint64

	subs  []Listener
	subMu sync.RWMutex
}

// subscribe adds l, deduplicating by listener ID.
func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs[i] = s.subs[len(s.subs)-1]
			s.subs = s.subs[:len(s.subs)-1]
			return
		}
	}
}

func (s *signalBase) clearSubscribers() {
	s.subMu.Lock()
	s.subs = nil
	s.subMu.Unlock()
}

// notifySubscribers marks every subscriber dirty, or queues them when a
// batch is open on the calling goroutine. Subscribers are copied first so no
// lock is held while listeners run.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	if getBatchDepth() > 0 {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
		return
	}

	for _, sub := range subs {
		sub.MarkDirty()
	}
	currentObserver().ListenersNotified(len(subs))
}

// Signal is a reactive value container.
//
// Reading a Signal with Get while a listener is active (effect execution or
// WithListener) subscribes that listener. Every write path notifies
// subscribers after the value lock has been released.
//
// For slice and map values, the value returned by Get shares storage with the
// signal and is only valid until the next in-place write. Clone it before
// retaining it across writes.
type Signal[T any] struct {
	base signalBase

	value T
	mu    sync.RWMutex

	disposed atomic.Bool

	// equal gates Set and Update. nil means defaultEquals.
	equal func(T, T) bool
}

// NewSignal creates a signal holding initial. If an owner is current on the
// calling goroutine, the signal is disposed together with that owner.
func NewSignal[T any](initial T) *Signal[T] {
	s := &Signal[T]{
		base:  signalBase{id: nextID()},
		value: initial,
	}
	if owner := getCurrentOwner(); owner != nil {
		owner.registerSignal(s)
	}
	return s
}

// Get returns the current value and subscribes the current listener.
// A disposed signal still returns its last value but tracks nothing.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	if s.disposed.Load() {
		return value
	}

	if listener := getCurrentListener(); listener != nil {
		s.base.subscribe(listener)
		if e, ok := listener.(*Effect); ok {
			e.addSource(&s.base)
		}
	}
	return value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update replaces the value with fn(current) and notifies subscribers if the
// result differs from the current value.
func (s *Signal[T]) Update(fn func(T) T) {
	changed, ok := s.replace(fn)
	if !ok {
		s.rejectWrite("update")
		return
	}
	if changed {
		s.afterWrite()
	}
}

func (s *Signal[T]) replace(fn func(T) T) (changed, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed.Load() {
		return false, false
	}
	next := fn(s.value)
	if s.equals(s.value, next) {
		return false, true
	}
	s.value = next
	return true, true
}

// Modify applies fn to the value in place and notifies subscribers exactly
// once, whether or not fn changed anything.
//
// fn runs under the signal's write lock: it must not read or write the same
// signal. A panic inside fn releases the lock and skips the notification.
// On a disposed signal Modify does nothing.
func (s *Signal[T]) Modify(fn func(*T)) {
	if !s.apply(fn) {
		s.rejectWrite("modify")
		return
	}
	s.afterWrite()
}

// TryModify is Modify for a signal that may have been disposed. It reports
// whether fn ran.
func (s *Signal[T]) TryModify(fn func(*T)) bool {
	if !s.apply(fn) {
		s.rejectWrite("try_modify")
		return false
	}
	s.afterWrite()
	return true
}

func (s *Signal[T]) apply(fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed.Load() {
		return false
	}
	fn(&s.value)
	return true
}

func (s *Signal[T]) afterWrite() {
	currentObserver().SignalWritten(s.base.id)
	s.base.notifySubscribers()
}

func (s *Signal[T]) rejectWrite(op string) {
	currentObserver().SignalWriteRejected(s.base.id)
	runtimeLogger().Debug("write to disposed signal ignored",
		"signal", s.base.id,
		"op", op)
}

// Subscribe registers l to be marked dirty on every write, independent of
// tracked reads. The returned function removes the subscription.
func (s *Signal[T]) Subscribe(l Listener) (unsubscribe func()) {
	if s.disposed.Load() {
		return func() {}
	}
	s.base.subscribe(l)
	return func() { s.base.unsubscribe(l) }
}

// Dispose invalidates the signal: later writes are rejected and subscribers
// are dropped. Disposing twice is a no-op.
func (s *Signal[T]) Dispose() {
	s.mu.Lock()
	already := s.disposed.Swap(true)
	s.mu.Unlock()
	if already {
		return
	}
	s.base.clearSubscribers()
}

func (s *Signal[T]) dispose() {
	s.Dispose()
}

// IsDisposed reports whether the signal has been disposed.
func (s *Signal[T]) IsDisposed() bool {
	return s.disposed.Load()
}

// WithEquals sets the equality function used by Set and Update and returns
// the signal. Modify and TryModify never consult it.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
	return s
}

// ID returns the unique identifier of the signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for scalar kinds and reflect.DeepEqual for
// composite kinds, where == is either unavailable or may panic at runtime.
func defaultEquals[T any](a, b T) bool {
	v := reflect.ValueOf(&a).Elem()
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func, reflect.Struct,
		reflect.Array, reflect.Interface:
		return reflect.DeepEqual(a, b)
	default:
		return any(a) == any(b)
	}
}
