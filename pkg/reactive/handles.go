package reactive

// ReadSignal is the read capability of a signal. The zero value is not
// usable; obtain one from CreateSignal or Signal.Reader.
type ReadSignal[T any] struct {
	s *Signal[T]
}

// WriteSignal is the write capability of a signal. It satisfies the
// Modify/TryModify contract that tracked shorthands operate on.
type WriteSignal[T any] struct {
	s *Signal[T]
}

// CreateSignal creates a signal owned by the current owner and returns its
// read and write handles. Both handles are small values that can be copied
// freely.
func CreateSignal[T any](initial T) (ReadSignal[T], WriteSignal[T]) {
	s := NewSignal(initial)
	return s.Reader(), s.Writer()
}

// Reader returns a read handle for s.
func (s *Signal[T]) Reader() ReadSignal[T] {
	return ReadSignal[T]{s: s}
}

// Writer returns a write handle for s.
func (s *Signal[T]) Writer() WriteSignal[T] {
	return WriteSignal[T]{s: s}
}

// Get returns the current value and subscribes the current listener.
func (r ReadSignal[T]) Get() T { return r.s.Get() }

// Peek returns the current value without subscribing.
func (r ReadSignal[T]) Peek() T { return r.s.Peek() }

// TryGet returns the current value, tracked like Get, and false if the
// signal has been disposed.
func (r ReadSignal[T]) TryGet() (T, bool) {
	if r.s.IsDisposed() {
		var zero T
		return zero, false
	}
	return r.s.Get(), true
}

// Subscribe registers l for every write. See Signal.Subscribe.
func (r ReadSignal[T]) Subscribe(l Listener) func() { return r.s.Subscribe(l) }

// IsDisposed reports whether the underlying signal has been disposed.
func (r ReadSignal[T]) IsDisposed() bool { return r.s.IsDisposed() }

// ID returns the ID of the underlying signal.
func (r ReadSignal[T]) ID() uint64 { return r.s.ID() }

// Set replaces the value if it changed.
func (w WriteSignal[T]) Set(value T) { w.s.Set(value) }

// Update replaces the value with fn(current) if the result differs.
func (w WriteSignal[T]) Update(fn func(T) T) { w.s.Update(fn) }

// Modify applies fn in place and always notifies.
func (w WriteSignal[T]) Modify(fn func(*T)) { w.s.Modify(fn) }

// TryModify applies fn in place unless the signal has been disposed.
func (w WriteSignal[T]) TryModify(fn func(*T)) bool { return w.s.TryModify(fn) }

// IsDisposed reports whether the underlying signal has been disposed.
func (w WriteSignal[T]) IsDisposed() bool { return w.s.IsDisposed() }

// ID returns the ID of the underlying signal.
func (w WriteSignal[T]) ID() uint64 { return w.s.ID() }
