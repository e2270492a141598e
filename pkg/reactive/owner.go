package reactive

import (
	"sync"
	"sync/atomic"
)

// disposer is implemented by every Signal[T] instantiation so owners can
// dispose signals without knowing their value type.
type disposer interface {
	dispose()
}

// Owner is a disposal scope for reactive primitives. Disposing an owner
// disposes its child owners, effects and signals and runs its cleanups.
//
// Owners form a tree that mirrors how scopes are nested by the application.
type Owner struct {
	id uint64

	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	effects   []*Effect
	effectsMu sync.Mutex

	signals   []disposer
	signalsMu sync.Mutex

	cleanups   []func()
	cleanupsMu sync.Mutex

	pendingEffects   []*Effect
	pendingEffectsMu sync.Mutex

	values   map[any]any
	valuesMu sync.RWMutex

	disposed atomic.Bool
}

// NewOwner creates an owner registered as a child of parent. A nil parent
// creates a root owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}
	if parent != nil {
		parent.addChild(o)
	}
	return o
}

// WithScope creates a root owner, runs fn with it as the current owner and
// disposes it when fn returns.
func WithScope(fn func(o *Owner)) {
	o := NewOwner(nil)
	defer o.Dispose()
	WithOwner(o, func() {
		fn(o)
	})
}

// ID returns the unique identifier of the owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent owner, or nil for a root owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether the owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) registerEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}
	o.effectsMu.Lock()
	defer o.effectsMu.Unlock()
	o.effects = append(o.effects, e)
}

// registerSignal ties s to this owner. A signal created under an already
// disposed owner is disposed immediately.
func (o *Owner) registerSignal(s disposer) {
	if o.disposed.Load() {
		s.dispose()
		return
	}
	o.signalsMu.Lock()
	defer o.signalsMu.Unlock()
	o.signals = append(o.signals, s)
}

// OnCleanup registers fn to run when the owner is disposed. On an already
// disposed owner fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}
	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) scheduleEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}
	o.pendingEffectsMu.Lock()
	defer o.pendingEffectsMu.Unlock()
	o.pendingEffects = append(o.pendingEffects, e)
}

// RunPendingEffects runs every effect of this owner and its descendants that
// was marked dirty since the last call. It returns the number of effects run.
func (o *Owner) RunPendingEffects() int {
	if o.disposed.Load() {
		return 0
	}

	o.pendingEffectsMu.Lock()
	effects := o.pendingEffects
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()

	ran := 0
	for _, e := range effects {
		if e.pending.Load() {
			e.run()
			ran++
		}
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.childrenMu.Unlock()

	for _, child := range children {
		ran += child.RunPendingEffects()
	}
	return ran
}

// HasPendingEffects reports whether this owner or a descendant has effects
// waiting to run.
func (o *Owner) HasPendingEffects() bool {
	if o.disposed.Load() {
		return false
	}

	o.pendingEffectsMu.Lock()
	hasPending := len(o.pendingEffects) > 0
	o.pendingEffectsMu.Unlock()
	if hasPending {
		return true
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.childrenMu.Unlock()

	for _, child := range children {
		if child.HasPendingEffects() {
			return true
		}
	}
	return false
}

// Dispose disposes the owner and everything it owns. Children are disposed
// last-created first, then effects, then signals, then cleanups in reverse
// registration order. Disposing twice is a no-op.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := o.children
	o.children = nil
	o.childrenMu.Unlock()
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.effectsMu.Lock()
	effects := o.effects
	o.effects = nil
	o.effectsMu.Unlock()
	for _, e := range effects {
		e.dispose()
	}

	o.signalsMu.Lock()
	signals := o.signals
	o.signals = nil
	o.signalsMu.Unlock()
	for _, s := range signals {
		s.dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	o.pendingEffectsMu.Lock()
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()
}

// SetValue stores a context value on this owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()
	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// GetValue looks key up on this owner, then on its ancestors.
func (o *Owner) GetValue(key any) (any, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		cur.valuesMu.RLock()
		val, ok := cur.values[key]
		cur.valuesMu.RUnlock()
		if ok {
			return val, true
		}
	}
	return nil, false
}

// contextKey keys context values by their static type.
type contextKey[T any] struct{}

// ProvideContext makes value available to UseContext calls made under the
// current owner and its descendants. Without a current owner it does nothing.
func ProvideContext[T any](value T) {
	if owner := getCurrentOwner(); owner != nil {
		owner.SetValue(contextKey[T]{}, value)
	}
}

// UseContext returns the nearest value of type T provided with
// ProvideContext.
func UseContext[T any]() (T, bool) {
	var zero T
	owner := getCurrentOwner()
	if owner == nil {
		return zero, false
	}
	v, ok := owner.GetValue(contextKey[T]{})
	if !ok {
		return zero, false
	}
	return v.(T), true
}
