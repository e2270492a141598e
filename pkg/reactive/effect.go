package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a side effect that re-runs when a signal it read changes.
//
// Effects with an owner are re-run by Owner.RunPendingEffects; effects
// created without an owner re-run synchronously when marked dirty.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*signalBase
	sourcesMu sync.Mutex

	owner *Owner

	pending  atomic.Bool
	disposed atomic.Bool
}

// MarkDirty schedules the effect to re-run. Repeated calls before the effect
// runs schedule it once.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if !e.pending.CompareAndSwap(false, true) {
		return
	}
	if e.owner != nil {
		e.owner.scheduleEffect(e)
		return
	}
	e.run()
}

// ID returns the unique identifier of the effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect, re-collecting its sources.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}
	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := setCurrentListener(e)
	defer setCurrentListener(old)
	e.cleanup = e.fn()
}

func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose stops the effect: its cleanup runs and it unsubscribes from every
// source.
func (e *Effect) Dispose() {
	e.dispose()
}

func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// CreateEffect creates an effect owned by the current owner and runs it once
// immediately. fn may return a Cleanup, called before the next run and on
// disposal.
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	owner := getCurrentOwner()
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}
	if owner != nil {
		owner.registerEffect(e)
	}
	e.run()
	return e
}

// OnCleanup registers fn with the current owner. Without a current owner fn
// never runs.
func OnCleanup(fn func()) {
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
