package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state of one goroutine.
type trackingContext struct {
	// currentOwner owns signals and effects created on this goroutine.
	currentOwner *Owner

	// currentListener is subscribed by signal reads. nil disables tracking.
	currentListener Listener

	// batchDepth counts nested Batch calls.
	batchDepth int

	// pendingUpdates are listeners to notify when the outermost batch ends.
	pendingUpdates []Listener
}

var trackingContexts sync.Map

// goroutineID parses the current goroutine's ID from its stack header
// ("goroutine <id> [...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getTrackingContext() *trackingContext {
	gid := goroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

func getCurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

func getBatchDepth() int {
	return getTrackingContext().batchDepth
}

func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth reports whether the outermost batch just completed.
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

func drainPendingUpdates() []Listener {
	ctx := getTrackingContext()
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	return updates
}

// WithOwner runs fn with owner as the current owner. Signals and effects
// created inside fn belong to owner.
//
// Goroutines start without an owner; use WithOwner to attach work spawned
// from a scope back to it.
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs fn with l as the tracking listener, so every signal read
// inside fn subscribes l.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// ReleaseGoroutine drops the tracking context of the calling goroutine.
// Long-lived worker goroutines should call it before exiting.
func ReleaseGoroutine() {
	trackingContexts.Delete(goroutineID())
}
