package reactive

// Batch groups signal writes so every affected listener is notified once,
// when the outermost batch on the calling goroutine completes.
//
// Batches nest. Writes still apply immediately; only notifications wait.
//
//	Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	})
//	// dependents of both signals are marked dirty once
func Batch(fn func()) {
	incrementBatchDepth()
	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()
	fn()
}

// processPendingUpdates notifies each queued listener once, in first-queued
// order.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]struct{}, len(updates))
	unique := make([]Listener, 0, len(updates))
	for _, l := range updates {
		id := l.ID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, l)
	}

	for _, l := range unique {
		l.MarkDirty()
	}
	currentObserver().BatchCompleted(len(unique))
}

// Untracked runs fn without subscribing the current listener to anything fn
// reads.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
