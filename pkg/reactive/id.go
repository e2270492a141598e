package reactive

import "sync/atomic"

var idCounter atomic.Uint64

// nextID returns a process-unique, monotonically increasing identifier for
// signals, owners, effects and listeners.
func nextID() uint64 {
	return idCounter.Add(1)
}
