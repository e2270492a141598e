// Package tracked provides shorthand mutations for reactive signals.
//
// Instead of writing a read-modify-write closure for every change,
//
//	count.Modify(func(n *int) { *n += 12 })
//	items.Modify(func(v *[]Item) { *v = append(*v, item) })
//
// call the matching shorthand:
//
//	tracked.Add(count, 12)
//	tracked.Push(items, item)
//
// Every shorthand performs exactly one call to the signal's update primitive,
// so dependents are notified exactly once per call however many elements the
// mutation touches. Shorthands never compare values: a call that leaves the
// value unchanged still notifies.
//
// The shorthands accept any Updater, not only signals from package reactive.
//
// # Invalid signals
//
// Pop and Remove go through TryModify and report an invalid (disposed)
// signal as an outer None, distinct from "the signal was valid but the
// slice was empty":
//
//	switch popped := tracked.Pop(stack); {
//	case popped.IsNone():
//	    // signal disposed, nothing happened
//	case popped.MustGet().IsNone():
//	    // signal valid, slice was empty
//	default:
//	    top := popped.MustGet().MustGet()
//	    _ = top
//	}
//
// # Preconditions
//
// Shorthands add no validation of their own. Integer division by zero,
// out-of-range indexes for Insert and Remove, and other faults of the value
// type's own operators panic exactly as the equivalent plain Go would.
// Integer overflow wraps.
package tracked
