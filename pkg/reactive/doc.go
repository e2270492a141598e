// Package reactive provides the fine-grained reactive runtime that tracked
// shorthands are applied to.
//
// Dependencies are tracked at runtime: reading a signal while a listener is
// active subscribes that listener, and writing the signal marks it dirty.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get()                  // Read (subscribes current listener)
//	count.Set(5)                          // Write if changed
//	count.Modify(func(n *int) { *n++ })   // In-place write, always notifies
//
// CreateSignal splits a signal into read and write handles:
//
//	read, write := CreateSignal([]int{1, 2, 3})
//	ok := write.TryModify(func(v *[]int) { *v = append(*v, 4) })
//
// TryModify reports false instead of writing once the signal has been
// disposed, which happens when its Owner is disposed.
//
// # Owners
//
// An Owner is a disposal scope. Signals and effects created while an owner is
// current belong to it:
//
//	owner := NewOwner(nil)
//	WithOwner(owner, func() {
//	    read, write = CreateSignal(0)
//	})
//	owner.Dispose() // write.TryModify now returns false
//
// # Batching
//
// Multiple writes can be batched to trigger a single notification per listener:
//
//	Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})
//
// # Thread Safety
//
// All primitives can be accessed from multiple goroutines. The tracking
// context (current owner, listener and batch) is per goroutine.
package reactive
